package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitForChannel_Closed(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	WaitForChannel(t, ch, ShortTestTimeout, "closed channel must not block")
}

func TestReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 42
	assert.Equal(t, 42, Receive(t, ch, ShortTestTimeout, "value expected"))
}
