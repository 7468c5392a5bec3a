package playback

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 8000

// wavBytes encodes a silent mono 16-bit WAV of the given length
func wavBytes(t *testing.T, seconds float64) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, testSampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           make([]int, int(seconds*testSampleRate)),
		Format:         &audio.Format{SampleRate: testSampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func testClock() *FakeClock {
	return NewFakeClock(time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC))
}

// recordingView captures every update for assertions
type recordingView struct {
	mu       sync.Mutex
	angles   []float64
	readouts []string
	playing  bool
}

func (v *recordingView) MoveIndicator(angle float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.angles = append(v.angles, angle)
}

func (v *recordingView) SetReadout(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.readouts = append(v.readouts, text)
}

func (v *recordingView) SetPlaying(playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = playing
}

func (v *recordingView) last() (angle float64, readout string, playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.angles) > 0 {
		angle = v.angles[len(v.angles)-1]
	}
	if len(v.readouts) > 0 {
		readout = v.readouts[len(v.readouts)-1]
	}
	return angle, readout, v.playing
}
