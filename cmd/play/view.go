package play

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/tphakala/birdwheel/internal/playback"
)

// terminalView rewrites the readout line in place on every frame. The playhead
// itself is only drawn by snap.
type terminalView struct {
	mu        sync.Mutex
	w         io.Writer
	readout   string
	playing   bool
	playStyle *color.Color
	idleStyle *color.Color
}

func newTerminalView(w io.Writer, loop float64) *terminalView {
	return &terminalView{
		w:         w,
		readout:   playback.FormatReadout(0, loop),
		playStyle: color.New(color.FgHiGreen, color.Bold),
		idleStyle: color.New(color.FgHiBlack),
	}
}

func (v *terminalView) MoveIndicator(float64) {}

func (v *terminalView) SetReadout(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.readout = text
	if v.playing {
		v.drawLocked()
	}
}

func (v *terminalView) SetPlaying(playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing == playing {
		return
	}
	v.playing = playing
	v.drawLocked()
	if !playing {
		fmt.Fprintln(v.w)
	}
}

func (v *terminalView) drawLocked() {
	style, label := v.idleStyle, "stopped"
	if v.playing {
		style, label = v.playStyle, "playing"
	}
	fmt.Fprintf(v.w, "\r%s %s", style.Sprintf("[%s]", label), v.readout)
}
