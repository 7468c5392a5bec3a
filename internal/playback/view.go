package playback

import "fmt"

// View receives the visible playback state. Calls happen with the synchronizer
// locked, so implementations must not call back into it.
type View interface {
	MoveIndicator(angle float64)
	SetReadout(text string)
	SetPlaying(playing bool)
}

// FormatReadout renders the elapsed time display, e.g. "Time: 1.5 / 8.0".
func FormatReadout(elapsed, loop float64) string {
	return fmt.Sprintf("Time: %.1f / %.1f", elapsed, loop)
}

// NopView discards all updates.
type NopView struct{}

func (NopView) MoveIndicator(float64) {}
func (NopView) SetReadout(string)     {}
func (NopView) SetPlaying(bool)       {}
