// Package playback keeps the shown birds and their audio handles in one session and
// moves the wheel's playhead with the elapsed time of the reference recording.
package playback

import (
	"github.com/tphakala/birdwheel/internal/logger"
)

const componentName = "playback"

// GetLogger returns the playback module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// State is the playback state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// ToggleResult is the outcome of activating or deactivating a bird.
type ToggleResult int

const (
	// Activated means the bird's marks and audio handle were added together
	Activated ToggleResult = iota
	// Deactivated means the bird's marks and audio handle were removed together,
	// or its pending activation was cancelled
	Deactivated
	// AlreadyInState means nothing changed
	AlreadyInState
	// LoadFailed means the samples could not be loaded; nothing changed
	LoadFailed
	// Stale means the bird was deactivated while loading and the result was discarded
	Stale
)

func (r ToggleResult) String() string {
	switch r {
	case Activated:
		return "activated"
	case Deactivated:
		return "deactivated"
	case AlreadyInState:
		return "already_in_state"
	case LoadFailed:
		return "load_failed"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}
