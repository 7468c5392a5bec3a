package playback

import (
	"github.com/tphakala/birdwheel/internal/scene"
)

// Snapshot is a consistent copy of the session for renderers.
type Snapshot struct {
	SessionID string
	State     State
	Active    []string
	Indicator float64
	Readout   string
	Layers    []scene.Layer
}

// Snapshot copies the session under one lock acquisition.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID: s.session.ID,
		State:     s.session.State,
		Active:    s.session.titles(),
		Indicator: s.session.Indicator,
		Readout:   s.session.Readout,
		Layers:    s.session.scene.Layers(),
	}
}

// SessionID returns the session identifier used in logs.
func (s *Synchronizer) SessionID() string {
	return s.session.ID
}

// State returns the playback state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.State
}

// Active returns the shown birds in activation order.
func (s *Synchronizer) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.titles()
}

// Handles returns the audio handles of the shown birds in activation order.
func (s *Synchronizer) Handles() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	handles := make([]Handle, len(s.session.active))
	for i, e := range s.session.active {
		handles[i] = e.handle
	}
	return handles
}

// Reference returns the title of the bird whose handle times the playhead.
func (s *Synchronizer) Reference() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.session.reference()
	return e.record.Title, ok
}

// Layers returns the wheel layers in activation order.
func (s *Synchronizer) Layers() []scene.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.scene.Layers()
}

// Indicator returns the playhead angle.
func (s *Synchronizer) Indicator() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Indicator
}

// Readout returns the elapsed time display.
func (s *Synchronizer) Readout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Readout
}

// Pending reports whether the bird is loading.
func (s *Synchronizer) Pending(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.isPending(title)
}

// ScatterLayers lays the shown birds out on the scatter view. Colours are assigned per
// bird in first activation order and kept for the life of the session.
func (s *Synchronizer) ScatterLayers(sc scene.Scatter) []scene.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	layers := make([]scene.Layer, 0, len(s.session.active))
	for _, e := range s.session.active {
		layers = append(layers, sc.Layer(e.record.Title, s.session.colors.Scale(e.record.Title), e.set))
	}
	return layers
}
