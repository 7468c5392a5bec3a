package playback

import (
	"slices"

	"github.com/google/uuid"

	"github.com/tphakala/birdwheel/internal/manifest"
	"github.com/tphakala/birdwheel/internal/samples"
	"github.com/tphakala/birdwheel/internal/scale"
	"github.com/tphakala/birdwheel/internal/scene"
)

// entry is one shown bird: its layer lives in the session scene under the same title
type entry struct {
	record manifest.BirdRecord
	handle Handle
	set    *samples.Set
}

// Session is the playback state: which birds are shown with which handles, and
// where the playhead is. The set of birds with a layer in Scene is always exactly the
// set of birds with a handle. Session is owned by a Synchronizer and guarded by its lock.
type Session struct {
	ID        string
	State     State
	Indicator float64
	Readout   string

	active  []entry
	scene   *scene.Scene
	pending map[string]uint64
	token   uint64
	// sticky scatter colours in activation order
	colors *scale.Ordinal
}

func newSession(loop float64) *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     Idle,
		Indicator: scene.Home,
		Readout:   FormatReadout(0, loop),
		scene:     scene.New(),
		pending:   make(map[string]uint64),
		colors:    scale.NewOrdinal(),
	}
}

func (s *Session) index(title string) int {
	return slices.IndexFunc(s.active, func(e entry) bool { return e.record.Title == title })
}

func (s *Session) isActive(title string) bool {
	return s.index(title) >= 0
}

func (s *Session) isPending(title string) bool {
	_, ok := s.pending[title]
	return ok
}

// begin registers a pending activation and returns its token
func (s *Session) begin(title string) uint64 {
	s.token++
	s.pending[title] = s.token
	return s.token
}

// live reports whether token is still the pending activation of title
func (s *Session) live(title string, token uint64) bool {
	t, ok := s.pending[title]
	return ok && t == token
}

func (s *Session) cancel(title string) bool {
	if !s.isPending(title) {
		return false
	}
	delete(s.pending, title)
	return true
}

// commit adds layer and handle together
func (s *Session) commit(e entry, layer scene.Layer) {
	delete(s.pending, e.record.Title)
	s.scene.Add(layer)
	s.active = append(s.active, e)
	s.colors.Scale(e.record.Title)
}

// remove drops layer and handle together
func (s *Session) remove(title string) (entry, bool) {
	i := s.index(title)
	if i < 0 {
		return entry{}, false
	}
	e := s.active[i]
	s.active = slices.Delete(s.active, i, i+1)
	s.scene.Remove(title)
	return e, true
}

// reference returns the timing handle: the earliest activated bird still shown
func (s *Session) reference() (entry, bool) {
	if len(s.active) == 0 {
		return entry{}, false
	}
	return s.active[0], true
}

func (s *Session) titles() []string {
	titles := make([]string, len(s.active))
	for i, e := range s.active {
		titles[i] = e.record.Title
	}
	return titles
}
