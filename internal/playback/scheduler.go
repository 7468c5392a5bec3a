package playback

import (
	"sync"
	"time"
)

// Scheduler runs a frame function repeatedly until it returns false or Stop is called.
// At most one loop runs at a time.
type Scheduler interface {
	// Start begins running frame. It is a no-op while a loop is running.
	Start(frame func() bool)
	// Stop ends the loop and waits for a frame in progress to finish.
	// Stop must not be called from inside a frame.
	Stop()
	Running() bool
}

// IntervalScheduler runs frames on a ticker goroutine.
type IntervalScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// NewIntervalScheduler returns a scheduler ticking every interval.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Start launches the frame loop unless one is already running.
func (s *IntervalScheduler) Start(frame func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runningLocked() {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	go s.run(frame, stop, done)
}

func (s *IntervalScheduler) run(frame func() bool, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !frame() {
				return
			}
		}
	}
}

// Stop ends the loop and waits for it to exit.
func (s *IntervalScheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a loop is active.
func (s *IntervalScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *IntervalScheduler) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// ManualScheduler runs a frame only when Step is called. Used to drive playback
// deterministically in tests and in single-step tools.
type ManualScheduler struct {
	mu      sync.Mutex
	frame   func() bool
	running bool
	starts  int
}

// NewManualScheduler returns an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Start arms the scheduler with frame.
func (s *ManualScheduler) Start(frame func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.frame = frame
	s.running = true
	s.starts++
}

// Step runs one frame and reports whether the loop continues.
func (s *ManualScheduler) Step() bool {
	s.mu.Lock()
	frame, running := s.frame, s.running
	s.mu.Unlock()

	if !running {
		return false
	}

	cont := frame()
	if !cont {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}
	return cont
}

// Stop disarms the scheduler.
func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether the scheduler is armed.
func (s *ManualScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Starts returns how many loops were started.
func (s *ManualScheduler) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}
