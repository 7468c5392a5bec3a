package playback

import (
	"context"
	"math"
	"sync"

	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/manifest"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
	"github.com/tphakala/birdwheel/internal/samples"
	"github.com/tphakala/birdwheel/internal/scene"
)

// SampleLoader loads the processed samples of a bird.
type SampleLoader interface {
	Load(ctx context.Context, record manifest.BirdRecord) (*samples.Set, error)
}

// HabitatResolver returns the habitat, and so the colour gradient, of a bird.
type HabitatResolver interface {
	Habitat(title string) manifest.Habitat
}

// Config wires a Synchronizer.
type Config struct {
	Loop      float64
	Radial    scene.Radial
	Samples   SampleLoader
	Audio     AudioOpener
	Habitats  HabitatResolver
	Scheduler Scheduler
	View      View
	Metrics   *metrics.VisualizerMetrics
}

// Synchronizer owns the session. Every mutation goes through its lock; sample and
// audio loading happen outside it and are committed only if still wanted.
type Synchronizer struct {
	mu      sync.Mutex
	session *Session

	loop      float64
	radial    scene.Radial
	samples   SampleLoader
	audio     AudioOpener
	habitats  HabitatResolver
	scheduler Scheduler
	view      View
	metrics   *metrics.VisualizerMetrics
	log       logger.Logger
}

// NewSynchronizer returns an idle synchronizer with no birds shown.
func NewSynchronizer(cfg Config) (*Synchronizer, error) {
	if cfg.Loop <= 0 {
		return nil, errors.Newf("loop duration must be positive, got %v", cfg.Loop).
			Component(componentName).
			Category(errors.CategoryValidation).
			Build()
	}
	if cfg.Samples == nil || cfg.Audio == nil || cfg.Habitats == nil {
		return nil, errors.Newf("synchronizer requires a sample loader, an audio opener and a habitat resolver").
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewIntervalScheduler(DefaultFrameInterval)
	}
	if cfg.View == nil {
		cfg.View = NopView{}
	}

	session := newSession(cfg.Loop)
	s := &Synchronizer{
		session:   session,
		loop:      cfg.Loop,
		radial:    cfg.Radial,
		samples:   cfg.Samples,
		audio:     cfg.Audio,
		habitats:  cfg.Habitats,
		scheduler: cfg.Scheduler,
		view:      cfg.View,
		metrics:   cfg.Metrics,
		log:       GetLogger().With(logger.String("session", session.ID)),
	}
	return s, nil
}

// Toggle shows a hidden bird or hides a shown (or loading) one.
func (s *Synchronizer) Toggle(ctx context.Context, record manifest.BirdRecord) (ToggleResult, error) {
	s.mu.Lock()
	on := s.session.isActive(record.Title) || s.session.isPending(record.Title)
	s.mu.Unlock()

	if on {
		return s.Deactivate(record.Title), nil
	}
	return s.Activate(ctx, record)
}

// Activate loads the bird's samples, builds its layer, opens its audio and adds layer and
// handle together. When the session is playing the new handle starts immediately.
func (s *Synchronizer) Activate(ctx context.Context, record manifest.BirdRecord) (ToggleResult, error) {
	title := record.Title
	log := s.log.With(logger.String("bird", title))

	s.mu.Lock()
	if s.session.isActive(title) || s.session.isPending(title) {
		s.mu.Unlock()
		return s.record(AlreadyInState), nil
	}
	token := s.session.begin(title)
	s.mu.Unlock()

	layer, set, handle, err := s.prepare(ctx, record)
	if err != nil {
		s.mu.Lock()
		if s.session.live(title, token) {
			s.session.cancel(title)
		}
		s.mu.Unlock()
		log.Error("Bird not shown", logger.Error(err))
		return s.record(LoadFailed), err
	}

	s.mu.Lock()
	if !s.session.live(title, token) {
		s.mu.Unlock()
		_ = handle.Close()
		log.Debug("Discarding activation of a bird hidden while loading")
		return s.record(Stale), nil
	}

	s.session.commit(entry{record: record, handle: handle, set: set}, layer)
	if s.session.State == Playing {
		if err := handle.Play(); err != nil {
			log.Warn("Failed to start audio", logger.Error(err))
		}
	}
	s.updateSceneMetricsLocked()
	s.mu.Unlock()

	log.Info("Bird shown", logger.Int("marks", len(layer.Marks)))
	return s.record(Activated), nil
}

// prepare does the slow part of an activation without holding the lock
func (s *Synchronizer) prepare(ctx context.Context, record manifest.BirdRecord) (scene.Layer, *samples.Set, Handle, error) {
	set, err := s.samples.Load(ctx, record)
	if err != nil {
		return scene.Layer{}, nil, nil, err
	}

	layer, err := s.radial.Layer(record.Title, s.habitats.Habitat(record.Title).Colors, set)
	if err != nil {
		return scene.Layer{}, nil, nil, err
	}

	handle, err := s.audio.Open(ctx, record)
	if err != nil {
		return scene.Layer{}, nil, nil, err
	}
	return layer, set, handle, nil
}

// Deactivate hides a bird: its layer and handle are removed together, or its pending
// activation is cancelled. Hiding the last bird while playing stops playback.
func (s *Synchronizer) Deactivate(title string) ToggleResult {
	s.mu.Lock()
	if s.session.cancel(title) {
		s.mu.Unlock()
		s.log.Debug("Cancelled pending activation", logger.String("bird", title))
		return s.record(Deactivated)
	}

	e, ok := s.session.remove(title)
	if !ok {
		s.mu.Unlock()
		return s.record(AlreadyInState)
	}
	e.handle.Pause()
	if err := e.handle.Close(); err != nil {
		s.log.Warn("Failed to close audio handle", logger.String("bird", title), logger.Error(err))
	}

	stopped := false
	if s.session.State == Playing && len(s.session.active) == 0 {
		s.resetLocked()
		stopped = true
	}
	s.updateSceneMetricsLocked()
	s.mu.Unlock()

	if stopped {
		s.scheduler.Stop()
	}
	s.log.Info("Bird hidden", logger.String("bird", title))
	return s.record(Deactivated)
}

// Play starts every handle from its current position and the frame loop.
// It needs at least one shown bird.
func (s *Synchronizer) Play() error {
	s.mu.Lock()
	if s.session.State == Playing {
		s.mu.Unlock()
		return nil
	}
	if len(s.session.active) == 0 {
		s.mu.Unlock()
		return errors.Newf("nothing to play: no bird is shown").
			Component(componentName).
			Category(errors.CategoryState).
			Build()
	}

	for _, e := range s.session.active {
		if err := e.handle.Play(); err != nil {
			s.log.Warn("Failed to start audio", logger.String("bird", e.record.Title), logger.Error(err))
		}
	}
	s.session.State = Playing
	s.view.SetPlaying(true)
	s.metrics.RecordTransition(Playing.String())
	s.mu.Unlock()

	s.scheduler.Start(s.frame)
	s.log.Debug("Playback started")
	return nil
}

// Stop pauses every handle, rewinds it to zero and resets the playhead and readout.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.scheduler.Stop()
}

// TogglePlay plays when idle and stops when playing.
func (s *Synchronizer) TogglePlay() error {
	if s.State() == Playing {
		s.Stop()
		return nil
	}
	return s.Play()
}

// resetLocked returns the session to idle; s.mu must be held
func (s *Synchronizer) resetLocked() {
	for _, e := range s.session.active {
		e.handle.Pause()
		e.handle.Seek(0)
	}

	wasPlaying := s.session.State == Playing
	s.session.State = Idle
	s.session.Indicator = scene.Home
	s.session.Readout = FormatReadout(0, s.loop)

	s.view.MoveIndicator(s.session.Indicator)
	s.view.SetReadout(s.session.Readout)
	s.view.SetPlaying(false)

	if wasPlaying {
		s.metrics.RecordTransition(Idle.String())
		s.log.Debug("Playback stopped")
	}
}

// frame advances the playhead from the reference handle. It returns false once
// playback is over: stopped, no birds left, or the loop end reached.
func (s *Synchronizer) frame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.State != Playing {
		return false
	}
	ref, ok := s.session.reference()
	if !ok {
		s.resetLocked()
		return false
	}

	t := ref.handle.CurrentTime()
	if t >= s.loop || ref.handle.Ended() {
		s.resetLocked()
		return false
	}

	elapsed := math.Mod(t, s.loop)
	s.session.Indicator = scene.Angle(elapsed, s.loop)
	s.session.Readout = FormatReadout(elapsed, s.loop)
	s.view.MoveIndicator(s.session.Indicator)
	s.view.SetReadout(s.session.Readout)
	return true
}

// Close hides every bird and stops the frame loop.
func (s *Synchronizer) Close() error {
	s.Stop()

	s.mu.Lock()
	var errs []error
	for _, title := range s.session.titles() {
		e, _ := s.session.remove(title)
		if err := e.handle.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(s.session.pending)
	s.updateSceneMetricsLocked()
	s.mu.Unlock()

	return errors.Join(errs...)
}

func (s *Synchronizer) record(result ToggleResult) ToggleResult {
	s.metrics.RecordToggle(result.String())
	return result
}

func (s *Synchronizer) updateSceneMetricsLocked() {
	s.metrics.UpdateScene(len(s.session.active), s.session.scene.MarkCount())
}
