package playback

import (
	"bytes"
	"context"
	"path"
	"sync"
	"time"

	"github.com/go-audio/wav"

	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/manifest"
)

// Handle is a playable audio recording. Times are in seconds.
type Handle interface {
	Play() error
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	// Duration returns the recording length, or 0 when unknown
	Duration() float64
	// Ended reports whether playback reached the end of a recording of known length
	Ended() bool
	Close() error
}

// ClockHandle is a Handle whose position advances with a Clock while playing.
// It stands in for an audio device: nothing is decoded or output.
type ClockHandle struct {
	mu        sync.Mutex
	clock     Clock
	duration  float64
	offset    float64
	startedAt time.Time
	playing   bool
	closed    bool
}

// NewClockHandle returns a paused handle at position zero. duration <= 0 means unknown.
func NewClockHandle(clock Clock, duration float64) *ClockHandle {
	if clock == nil {
		clock = SystemClock()
	}
	if duration < 0 {
		duration = 0
	}
	return &ClockHandle{clock: clock, duration: duration}
}

// position must be called with h.mu held
func (h *ClockHandle) position() float64 {
	pos := h.offset
	if h.playing {
		pos += h.clock.Now().Sub(h.startedAt).Seconds()
	}
	if h.duration > 0 && pos > h.duration {
		pos = h.duration
	}
	return pos
}

// Play starts or resumes playback. A handle that reached its end restarts from zero.
func (h *ClockHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Newf("play on closed audio handle").
			Component(componentName).
			Category(errors.CategoryState).
			Build()
	}
	if h.playing {
		return nil
	}
	if h.duration > 0 && h.offset >= h.duration {
		h.offset = 0
	}
	h.startedAt = h.clock.Now()
	h.playing = true
	return nil
}

// Pause freezes the position.
func (h *ClockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.offset = h.position()
	h.playing = false
}

// Seek moves to seconds, clamped to the recording.
func (h *ClockHandle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	if h.duration > 0 && seconds > h.duration {
		seconds = h.duration
	}
	h.offset = seconds
	h.startedAt = h.clock.Now()
}

// CurrentTime returns the playback position.
func (h *ClockHandle) CurrentTime() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position()
}

// Duration returns the recording length, 0 when unknown.
func (h *ClockHandle) Duration() float64 {
	return h.duration
}

// Ended reports whether the position reached a known duration.
func (h *ClockHandle) Ended() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration > 0 && h.position() >= h.duration
}

// Playing reports whether the handle is running.
func (h *ClockHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Close stops the handle; it cannot be played again.
func (h *ClockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.offset = h.position()
	h.playing = false
	h.closed = true
	return nil
}

// OpenWAV probes a WAV document for its duration and returns a handle for it.
func OpenWAV(data []byte, clock Clock) (*ClockHandle, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, errors.Newf("invalid WAV file format").
			Component(componentName).
			Category(errors.CategoryAudio).
			Build()
	}

	duration, err := decoder.Duration()
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryAudio).
			Context("sample_rate", decoder.SampleRate).
			Build()
	}

	return NewClockHandle(clock, duration.Seconds()), nil
}

// AudioOpener opens the audio handle of a bird.
type AudioOpener interface {
	Open(ctx context.Context, record manifest.BirdRecord) (Handle, error)
}

// WAVOpener opens WAV recordings from an asset source. Audio never blocks a bird from
// being shown: missing or unreadable recordings give a handle of unknown duration.
type WAVOpener struct {
	Source   assets.Source
	AudioDir string
	Clock    Clock
}

// Ref returns the asset reference of a record's recording.
func (o *WAVOpener) Ref(record manifest.BirdRecord) string {
	if o.AudioDir == "" {
		return record.Audio
	}
	return path.Join(o.AudioDir, record.Audio)
}

// Open fetches and probes the recording. Only context cancellation is returned as an error.
func (o *WAVOpener) Open(ctx context.Context, record manifest.BirdRecord) (Handle, error) {
	log := GetLogger().With(logger.String("bird", record.Title))

	if record.Audio == "" {
		log.Warn("Bird has no audio reference, playing silently")
		return NewClockHandle(o.Clock, 0), nil
	}

	ref := o.Ref(record)
	data, err := o.Source.Fetch(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.Warn("Audio unavailable, duration unknown",
			logger.String("ref", ref),
			logger.Error(err))
		return NewClockHandle(o.Clock, 0), nil
	}

	handle, err := OpenWAV(data, o.Clock)
	if err != nil {
		log.Warn("Audio unreadable, duration unknown",
			logger.String("ref", ref),
			logger.Error(err))
		return NewClockHandle(o.Clock, 0), nil
	}

	log.Debug("Audio opened", logger.Float64("duration", handle.Duration()))
	return handle, nil
}
