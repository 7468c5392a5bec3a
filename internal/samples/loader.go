package samples

import (
	"context"
	"path"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/manifest"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
)

// Config configures a Loader.
type Config struct {
	// SamplesDir is prefixed to the manifest's data reference
	SamplesDir string
	Window     Window
	// CacheTTL of processed sets; zero keeps them for the life of the loader
	CacheTTL time.Duration
	Metrics  *metrics.VisualizerMetrics
}

// Loader fetches, parses and windows sample files, caching the result per bird.
// Safe for concurrent use.
type Loader struct {
	source     assets.Source
	samplesDir string
	window     Window
	cache      *cache.Cache
	metrics    *metrics.VisualizerMetrics
}

// NewLoader returns a Loader reading through src.
func NewLoader(src assets.Source, cfg Config) *Loader {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Loader{
		source:     src,
		samplesDir: cfg.SamplesDir,
		window:     cfg.Window,
		// no janitor goroutine; expired entries are dropped on access
		cache:   cache.New(ttl, 0),
		metrics: cfg.Metrics,
	}
}

// Window returns the loader's display window.
func (l *Loader) Window() Window {
	return l.window
}

// Ref returns the asset reference of a record's sample file.
func (l *Loader) Ref(record manifest.BirdRecord) string {
	if l.samplesDir == "" {
		return record.Data
	}
	return path.Join(l.samplesDir, record.Data)
}

// Load returns the processed sample set of record. Errors are logged and returned;
// a failed load never yields a partial set.
func (l *Loader) Load(ctx context.Context, record manifest.BirdRecord) (*Set, error) {
	ref := l.Ref(record)
	key := record.Title + "\x00" + ref

	if cached, ok := l.cache.Get(key); ok {
		l.metrics.RecordCacheLookup(metrics.CacheHit)
		return cached.(*Set), nil
	}
	l.metrics.RecordCacheLookup(metrics.CacheMiss)

	log := GetLogger().With(logger.String("bird", record.Title), logger.String("ref", ref))
	start := time.Now()

	set, err := l.load(ctx, record.Title, ref)
	l.metrics.RecordSampleFetch(statusOf(err), time.Since(start).Seconds())
	if err != nil {
		log.Error("Failed to load samples", logger.Error(err))
		return nil, err
	}

	l.metrics.RecordSamplesFiltered(set.Skipped, set.Dropped)
	log.Debug("Samples loaded",
		logger.Int("samples", set.Len()),
		logger.Int("skipped", set.Skipped),
		logger.Int("dropped", set.Dropped),
		logger.Float64("max_frequency", set.MaxFrequency),
		logger.Float64("max_volume", set.MaxVolume))

	l.cache.SetDefault(key, set)
	return set, nil
}

func (l *Loader) load(ctx context.Context, bird, ref string) (*Set, error) {
	raw, err := l.source.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	parsed, skipped, err := Parse(raw)
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Context("bird", bird).
			Context("ref", ref).
			Build()
	}

	kept, dropped := l.window.Apply(parsed)
	set := NewSet(bird, kept, skipped, dropped)
	set.Raw = parsed
	return set, nil
}

// Forget evicts a cached set so the next Load refetches it.
func (l *Loader) Forget(record manifest.BirdRecord) {
	l.cache.Delete(record.Title + "\x00" + l.Ref(record))
}

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}
