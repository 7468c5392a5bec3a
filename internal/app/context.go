// Package app wires settings, asset sources, loaders and metrics into the
// components the birdwheel commands run.
package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/manifest"
	"github.com/tphakala/birdwheel/internal/observability"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
	"github.com/tphakala/birdwheel/internal/playback"
	"github.com/tphakala/birdwheel/internal/samples"
	"github.com/tphakala/birdwheel/internal/scene"
)

const componentName = "app"

// preloadLimit bounds concurrent sample fetches
const preloadLimit = 4

// Context holds everything a command needs. Settings may be replaced by flag
// parsing until Init is called.
type Context struct {
	Settings *conf.Settings
	Metrics  *observability.Metrics
	Source   assets.Source
	Samples  *samples.Loader
	Clock    playback.Clock

	mu      sync.Mutex
	catalog *manifest.Catalog
}

// NewContext returns a context for settings. Init must be called before use.
func NewContext(settings *conf.Settings) *Context {
	return &Context{Settings: settings}
}

// GetLogger returns the app module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// Init builds the asset source and sample loader from the current settings. A
// Source set beforehand is kept.
func (c *Context) Init() error {
	if c.Source == nil {
		src, err := assets.NewSource(c.Settings)
		if err != nil {
			return err
		}
		c.Source = src
	}
	if c.Clock == nil {
		c.Clock = playback.SystemClock()
	}

	p := c.Settings.Playback
	c.Samples = samples.NewLoader(c.Source, samples.Config{
		SamplesDir: c.Settings.Data.SamplesDir,
		Window:     samples.NewWindow(p.LoopDuration, p.MaxDuration),
		CacheTTL:   c.Settings.Data.CacheTTL,
		Metrics:    c.visualizerMetrics(),
	})
	return nil
}

func (c *Context) visualizerMetrics() *metrics.VisualizerMetrics {
	if c.Metrics == nil {
		return nil
	}
	return c.Metrics.Visualizer
}

// Catalog loads the manifest once. A failed load is not cached, so a later call retries.
func (c *Context) Catalog(ctx context.Context) (*manifest.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog != nil {
		return c.catalog, nil
	}

	loader := &manifest.Loader{Source: c.Source, Metrics: c.visualizerMetrics()}
	records, err := loader.Load(ctx, c.Settings.Data.Manifest)
	if err != nil {
		return nil, err
	}
	c.catalog = manifest.NewCatalog(records, c.Settings)
	return c.catalog, nil
}

// Radial returns the wheel geometry for the configured loop.
func (c *Context) Radial() scene.Radial {
	return scene.NewRadial(c.Settings.Wheel, c.Settings.Playback.LoopDuration)
}

// Scatter returns the spectrogram geometry.
func (c *Context) Scatter() scene.Scatter {
	return scene.NewScatter(c.Settings.Scatter)
}

// NewSynchronizer returns a synchronizer over the loaded catalog. A nil scheduler
// runs frames every playback.frameinterval.
func (c *Context) NewSynchronizer(ctx context.Context, view playback.View, scheduler playback.Scheduler) (*playback.Synchronizer, *manifest.Catalog, error) {
	catalog, err := c.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	if scheduler == nil {
		scheduler = playback.NewIntervalScheduler(c.Settings.Playback.FrameInterval)
	}

	s, err := playback.NewSynchronizer(playback.Config{
		Loop:    c.Settings.Playback.LoopDuration,
		Radial:  c.Radial(),
		Samples: c.Samples,
		Audio: &playback.WAVOpener{
			Source:   c.Source,
			AudioDir: c.Settings.Data.AudioDir,
			Clock:    c.Clock,
		},
		Habitats:  catalog,
		Scheduler: scheduler,
		View:      view,
		Metrics:   c.visualizerMetrics(),
	})
	if err != nil {
		return nil, nil, err
	}
	return s, catalog, nil
}

// Select resolves titles against the catalog, all records when all is set. Unknown
// titles are a validation error naming every one of them.
func Select(catalog *manifest.Catalog, titles []string, all bool) ([]manifest.BirdRecord, error) {
	if all {
		return catalog.Records(), nil
	}

	records := make([]manifest.BirdRecord, 0, len(titles))
	var unknown []string
	for _, title := range titles {
		r, ok := catalog.Lookup(title)
		if !ok {
			unknown = append(unknown, title)
			continue
		}
		records = append(records, r)
	}
	if len(unknown) > 0 {
		return nil, errors.Newf("unknown birds: %q", unknown).
			Component(componentName).
			Category(errors.CategoryValidation).
			Context("unknown_count", len(unknown)).
			Build()
	}
	return records, nil
}

// Preload fetches the samples of records concurrently so later activations are
// served from the cache. Birds that fail to load are logged and reported in failed;
// only cancellation aborts the preload.
func (c *Context) Preload(ctx context.Context, records []manifest.BirdRecord) (failed []string, err error) {
	log := GetLogger()
	loadErrs := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	for i, r := range records {
		g.Go(func() error {
			_, err := c.Samples.Load(gctx, r)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			loadErrs[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryCancellation).
			Build()
	}

	for i, err := range loadErrs {
		if err != nil {
			log.Warn("Bird skipped", logger.String("bird", records[i].Title), logger.Error(err))
			failed = append(failed, records[i].Title)
		}
	}
	return failed, nil
}
