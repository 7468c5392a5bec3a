// Package assets resolves and fetches the manifest, sample files and audio
// recordings a visualizer session needs, from disk, over HTTP or from memory.
package assets

import (
	"context"

	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/httpclient"
	"github.com/tphakala/birdwheel/internal/logger"
)

const componentName = "assets"

// Source fetches assets by relative reference, e.g. "birds.json" or "data/mallard.json".
type Source interface {
	// Fetch returns the full contents of ref.
	Fetch(ctx context.Context, ref string) ([]byte, error)
	// Locate returns a human readable location of ref for logs and errors.
	Locate(ref string) string
}

// GetLogger returns the assets module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// NewSource returns an HTTP source when data.baseurl is set and a file source otherwise.
func NewSource(settings *conf.Settings) (Source, error) {
	if settings.Data.BaseURL != "" {
		client := httpclient.New(&httpclient.Config{
			DefaultTimeout:    settings.Data.Timeout,
			RequestsPerSecond: settings.Data.RateLimit,
		})
		return NewHTTPSource(settings.Data.BaseURL, client)
	}
	return NewFileSource(settings.Data.BaseDir), nil
}
