// Package observability provides metrics for monitoring a birdwheel run.
// Sentry error telemetry is handled in the telemetry package.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Visualizer *metrics.VisualizerMetrics
}

// NewMetrics creates a new instance of Metrics on a private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}

	visualizerMetrics, err := metrics.NewVisualizerMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create visualizer metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Visualizer: visualizerMetrics,
	}, nil
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Dump writes all metrics to path in the Prometheus text format. An empty path is a no-op.
func (m *Metrics) Dump(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := metrics.WriteTextFile(path, m.registry); err != nil {
		return err
	}
	logger.Global().Module("observability").Debug("Metrics written", logger.String("path", path))
	return nil
}
