// Package metrics provides visualizer metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VisualizerMetrics contains Prometheus metrics for manifest loading, sample
// processing and playback. A nil *VisualizerMetrics is valid and records nothing.
type VisualizerMetrics struct {
	registry *prometheus.Registry

	// Manifest metrics
	manifestLoadsTotal *prometheus.CounterVec
	manifestBirds      prometheus.Gauge
	manifestRejected   prometheus.Counter

	// Sample metrics
	sampleFetchesTotal       *prometheus.CounterVec
	sampleFetchDuration      prometheus.Histogram
	samplesSkippedTotal      prometheus.Counter
	samplesDroppedTotal      prometheus.Counter
	sampleCacheRequestsTotal *prometheus.CounterVec

	// Playback metrics
	togglesTotal            *prometheus.CounterVec
	playbackTransitionTotal *prometheus.CounterVec
	activeBirds             prometheus.Gauge
	renderedMarks           prometheus.Gauge
}

// NewVisualizerMetrics creates and registers new visualizer metrics
func NewVisualizerMetrics(registry *prometheus.Registry) (*VisualizerMetrics, error) {
	m := &VisualizerMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *VisualizerMetrics) initMetrics() {
	m.manifestLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdwheel_manifest_loads_total",
			Help: "Total number of manifest load attempts",
		},
		[]string{"status"}, // status: success, error
	)

	m.manifestBirds = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "birdwheel_manifest_birds",
		Help: "Number of birds listed in the last loaded manifest",
	})

	m.manifestRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "birdwheel_manifest_records_rejected_total",
		Help: "Total number of manifest records skipped as invalid",
	})

	m.sampleFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdwheel_sample_fetches_total",
			Help: "Total number of sample file loads",
		},
		[]string{"status"},
	)

	m.sampleFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "birdwheel_sample_fetch_duration_seconds",
		Help: "Time taken to fetch and process one sample file",
		// 1ms, 2ms, 4ms ... ~2s
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12),
	})

	m.samplesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "birdwheel_samples_skipped_total",
		Help: "Total number of malformed sample records skipped",
	})

	m.samplesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "birdwheel_samples_dropped_total",
		Help: "Total number of samples dropped for exceeding the maximum duration",
	})

	m.sampleCacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdwheel_sample_cache_requests_total",
			Help: "Total number of processed sample cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	m.togglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdwheel_toggles_total",
			Help: "Total number of bird toggles by outcome",
		},
		[]string{"result"},
	)

	m.playbackTransitionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdwheel_playback_transitions_total",
			Help: "Total number of playback state transitions by target state",
		},
		[]string{"state"},
	)

	m.activeBirds = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "birdwheel_active_birds",
		Help: "Number of birds currently shown",
	})

	m.renderedMarks = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "birdwheel_rendered_marks",
		Help: "Number of marks in the current scene",
	})
}

// Describe implements the Collector interface
func (m *VisualizerMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.manifestLoadsTotal.Describe(ch)
	m.manifestBirds.Describe(ch)
	m.manifestRejected.Describe(ch)
	m.sampleFetchesTotal.Describe(ch)
	m.sampleFetchDuration.Describe(ch)
	m.samplesSkippedTotal.Describe(ch)
	m.samplesDroppedTotal.Describe(ch)
	m.sampleCacheRequestsTotal.Describe(ch)
	m.togglesTotal.Describe(ch)
	m.playbackTransitionTotal.Describe(ch)
	m.activeBirds.Describe(ch)
	m.renderedMarks.Describe(ch)
}

// Collect implements the Collector interface
func (m *VisualizerMetrics) Collect(ch chan<- prometheus.Metric) {
	m.manifestLoadsTotal.Collect(ch)
	m.manifestBirds.Collect(ch)
	m.manifestRejected.Collect(ch)
	m.sampleFetchesTotal.Collect(ch)
	m.sampleFetchDuration.Collect(ch)
	m.samplesSkippedTotal.Collect(ch)
	m.samplesDroppedTotal.Collect(ch)
	m.sampleCacheRequestsTotal.Collect(ch)
	m.togglesTotal.Collect(ch)
	m.playbackTransitionTotal.Collect(ch)
	m.activeBirds.Collect(ch)
	m.renderedMarks.Collect(ch)
}

// RecordManifestLoad records a manifest load and, on success, the number of birds listed
func (m *VisualizerMetrics) RecordManifestLoad(status string, birds int) {
	if m == nil {
		return
	}
	m.manifestLoadsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.manifestBirds.Set(float64(birds))
	}
}

// RecordManifestRejected counts manifest records skipped as invalid
func (m *VisualizerMetrics) RecordManifestRejected(n int) {
	if m == nil {
		return
	}
	m.manifestRejected.Add(float64(n))
}

// RecordSampleFetch records one sample file load and its duration in seconds
func (m *VisualizerMetrics) RecordSampleFetch(status string, seconds float64) {
	if m == nil {
		return
	}
	m.sampleFetchesTotal.WithLabelValues(status).Inc()
	m.sampleFetchDuration.Observe(seconds)
}

// RecordSamplesFiltered records skipped malformed records and dropped late samples
func (m *VisualizerMetrics) RecordSamplesFiltered(skipped, dropped int) {
	if m == nil {
		return
	}
	m.samplesSkippedTotal.Add(float64(skipped))
	m.samplesDroppedTotal.Add(float64(dropped))
}

// RecordCacheLookup records a sample cache hit or miss
func (m *VisualizerMetrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.sampleCacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordToggle records the outcome of a toggle
func (m *VisualizerMetrics) RecordToggle(result string) {
	if m == nil {
		return
	}
	m.togglesTotal.WithLabelValues(result).Inc()
}

// RecordTransition records a playback state transition
func (m *VisualizerMetrics) RecordTransition(state string) {
	if m == nil {
		return
	}
	m.playbackTransitionTotal.WithLabelValues(state).Inc()
}

// UpdateScene sets the active bird and mark gauges
func (m *VisualizerMetrics) UpdateScene(birds, marks int) {
	if m == nil {
		return
	}
	m.activeBirds.Set(float64(birds))
	m.renderedMarks.Set(float64(marks))
}
