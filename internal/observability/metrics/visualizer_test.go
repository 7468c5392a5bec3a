package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*VisualizerMetrics, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	m, err := NewVisualizerMetrics(registry)
	require.NoError(t, err)
	return m, registry
}

func TestNewVisualizerMetrics_DoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewVisualizerMetrics(registry)
	require.NoError(t, err)

	_, err = NewVisualizerMetrics(registry)
	require.Error(t, err)
}

func TestVisualizerMetrics_Record(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.RecordManifestLoad(StatusSuccess, 4)
	m.RecordManifestLoad(StatusError, 0)
	m.RecordManifestRejected(3)
	m.RecordSampleFetch(StatusSuccess, 0.01)
	m.RecordSamplesFiltered(2, 3)
	m.RecordCacheLookup(CacheHit)
	m.RecordCacheLookup(CacheMiss)
	m.RecordCacheLookup(CacheMiss)
	m.RecordToggle("activated")
	m.RecordTransition("playing")
	m.UpdateScene(2, 57)

	assert.InDelta(t, 1, testutil.ToFloat64(m.manifestLoadsTotal.WithLabelValues(StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.manifestLoadsTotal.WithLabelValues(StatusError)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.manifestBirds), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.manifestRejected), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.samplesSkippedTotal), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.samplesDroppedTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.sampleCacheRequestsTotal.WithLabelValues(CacheMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.togglesTotal.WithLabelValues("activated")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.playbackTransitionTotal.WithLabelValues("playing")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.activeBirds), 0)
	assert.InDelta(t, 57, testutil.ToFloat64(m.renderedMarks), 0)
}

func TestVisualizerMetrics_NilSafe(t *testing.T) {
	var m *VisualizerMetrics
	assert.NotPanics(t, func() {
		m.RecordManifestLoad(StatusSuccess, 1)
		m.RecordManifestRejected(2)
		m.RecordSampleFetch(StatusError, 1)
		m.RecordSamplesFiltered(1, 1)
		m.RecordCacheLookup(CacheHit)
		m.RecordToggle("stale")
		m.RecordTransition("idle")
		m.UpdateScene(0, 0)
	})
}

func TestWriteText(t *testing.T) {
	m, registry := newTestMetrics(t)
	m.RecordToggle("activated")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, registry))

	out := buf.String()
	assert.Contains(t, out, "# TYPE birdwheel_toggles_total counter")
	assert.Contains(t, out, `birdwheel_toggles_total{result="activated"} 1`)
}

func TestWriteTextFile(t *testing.T) {
	m, registry := newTestMetrics(t)
	m.UpdateScene(1, 10)

	path := filepath.Join(t.TempDir(), "out", "metrics.prom")
	require.NoError(t, WriteTextFile(path, registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "birdwheel_rendered_marks 10"))
}

func TestGather_Prefix(t *testing.T) {
	m, registry := newTestMetrics(t)
	require.NoError(t, registry.Register(collectors.NewGoCollector()))
	m.RecordToggle("activated")

	all, err := Gather(registry)
	require.NoError(t, err)
	filtered, err := Gather(registry, "birdwheel_toggles")
	require.NoError(t, err)

	assert.Greater(t, len(all), len(filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "birdwheel_toggles_total", filtered[0].GetName())
	assert.Equal(t, dto.MetricType_COUNTER, filtered[0].GetType())
}
