package errors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func (r *recordingReporter) IsEnabled() bool { return true }

func TestBuildDefaults(t *testing.T) {
	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.Timestamp.IsZero())
}

func TestBuildWithContext(t *testing.T) {
	ee := Newf("fetch %s failed", "birds.json").
		Component("manifest").
		Category(CategoryNetwork).
		Priority("bogus").
		Context("ref", "birds.json").
		Build()

	assert.Equal(t, "manifest", ee.Component)
	assert.Equal(t, CategoryNetwork, ee.Category)
	assert.Equal(t, PriorityMedium, ee.Priority)
	assert.Equal(t, "birds.json", ee.GetContext()["ref"])
}

func TestCategoryIsInheritedFromWrappedError(t *testing.T) {
	inner := New(NewStd("missing")).Category(CategoryNotFound).Build()
	outer := New(fmt.Errorf("load samples: %w", inner)).Component("samples").Build()

	assert.Equal(t, CategoryNotFound, outer.Category)
	assert.True(t, IsNotFound(outer))
	assert.True(t, Is(outer, inner))
}

func TestCategoryDetectedFromContextErrors(t *testing.T) {
	timeout := New(fmt.Errorf("fetch: %w", context.DeadlineExceeded)).Build()
	assert.Equal(t, CategoryTimeout, timeout.Category)

	cancelled := New(context.Canceled).Build()
	assert.Equal(t, CategoryCancellation, cancelled.Category)
}

func TestTiming(t *testing.T) {
	ee := New(NewStd("slow")).Timing("fetch", 1500*time.Millisecond).Build()

	assert.Equal(t, "fetch", ee.GetContext()["operation"])
	assert.Equal(t, int64(1500), ee.GetContext()["duration_ms"])
}

func TestIsCategory(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ValidationError("bad title"))

	assert.True(t, IsCategory(err, CategoryValidation))
	assert.False(t, IsCategory(err, CategoryNetwork))
	assert.False(t, IsCategory(NewStd("plain"), CategoryValidation))
}

func TestFileAndNetworkContext(t *testing.T) {
	ee := New(NewStd("boom")).
		FileContext("data/bushtit.json").
		NetworkContext("https://example.com/birds.json?token=abc", 0).
		Build()

	ctx := ee.GetContext()
	assert.Equal(t, "relative-path", ctx["file_type"])
	assert.Equal(t, "json", ctx["file_extension"])
	assert.Equal(t, "https-endpoint", ctx["url_category"])
	assert.NotContains(t, ctx, "timeout_seconds")
}

func TestTelemetryReporterReceivesBuiltErrors(t *testing.T) {
	reporter := &recordingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("reported")).Category(CategoryState).Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.True(t, ee.IsReported())
}

func TestScrubMessage(t *testing.T) {
	scrubbed := scrubMessage("GET https://example.com/data.json?api_key=secret failed, token=abc")

	assert.Contains(t, scrubbed, "https://example.com/data.json?[REDACTED]")
	assert.NotContains(t, scrubbed, "secret")
	assert.NotContains(t, scrubbed, "abc")
}
