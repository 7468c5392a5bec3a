package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
)

func TestInitSentry_Disabled(t *testing.T) {
	settings := conf.Default()
	settings.Telemetry.Enabled = false

	require.NoError(t, InitSentry(settings, Options{}))
	assert.False(t, Enabled())
}

func TestInitSentry_MissingDSN(t *testing.T) {
	settings := conf.Default()
	settings.Telemetry.Enabled = true
	settings.Telemetry.DSN = ""

	require.NoError(t, InitSentry(settings, Options{}))
	assert.False(t, Enabled())
}

func TestInitSentry_ReportsBuiltErrors(t *testing.T) {
	transport := &mockTransport{}
	settings := conf.Default()
	settings.Telemetry.Enabled = true
	settings.Telemetry.DSN = "https://public@example.com/1"

	require.NoError(t, InitSentry(settings, Options{Release: "birdwheel@test", Transport: transport}))
	t.Cleanup(func() {
		errors.SetTelemetryReporter(nil)
		sentryInitialized.Store(false)
	})
	assert.True(t, Enabled())

	_ = errors.Newf("failed to load samples for %s", "Mallard").
		Component("samples").
		Category(errors.CategoryFileParsing).
		Build()
	Flush()

	events := transport.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, "file-parsing")
	assert.Equal(t, "samples", events[0].Tags["component"])
	assert.Empty(t, events[0].ServerName)
}

func TestApplyPrivacyFilters(t *testing.T) {
	event := sentry.NewEvent()
	event.User = sentry.User{ID: "someone"}
	event.ServerName = "host.local"
	event.Contexts["os"] = map[string]any{"name": "linux"}
	event.Extra["component"] = "playback"
	event.Extra["path"] = "/home/user/birds.json"
	event.Tags["hostname"] = "host.local"
	event.Message = "fetch https://birds.example.org/data/kea.json failed"
	event.Exception = []sentry.Exception{{Value: "open /home/alice/birds.json"}}

	filtered := applyPrivacyFilters(event)

	assert.True(t, filtered.User.IsEmpty())
	assert.Empty(t, filtered.ServerName)
	assert.NotContains(t, filtered.Contexts, "os")
	assert.Contains(t, filtered.Extra, "component")
	assert.NotContains(t, filtered.Extra, "path")
	assert.NotContains(t, filtered.Tags, "hostname")
	assert.NotContains(t, filtered.Message, "birds.example.org")
	assert.Equal(t, "open /home/[user]/birds.json", filtered.Exception[0].Value)
}
