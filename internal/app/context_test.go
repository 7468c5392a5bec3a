package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/playback"
)

const testManifest = `[
  {"title": "Mallard", "audio": "mallard.wav", "data": "mallard.json"},
  {"title": "Kea", "audio": "kea.wav", "data": "kea.json"},
  {"title": "Dodo", "audio": "dodo.wav", "data": "dodo.json"}
]`

func newTestContext(t *testing.T) (*Context, *assets.MemorySource) {
	t.Helper()
	src := assets.NewMemorySource(map[string][]byte{
		"birds.json":        []byte(testManifest),
		"data/mallard.json": []byte(`[{"Time":1,"Frequency":100,"Volume":50}]`),
		"data/kea.json":     []byte(`[{"Time":4,"Frequency":800,"Volume":30},{"Time":12,"Frequency":1,"Volume":1}]`),
	})

	settings := conf.Default()
	settings.Data.Manifest = "birds.json"
	settings.Data.SamplesDir = "data"
	settings.Data.AudioDir = "audio"

	c := NewContext(settings)
	c.Source = src
	require.NoError(t, c.Init())
	return c, src
}

func TestContext_CatalogIsLoadedOnce(t *testing.T) {
	c, src := newTestContext(t)

	catalog, err := c.Catalog(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.Len())

	src.Put("birds.json", []byte(`[]`))
	again, err := c.Catalog(t.Context())
	require.NoError(t, err)
	assert.Same(t, catalog, again)
}

func TestContext_CatalogFailureIsNotCached(t *testing.T) {
	c, src := newTestContext(t)
	src.Put("birds.json", []byte(`{not json`))

	_, err := c.Catalog(t.Context())
	require.Error(t, err)

	src.Put("birds.json", []byte(testManifest))
	catalog, err := c.Catalog(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.Len())
}

func TestSelect(t *testing.T) {
	c, _ := newTestContext(t)
	catalog, err := c.Catalog(t.Context())
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		records, err := Select(catalog, nil, true)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("by title in argument order", func(t *testing.T) {
		records, err := Select(catalog, []string{"Kea", "Mallard"}, false)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Kea", records[0].Title)
		assert.Equal(t, "Mallard", records[1].Title)
	})

	t.Run("unknown titles", func(t *testing.T) {
		_, err := Select(catalog, []string{"Kea", "Moa", "Huia"}, false)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		assert.Contains(t, err.Error(), "Moa")
		assert.Contains(t, err.Error(), "Huia")
	})
}

func TestContext_PreloadReportsFailures(t *testing.T) {
	c, _ := newTestContext(t)
	catalog, err := c.Catalog(t.Context())
	require.NoError(t, err)

	failed, err := c.Preload(t.Context(), catalog.Records())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dodo"}, failed)
}

func TestContext_PreloadCancelled(t *testing.T) {
	c, _ := newTestContext(t)
	catalog, err := c.Catalog(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = c.Preload(ctx, catalog.Records())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
}

func TestContext_NewSynchronizer(t *testing.T) {
	c, _ := newTestContext(t)
	sched := playback.NewManualScheduler()

	s, catalog, err := c.NewSynchronizer(t.Context(), nil, sched)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	kea, ok := catalog.Lookup("Kea")
	require.True(t, ok)
	result, err := s.Activate(t.Context(), kea)
	require.NoError(t, err)
	assert.Equal(t, playback.Activated, result)

	layers := s.Layers()
	require.Len(t, layers, 1)
	// Time 12 lies past the default loop and is dropped
	assert.Len(t, layers[0].Marks, 1)
}
