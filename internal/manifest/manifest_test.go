package manifest

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
)

const birdsJSON = `[
  {"title": "American Bushtit", "audio": "bushtit.wav", "data": "bushtit.json"},
  {"title": "Mallard", "audio": "mallard.wav", "data": "mallard.json"},
  {"title": "Lesser Goldfinch", "audio": "goldfinch.wav", "data": "goldfinch.json"},
  {"title": "Ruby-Throated Hummingbird", "audio": "hummingbird.wav", "data": "hummingbird.json"}
]`

const birdsYAML = `
- title: Mallard
  audio: mallard.wav
  data: mallard.json
- title: Kea
  audio: kea.wav
  data: kea.json
  habitat: alpine
`

func TestLoad_JSON(t *testing.T) {
	src := assets.NewMemorySource(map[string][]byte{"birds.json": []byte(birdsJSON)})

	records, err := Load(t.Context(), src, "birds.json")
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, BirdRecord{Title: "American Bushtit", Audio: "bushtit.wav", Data: "bushtit.json"}, records[0])
	assert.Equal(t, "Ruby-Throated Hummingbird", records[3].Title)
}

func TestLoad_YAML(t *testing.T) {
	src := assets.NewMemorySource(map[string][]byte{"birds.yaml": []byte(birdsYAML)})

	records, err := Load(t.Context(), src, "birds.yaml")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpine", records[1].Habitat)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string][]byte
		category errors.ErrorCategory
	}{
		{"missing manifest", map[string][]byte{}, errors.CategoryNotFound},
		{"not json", map[string][]byte{"birds.json": []byte("<html>")}, errors.CategoryFileParsing},
		{"object instead of list", map[string][]byte{"birds.json": []byte(`{"title":"x"}`)}, errors.CategoryFileParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Load(t.Context(), assets.NewMemorySource(tt.files), "birds.json")
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.IsCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestFilter(t *testing.T) {
	valid, problems := Filter([]BirdRecord{
		{Title: "", Data: "a.json"},
		{Title: "Mallard", Data: ""},
		{Title: "Mallard", Data: "m.json"},
		{Title: "Mallard", Data: "other.json"},
		{Title: "Kea", Data: "k.json"},
	})

	assert.Equal(t, []BirdRecord{{Title: "Mallard", Data: "m.json"}, {Title: "Kea", Data: "k.json"}}, valid)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "record 0")
	assert.Contains(t, problems[0], "empty title")
	assert.Contains(t, problems[1], "missing data reference")
	assert.Contains(t, problems[2], `record 3 ("Mallard"): duplicate title`)

	valid, problems = Filter(nil)
	assert.Empty(t, valid)
	assert.Empty(t, problems)
}

func TestLoader_SkipsInvalidRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewVisualizerMetrics(registry)
	require.NoError(t, err)

	src := assets.NewMemorySource(map[string][]byte{"birds.json": []byte(
		`[{"title":"Mallard","audio":"m.wav","data":"m.json"},{"title":"Kea","audio":"k.wav"}]`)})
	loader := &Loader{Source: src, Metrics: m}

	records, err := loader.Load(t.Context(), "birds.json")
	require.NoError(t, err)
	assert.Equal(t, []BirdRecord{{Title: "Mallard", Audio: "m.wav", Data: "m.json"}}, records)

	expected := `
# HELP birdwheel_manifest_records_rejected_total Total number of manifest records skipped as invalid
# TYPE birdwheel_manifest_records_rejected_total counter
birdwheel_manifest_records_rejected_total 1
# HELP birdwheel_manifest_birds Number of birds listed in the last loaded manifest
# TYPE birdwheel_manifest_birds gauge
birdwheel_manifest_birds 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"birdwheel_manifest_records_rejected_total", "birdwheel_manifest_birds"))
}

func TestLoad_AllRecordsInvalid(t *testing.T) {
	src := assets.NewMemorySource(map[string][]byte{"birds.json": []byte(`[{"title":""},{"title":"Kea"}]`)})

	records, err := Load(t.Context(), src, "birds.json")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalog_Habitat(t *testing.T) {
	records, err := Decode([]byte(birdsJSON), FormatJSON)
	require.NoError(t, err)
	records = append(records, BirdRecord{Title: "Kea", Data: "kea.json"})

	settings := conf.Default()
	catalog := NewCatalog(records, settings)

	mallard := catalog.Habitat("Mallard")
	assert.Equal(t, "wetland", mallard.Name)
	assert.Equal(t, "Wetland", mallard.Label)
	assert.Equal(t, [2]string{"#0CFA50", "#FA0808"}, mallard.Colors)

	kea := catalog.Habitat("Kea")
	assert.Equal(t, UnknownHabitat, kea.Name)
	assert.Equal(t, [2]string{FallbackStartColor, FallbackEndColor}, kea.Colors)

	_, ok := catalog.Lookup("Kea")
	assert.True(t, ok)
	_, ok = catalog.Lookup("Dodo")
	assert.False(t, ok)
}

func TestCatalog_RecordHabitatOverridesTable(t *testing.T) {
	settings := conf.Default()
	catalog := NewCatalog([]BirdRecord{{Title: "Mallard", Data: "m.json", Habitat: "forest"}}, settings)

	assert.Equal(t, "forest", catalog.Habitat("Mallard").Name)
}

func TestCatalog_Menu(t *testing.T) {
	settings := conf.Default()
	settings.Habitats["wetland"] = conf.HabitatSettings{Colors: []string{"#0CFA50", "#FA0808"}}

	records := []BirdRecord{
		{Title: "Mallard", Data: "m.json"},
		{Title: "American Bushtit", Data: "b.json"},
		{Title: "Kea", Data: "k.json"},
		{Title: "Wood Duck", Data: "w.json", Habitat: "wetland"},
	}
	menu := NewCatalog(records, settings).Menu()

	require.Len(t, menu, 3)
	assert.Equal(t, "wetland", menu[0].Habitat.Name)
	// label derived from the habitat key when not configured
	assert.Equal(t, "Wetland", menu[0].Habitat.Label)
	assert.Equal(t, "#0CFA50", menu[0].Swatch)
	require.Len(t, menu[0].Birds, 2)
	assert.Equal(t, "Wood Duck", menu[0].Birds[1].Title)

	assert.Equal(t, "forest", menu[1].Habitat.Name)
	assert.Equal(t, UnknownHabitat, menu[2].Habitat.Name)
	assert.Equal(t, FallbackStartColor, menu[2].Swatch)
}

func TestCatalog_EmptyMenu(t *testing.T) {
	assert.Empty(t, NewCatalog(nil, conf.Default()).Menu())
}
