package menu

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/manifest"
)

func TestSwatch(t *testing.T) {
	tests := []struct {
		hex  string
		want color.Attribute
	}{
		{"#0C24F9", color.FgHiBlue},
		{"#0CFA50", color.FgHiGreen},
		{"#E800FA", color.FgHiMagenta},
		{"#0CE6FA", color.FgHiCyan},
		{"#CCCCCC", color.FgHiWhite},
		{"not a colour", color.FgHiWhite},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			assert.Equal(t, tt.want, Swatch(tt.hex))
		})
	}
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	records := []manifest.BirdRecord{
		{Title: "Mallard", Data: "mallard.json"},
		{Title: "American Bushtit", Data: "bushtit.json"},
		{Title: "Moa", Data: "moa.json"},
		{Title: "Kea", Data: "kea.json", Habitat: "wetland"},
	}
	catalog := manifest.NewCatalog(records, conf.Default())

	out := &bytes.Buffer{}
	require.NoError(t, Print(out, catalog.Menu(), func(title string) bool { return title == "Kea" }))

	want := "● Wetland\n" +
		"    Mallard\n" +
		"  * Kea\n" +
		"● Forest\n" +
		"    American Bushtit\n" +
		"● Unknown\n" +
		"    Moa\n"
	assert.Equal(t, want, out.String())
}

func TestPrint_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Print(out, nil, nil))
	assert.Equal(t, "no birds\n", out.String())
}
