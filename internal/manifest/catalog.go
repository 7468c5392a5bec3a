package manifest

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tphakala/birdwheel/internal/conf"
)

// UnknownHabitat is assigned to birds missing from the habitat table.
const UnknownHabitat = "unknown"

// Fallback gradient for birds without a known habitat.
const (
	FallbackStartColor = "#CCCCCC"
	FallbackEndColor   = "#999999"
)

// Habitat is a menu category and the colour gradient its birds are drawn with.
type Habitat struct {
	Name   string
	Label  string
	Colors [2]string
}

// MenuGroup is one habitat section of the selection menu.
type MenuGroup struct {
	Habitat Habitat
	// Swatch is the colour shown next to the label
	Swatch string
	Birds  []BirdRecord
}

// Catalog joins manifest records with the habitat tables.
type Catalog struct {
	records    []BirdRecord
	byTitle    map[string]int
	assignment map[string]string
	habitats   map[string]Habitat
}

// NewCatalog builds a catalog over records using the habitat and bird tables of settings.
func NewCatalog(records []BirdRecord, settings *conf.Settings) *Catalog {
	c := &Catalog{
		records:    append([]BirdRecord(nil), records...),
		byTitle:    make(map[string]int, len(records)),
		assignment: make(map[string]string, len(settings.Birds)),
		habitats:   make(map[string]Habitat, len(settings.Habitats)),
	}

	for i, r := range c.records {
		c.byTitle[r.Title] = i
	}
	for _, b := range settings.Birds {
		c.assignment[b.Title] = b.Habitat
	}

	caser := cases.Title(language.English)
	for name, h := range settings.Habitats {
		habitat := Habitat{Name: name, Label: h.Label, Colors: [2]string{FallbackStartColor, FallbackEndColor}}
		if habitat.Label == "" {
			habitat.Label = caser.String(name)
		}
		if len(h.Colors) == 2 {
			habitat.Colors = [2]string{h.Colors[0], h.Colors[1]}
		}
		c.habitats[name] = habitat
	}

	return c
}

// Records returns the manifest records in file order.
func (c *Catalog) Records() []BirdRecord {
	return append([]BirdRecord(nil), c.records...)
}

// Len returns the number of birds.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Lookup returns the record with the given title.
func (c *Catalog) Lookup(title string) (BirdRecord, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return BirdRecord{}, false
	}
	return c.records[i], true
}

// Habitat resolves a bird's habitat: the record's own field first, then the title table,
// then the unknown habitat with the grey fallback gradient.
func (c *Catalog) Habitat(title string) Habitat {
	name := ""
	if r, ok := c.Lookup(title); ok {
		name = r.Habitat
	}
	if name == "" {
		name = c.assignment[title]
	}

	if h, ok := c.habitats[name]; ok {
		return h
	}
	return Habitat{
		Name:   UnknownHabitat,
		Label:  cases.Title(language.English).String(UnknownHabitat),
		Colors: [2]string{FallbackStartColor, FallbackEndColor},
	}
}

// Menu groups the birds by habitat. Groups appear in order of first appearance in the
// manifest and hold their birds in manifest order; each habitat appears once.
func (c *Catalog) Menu() []MenuGroup {
	var groups []MenuGroup
	index := make(map[string]int)

	for _, r := range c.records {
		h := c.Habitat(r.Title)
		i, ok := index[h.Name]
		if !ok {
			i = len(groups)
			index[h.Name] = i
			groups = append(groups, MenuGroup{Habitat: h, Swatch: h.Colors[0]})
		}
		groups[i].Birds = append(groups[i].Birds, r)
	}

	return groups
}
