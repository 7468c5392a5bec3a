package scale

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color interpolates between two colours in RGB space over a numeric domain.
// Inputs outside the domain are clamped to the end colours.
type Color struct {
	Domain [2]float64
	From   colorful.Color
	To     colorful.Color
}

// NewColor parses two hex colours ("#rgb" or "#rrggbb") into a colour scale.
func NewColor(d0, d1 float64, from, to string) (Color, error) {
	c0, err := colorful.Hex(from)
	if err != nil {
		return Color{}, fmt.Errorf("invalid start colour %q: %w", from, err)
	}
	c1, err := colorful.Hex(to)
	if err != nil {
		return Color{}, fmt.Errorf("invalid end colour %q: %w", to, err)
	}
	return Color{Domain: [2]float64{d0, d1}, From: c0, To: c1}, nil
}

// Scale returns the "#rrggbb" colour for x.
func (s Color) Scale(x float64) string {
	t := clamp01(normalize(s.Domain[0], s.Domain[1], x))
	return s.From.BlendRgb(s.To, t).Clamped().Hex()
}

// Category10 is d3's ten-colour categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Ordinal assigns palette colours to keys in order of first request, cycling when
// the palette runs out. Assignments are sticky. Not safe for concurrent use.
type Ordinal struct {
	palette  []string
	assigned map[string]string
	keys     []string
}

// NewOrdinal returns an ordinal scale over palette, or Category10 when palette is empty.
func NewOrdinal(palette ...string) *Ordinal {
	if len(palette) == 0 {
		palette = Category10
	}
	return &Ordinal{palette: palette, assigned: make(map[string]string)}
}

// Scale returns the colour of key, assigning the next palette entry on first use.
func (o *Ordinal) Scale(key string) string {
	if c, ok := o.assigned[key]; ok {
		return c
	}
	c := o.palette[len(o.keys)%len(o.palette)]
	o.assigned[key] = c
	o.keys = append(o.keys, key)
	return c
}

// Keys returns the keys in assignment order.
func (o *Ordinal) Keys() []string {
	return append([]string(nil), o.keys...)
}
