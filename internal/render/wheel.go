package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/scene"
)

const (
	guideStyle    = "fill:none;stroke:#463e34;stroke-opacity:0.4;stroke-dasharray:4,4"
	faceStyle     = "fill:#f0f8ff;opacity:0.3"
	rimStyle      = "fill:none;stroke:#4e4d49;stroke-width:5"
	hubStyle      = "fill:#d6cfbf"
	playheadStyle = "stroke:#FFA500;stroke-width:3"
	readoutStyle  = "font-family:sans-serif;font-size:14px;fill:#463e34;text-anchor:middle"
	hubRadius     = 5
)

// WheelView is the dynamic part of the wheel: the playhead and the time readout.
type WheelView struct {
	Angle   float64
	Readout string
}

// Wheel draws the radial view: guide rings and spokes, the face, the rim, every mark of
// every layer, the playhead at view.Angle and, when set, the readout below the wheel.
func Wheel(w io.Writer, r scene.Radial, layers []scene.Layer, view WheelView) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	c := r.Center()
	cx, cy := px(c.X), px(c.Y)

	canvas.Start(px(r.Width), px(r.Height))

	canvas.Group(attr("class", "guides"))
	for i := 1; i <= r.Rings; i++ {
		canvas.Circle(cx, cy, px(r.Radius/float64(r.Rings)*float64(i)), guideStyle)
	}
	if r.SpokeStep > 0 {
		for deg := 0.0; deg < 360; deg += r.SpokeStep {
			end := r.Project(deg*math.Pi/180, r.Radius)
			canvas.Line(cx, cy, px(end.X), px(end.Y), guideStyle)
		}
	}
	canvas.Gend()

	canvas.Circle(cx, cy, px(r.Radius), faceStyle)
	canvas.Circle(cx, cy, px(r.Radius+r.RimOffset), rimStyle)
	canvas.Circle(cx, cy, hubRadius, hubStyle)

	drawLayers(canvas, layers)

	from, to := r.Playhead(view.Angle)
	canvas.Line(px(from.X), px(from.Y), px(to.X), px(to.Y), playheadStyle, attr("class", "playhead"))

	if view.Readout != "" {
		canvas.Text(cx, px(r.Height)-8, view.Readout, readoutStyle, attr("class", "readout"))
	}

	canvas.End()
	return writeError(ew.err)
}

// drawLayers emits one group per bird holding its marks
func drawLayers(canvas *svg.SVG, layers []scene.Layer) {
	for _, layer := range layers {
		canvas.Group(attr("class", "bird"), attr("data-bird", layer.Bird))
		for _, m := range layer.Marks {
			canvas.Circle(px(m.X), px(m.Y), px(m.Size),
				fmt.Sprintf("fill:%s;fill-opacity:%.3f", m.Color, m.Opacity))
		}
		canvas.Gend()
	}
}

func writeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(err).
		Component(componentName).
		Category(errors.CategoryRender).
		Build()
}
