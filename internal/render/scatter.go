package render

import (
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/tphakala/birdwheel/internal/scale"
	"github.com/tphakala/birdwheel/internal/scene"
)

const (
	axisStyle      = "stroke:#000000;stroke-width:1"
	tickLabelStyle = "font-family:sans-serif;font-size:10px;fill:#000000"
	axisLabelStyle = "font-family:sans-serif;font-size:12px;fill:#000000;text-anchor:middle"
	tickLength     = 6

	// TimeAxisLabel and FrequencyAxisLabel caption the scatter axes
	TimeAxisLabel      = "Time (s)"
	FrequencyAxisLabel = "Frequency (Hz)"
)

// Scatter draws the spectrogram view: time and frequency axes with ticks, their labels
// and every mark of every layer.
func Scatter(w io.Writer, s scene.Scatter, layers []scene.Layer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	x, y := s.X(), s.Y()
	width, height, margin := px(s.Width), px(s.Height), px(s.Margin)

	canvas.Start(width, height)

	canvas.Group(attr("class", "axis x"))
	canvas.Line(margin, height-margin, width-margin, height-margin, axisStyle)
	for _, v := range scale.Ticks(0, s.TimeMax, s.Ticks) {
		tx := px(x.Scale(v))
		canvas.Line(tx, height-margin, tx, height-margin+tickLength, axisStyle)
		canvas.Text(tx, height-margin+tickLength+12, formatTick(v), tickLabelStyle, `text-anchor="middle"`)
	}
	canvas.Text(width/2, height-margin+40, TimeAxisLabel, axisLabelStyle)
	canvas.Gend()

	canvas.Group(attr("class", "axis y"))
	canvas.Line(margin, margin, margin, height-margin, axisStyle)
	for _, v := range scale.Ticks(0, s.FrequencyMax, s.Ticks) {
		ty := px(y.Scale(v))
		canvas.Line(margin-tickLength, ty, margin, ty, axisStyle)
		canvas.Text(margin-tickLength-3, ty+3, formatTick(v), tickLabelStyle, `text-anchor="end"`)
	}
	canvas.TranslateRotate(margin-40, height/2, -90)
	canvas.Text(0, 0, FrequencyAxisLabel, axisLabelStyle)
	canvas.Gend()
	canvas.Gend()

	drawLayers(canvas, layers)

	canvas.End()
	return writeError(ew.err)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
