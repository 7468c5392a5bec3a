package scene

import (
	"math"

	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/samples"
	"github.com/tphakala/birdwheel/internal/scale"
)

// Home is the playhead angle at time zero, pointing straight up.
const Home = -math.Pi / 2

// Angle converts a loop time to a wheel angle: zero time at the top, clockwise
// in screen coordinates.
func Angle(t, loop float64) float64 {
	return t/loop*2*math.Pi - math.Pi/2
}

// Radial lays samples out on the wheel: time is the angle, frequency the distance
// from the centre, volume drives colour and opacity.
type Radial struct {
	Width, Height   float64
	Radius          float64
	Rings           int
	SpokeStep       float64 // degrees
	RimOffset       float64
	MarkRadius      float64
	OpacityExponent float64
	Loop            float64
}

// NewRadial builds the wheel geometry from settings.
func NewRadial(w conf.WheelSettings, loop float64) Radial {
	return Radial{
		Width:           w.Width,
		Height:          w.Height,
		Radius:          w.Radius,
		Rings:           w.Rings,
		SpokeStep:       w.SpokeStep,
		RimOffset:       w.RimOffset,
		MarkRadius:      w.MarkRadius,
		OpacityExponent: w.OpacityExponent,
		Loop:            loop,
	}
}

// Center returns the wheel centre.
func (r Radial) Center() Point {
	return Point{X: r.Width / 2, Y: r.Height / 2}
}

// Project returns the canvas point at angle and distance from the centre.
func (r Radial) Project(angle, distance float64) Point {
	c := r.Center()
	return Point{
		X: c.X + distance*math.Cos(angle),
		Y: c.Y + distance*math.Sin(angle),
	}
}

// Playhead returns the indicator line from the centre to just past the rim.
func (r Radial) Playhead(angle float64) (from, to Point) {
	return r.Center(), r.Project(angle, r.Radius+r.RimOffset)
}

// Home returns the indicator angle of an idle wheel.
func (r Radial) Home() float64 {
	return Home
}

// Angle converts a loop time to a wheel angle.
func (r Radial) Angle(t float64) float64 {
	return Angle(t, r.Loop)
}

// Layer builds one mark per sample. colors is the habitat gradient from quiet to loud.
func (r Radial) Layer(bird string, colors [2]string, set *samples.Set) (Layer, error) {
	distance := scale.NewLinear(0, set.MaxFrequency, 0, r.Radius).Clamped()
	opacity := scale.NewPow(r.OpacityExponent, 0, set.MaxVolume, 0, 1).Clamped()
	color, err := scale.NewColor(0, set.MaxVolume, colors[0], colors[1])
	if err != nil {
		return Layer{}, errors.New(err).
			Component("scene").
			Category(errors.CategoryValidation).
			Context("bird", bird).
			Build()
	}

	layer := Layer{Bird: bird, Marks: make([]Mark, 0, set.Len())}
	for _, s := range set.Samples {
		angle := r.Angle(s.Time)
		dist := distance.Scale(s.Frequency)
		p := r.Project(angle, dist)
		layer.Marks = append(layer.Marks, Mark{
			Bird:     bird,
			Sample:   s,
			X:        p.X,
			Y:        p.Y,
			Angle:    angle,
			Distance: dist,
			Size:     r.MarkRadius,
			Color:    color.Scale(s.Volume),
			Opacity:  opacity.Scale(s.Volume),
		})
	}
	return layer, nil
}
