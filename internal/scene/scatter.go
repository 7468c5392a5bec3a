package scene

import (
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/samples"
	"github.com/tphakala/birdwheel/internal/scale"
)

// Scatter lays samples out as a spectrogram: time on x, frequency on y, volume as
// mark size. Domains are fixed so that birds share one set of axes.
type Scatter struct {
	Width, Height float64
	Margin        float64
	TimeMax       float64
	FrequencyMax  float64
	VolumeMax     float64
	SizeMin       float64
	SizeMax       float64
	Opacity       float64
	Ticks         int
}

// NewScatter builds the scatter geometry from settings.
func NewScatter(s conf.ScatterSettings) Scatter {
	return Scatter{
		Width:        s.Width,
		Height:       s.Height,
		Margin:       s.Margin,
		TimeMax:      s.TimeMax,
		FrequencyMax: s.FrequencyMax,
		VolumeMax:    s.VolumeMax,
		SizeMin:      s.SizeMin,
		SizeMax:      s.SizeMax,
		Opacity:      s.Opacity,
		Ticks:        s.Ticks,
	}
}

// X is the time axis scale.
func (s Scatter) X() scale.Linear {
	return scale.NewLinear(0, s.TimeMax, s.Margin, s.Width-s.Margin)
}

// Y is the frequency axis scale, growing upwards.
func (s Scatter) Y() scale.Linear {
	return scale.NewLinear(0, s.FrequencyMax, s.Height-s.Margin, s.Margin)
}

// Size maps volume to mark radius. Clamped so negative volumes never give negative radii.
func (s Scatter) Size() scale.Linear {
	return scale.NewLinear(0, s.VolumeMax, s.SizeMin, s.SizeMax).Clamped()
}

// Layer builds one mark per sample, all in the bird's colour. Samples are placed at
// their recording time, not the wrapped loop time.
func (s Scatter) Layer(bird, color string, set *samples.Set) Layer {
	x, y, size := s.X(), s.Y(), s.Size()
	timeline := set.Timeline()

	layer := Layer{Bird: bird, Marks: make([]Mark, 0, len(timeline))}
	for _, smp := range timeline {
		layer.Marks = append(layer.Marks, Mark{
			Bird:    bird,
			Sample:  smp,
			X:       x.Scale(smp.Time),
			Y:       y.Scale(smp.Frequency),
			Size:    size.Scale(smp.Volume),
			Color:   color,
			Opacity: s.Opacity,
		})
	}
	return layer
}
