// Package scale maps numeric domains onto visual ranges: positions, sizes, opacities
// and colours.
package scale

import "math"

// Linear maps Domain onto Range linearly. A degenerate domain maps every input to the
// middle of the range. With Clamp set, outputs never leave the range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
	Clamp  bool
}

// NewLinear returns a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Clamped returns a copy of s with clamping enabled.
func (s Linear) Clamped() Linear {
	s.Clamp = true
	return s
}

// Scale maps x.
func (s Linear) Scale(x float64) float64 {
	t := normalize(s.Domain[0], s.Domain[1], x)
	if s.Clamp {
		t = clamp01(t)
	}
	return interpolate(s.Range[0], s.Range[1], t)
}

// Invert maps a range value back onto the domain.
func (s Linear) Invert(y float64) float64 {
	t := normalize(s.Range[0], s.Range[1], y)
	if s.Clamp {
		t = clamp01(t)
	}
	return interpolate(s.Domain[0], s.Domain[1], t)
}

// Pow applies sign(x)*|x|^Exponent to the domain before mapping it linearly.
type Pow struct {
	Exponent float64
	Domain   [2]float64
	Range    [2]float64
	Clamp    bool
}

// NewPow returns a power scale.
func NewPow(exponent, d0, d1, r0, r1 float64) Pow {
	return Pow{Exponent: exponent, Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Clamped returns a copy of s with clamping enabled.
func (s Pow) Clamped() Pow {
	s.Clamp = true
	return s
}

// Scale maps x.
func (s Pow) Scale(x float64) float64 {
	k := s.Exponent
	if k == 0 {
		k = 1
	}
	t := normalize(powSigned(s.Domain[0], k), powSigned(s.Domain[1], k), powSigned(x, k))
	if s.Clamp {
		t = clamp01(t)
	}
	return interpolate(s.Range[0], s.Range[1], t)
}

func powSigned(x, k float64) float64 {
	if x < 0 {
		return -math.Pow(-x, k)
	}
	return math.Pow(x, k)
}

// normalize returns the position of x within [a, b], 0.5 when the interval is empty
func normalize(a, b, x float64) float64 {
	d := b - a
	if d == 0 || math.IsNaN(d) {
		return 0.5
	}
	return (x - a) / d
}

func interpolate(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(t float64) float64 {
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
