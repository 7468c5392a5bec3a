// Package scene turns processed sample sets into visual marks for the radial wheel
// and the scatter spectrogram, and keeps the per-bird layers currently shown.
package scene

import (
	"slices"

	"github.com/tphakala/birdwheel/internal/samples"
)

// Mark is one drawn circle, derived from one sample.
type Mark struct {
	Bird   string
	Sample samples.Sample

	X, Y float64
	// Angle and Distance are set for radial marks only
	Angle    float64
	Distance float64

	Size    float64
	Color   string
	Opacity float64
}

// Layer holds all marks of one bird. Layers are added and removed as a whole.
type Layer struct {
	Bird  string
	Marks []Mark
}

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Scene is the ordered set of layers currently shown, at most one per bird.
// Scene is not safe for concurrent use; its owner serialises access.
type Scene struct {
	layers []Layer
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends layer. It returns false and leaves the scene unchanged when the bird
// already has a layer.
func (s *Scene) Add(layer Layer) bool {
	if s.Has(layer.Bird) {
		return false
	}
	s.layers = append(s.layers, layer)
	return true
}

// Remove drops the bird's layer with all of its marks.
func (s *Scene) Remove(bird string) bool {
	i := s.index(bird)
	if i < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	return true
}

// Has reports whether the bird has a layer.
func (s *Scene) Has(bird string) bool {
	return s.index(bird) >= 0
}

// Layer returns the bird's layer.
func (s *Scene) Layer(bird string) (Layer, bool) {
	i := s.index(bird)
	if i < 0 {
		return Layer{}, false
	}
	return s.layers[i], true
}

// Layers returns a copy of the layers in insertion order.
func (s *Scene) Layers() []Layer {
	return slices.Clone(s.layers)
}

// Birds returns the birds with a layer, in insertion order.
func (s *Scene) Birds() []string {
	birds := make([]string, len(s.layers))
	for i, l := range s.layers {
		birds[i] = l.Bird
	}
	return birds
}

// Len returns the number of layers.
func (s *Scene) Len() int {
	return len(s.layers)
}

// MarkCount returns the number of marks over all layers.
func (s *Scene) MarkCount() int {
	n := 0
	for _, l := range s.layers {
		n += len(l.Marks)
	}
	return n
}

func (s *Scene) index(bird string) int {
	return slices.IndexFunc(s.layers, func(l Layer) bool { return l.Bird == bird })
}
