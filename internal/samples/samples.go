// Package samples parses per-bird (Time, Frequency, Volume) sample files and wraps
// them onto the display loop.
package samples

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
)

const componentName = "samples"

// Sample is one analysed point of a recording. Time is in seconds, Frequency in Hz.
type Sample struct {
	Time      float64 `json:"Time"`
	Frequency float64 `json:"Frequency"`
	Volume    float64 `json:"Volume"`
}

// Set is the processed sample sequence of one bird.
type Set struct {
	Bird    string
	Samples []Sample
	// Raw holds the parsed samples in recording time, before windowing
	Raw []Sample

	// MaxFrequency is the largest frequency in Samples
	MaxFrequency float64
	// MaxVolume is max(0, largest volume in Samples)
	MaxVolume float64

	// Skipped counts malformed records, Dropped counts samples past the window
	Skipped int
	Dropped int
}

// GetLogger returns the samples module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// Parse decodes a sample document. The document must be a JSON array; elements without
// numeric Time, Frequency and Volume fields are skipped and counted.
func Parse(raw []byte) (parsed []Sample, skipped int, err error) {
	if !gjson.ValidBytes(raw) {
		return nil, 0, errors.Newf("sample document is not valid JSON").
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Build()
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, 0, errors.Newf("sample document must be an array, got %s", doc.Type).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Build()
	}

	log := GetLogger()
	elements := doc.Array()
	parsed = make([]Sample, 0, len(elements))

	for i, el := range elements {
		s, ok := parseRecord(el)
		if !ok {
			skipped++
			log.Warn("Skipping malformed sample record",
				logger.Int("index", i),
				logger.String("record", truncate(el.Raw, 80)))
			continue
		}
		parsed = append(parsed, s)
	}

	return parsed, skipped, nil
}

func parseRecord(el gjson.Result) (Sample, bool) {
	if !el.IsObject() {
		return Sample{}, false
	}

	fields := [3]gjson.Result{el.Get("Time"), el.Get("Frequency"), el.Get("Volume")}
	for _, f := range fields {
		if f.Type != gjson.Number || math.IsNaN(f.Num) || math.IsInf(f.Num, 0) {
			return Sample{}, false
		}
	}

	return Sample{Time: fields[0].Num, Frequency: fields[1].Num, Volume: fields[2].Num}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Window maps recording time onto the display loop.
type Window struct {
	// Loop is the display loop duration in seconds
	Loop float64
	// Max drops samples later than this; zero means Loop
	Max float64
}

// NewWindow returns a window with Max defaulting to loop.
func NewWindow(loop, maxDuration float64) Window {
	if maxDuration == 0 {
		maxDuration = loop
	}
	return Window{Loop: loop, Max: maxDuration}
}

func (w Window) limit() float64 {
	if w.Max == 0 {
		return w.Loop
	}
	return w.Max
}

// Wrap returns t mod Loop in [0, Loop).
func (w Window) Wrap(t float64) float64 {
	if w.Loop <= 0 {
		return t
	}
	m := math.Mod(t, w.Loop)
	if m < 0 {
		m += w.Loop
	}
	return m
}

// Apply drops samples with Time > Max and wraps the remaining times into the loop.
// The input is not modified.
func (w Window) Apply(in []Sample) (kept []Sample, dropped int) {
	limit := w.limit()
	kept = make([]Sample, 0, len(in))
	for _, s := range in {
		if s.Time > limit {
			dropped++
			continue
		}
		s.Time = w.Wrap(s.Time)
		kept = append(kept, s)
	}
	return kept, dropped
}

// NewSet builds a Set from windowed samples and computes the scale domains.
func NewSet(bird string, in []Sample, skipped, dropped int) *Set {
	set := &Set{Bird: bird, Samples: in, Skipped: skipped, Dropped: dropped}
	for i, s := range in {
		if i == 0 || s.Frequency > set.MaxFrequency {
			set.MaxFrequency = s.Frequency
		}
		if s.Volume > set.MaxVolume {
			set.MaxVolume = s.Volume
		}
	}
	return set
}

// Timeline returns the samples in recording time, falling back to Samples when the
// set was built without them.
func (s *Set) Timeline() []Sample {
	if s.Raw != nil {
		return s.Raw
	}
	return s.Samples
}

// Len returns the number of samples.
func (s *Set) Len() int {
	return len(s.Samples)
}
