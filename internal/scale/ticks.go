package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns about count round values between start and stop inclusive, spaced
// 1, 2 or 5 times a power of ten.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		r0, r1 := math.Round(start/inc), math.Round(stop/inc)
		if r0*inc < start {
			r0++
		}
		if r1*inc > stop {
			r1--
		}
		for r := r0; r <= r1; r++ {
			ticks = append(ticks, r*inc)
		}
	} else {
		inc = -inc
		r0, r1 := math.Round(start*inc), math.Round(stop*inc)
		if r0/inc < start {
			r0++
		}
		if r1/inc > stop {
			r1--
		}
		for r := r0; r <= r1; r++ {
			ticks = append(ticks, r/inc)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// tickIncrement returns the tick step; negative values are inverse steps (-1/step)
// which keep sub-unit ticks exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
