package ta

import "math"

// Line is an indicator series aligned with its input: out[i] is the
// indicator value at bar i. Warm-up points where the indicator is not yet
// defined hold NaN and are reported as unavailable, never as zero.
type Line []float64

// undefined builds an all-NaN line of length n.
func undefined(n int) Line {
	out := make(Line, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Defined reports whether the value at index i exists.
func (l Line) Defined(i int) bool {
	return i >= 0 && i < len(l) && !math.IsNaN(l[i])
}

// Latest returns the last value of the line; ok is false when the series
// was too short for the indicator to produce one.
func (l Line) Latest() (float64, bool) {
	if len(l) == 0 {
		return 0, false
	}
	v := l[len(l)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// firstDefined returns the index of the first defined value, or -1.
func (l Line) firstDefined() int {
	for i, v := range l {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

func windowMax(vals []float64, from, to int) float64 {
	m := vals[from]
	for i := from + 1; i <= to; i++ {
		if vals[i] > m {
			m = vals[i]
		}
	}
	return m
}

func windowMin(vals []float64, from, to int) float64 {
	m := vals[from]
	for i := from + 1; i <= to; i++ {
		if vals[i] < m {
			m = vals[i]
		}
	}
	return m
}
