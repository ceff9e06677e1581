package emath

import "math"

// Some functions that only operate on basic types, that are useful

// Linspace returns n evenly spaced values over [start, stop], both ends included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// AllFinite returns the index of the first NaN or Inf, or -1.
func AllFinite(fs []float64) int {
	for i, f := range fs {
		if !IsFinite(f) {
			return i
		}
	}
	return -1
}

func MaxF64(fs []float64) float64 {
	max := math.Inf(-1)
	for _, f := range fs {
		if f > max { max = f }
	}
	return max
}
