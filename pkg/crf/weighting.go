package crf

import(
	"fmt"

	"github.com/abworrall/hdr-crf/pkg/emath"
)

// A Weighting is a lookup table giving a confidence weight for each
// pixel value in its Domain. Values near the ends of the domain come
// from under or over exposed photosites, so they get little or no
// weight. It is read-only once built, and can be shared across channels.
type Weighting struct {
	Domain
	W []float64
}

// NewTriangularWeighting is the default hat function: zero at both
// ends of the domain, rising linearly to a peak at the midpoint.
func NewTriangularWeighting(d Domain) Weighting {
	w := Weighting{Domain: d, W: make([]float64, d.Len())}
	mid := float64(d.Min+d.Max) / 2.0
	for z := d.Min; z <= d.Max; z++ {
		if float64(z) <= mid {
			w.W[d.Index(z)] = float64(z - d.Min)
		} else {
			w.W[d.Index(z)] = float64(d.Max - z)
		}
	}
	return w
}

// NewDebevec1997Weighting is the same hat, but evaluated with pixel
// values mapped onto [0,1] and the shoulders pulled in to low & high
// (typically 0.01 and 0.99). The result peaks at 1.0, and a few levels
// at each end get zero weight.
func NewDebevec1997Weighting(d Domain, low, high float64) Weighting {
	w := Weighting{Domain: d, W: make([]float64, d.Len())}
	mid := (low + high) / 2.0
	a := emath.Linspace(0, 1, d.Len())

	for i, v := range a {
		if v <= mid {
			w.W[i] = v - low
		} else {
			w.W[i] = high - v
		}
	}

	if max := emath.MaxF64(w.W); max > 0 {
		for i := range w.W {
			w.W[i] /= max
		}
	}
	for i := range w.W {
		if w.W[i] < 0 { w.W[i] = 0 }
	}
	return w
}

// NewWeighting wraps a caller supplied table.
func NewWeighting(d Domain, table []float64) (Weighting, error) {
	w := Weighting{Domain: d, W: append([]float64(nil), table...)}
	return w, w.Validate()
}

// At returns the weight for pixel value z. Values outside the domain
// are clamped to its ends.
func (w Weighting)At(z int) float64 {
	if z < w.Min {
		z = w.Min
	} else if z > w.Max {
		z = w.Max
	}
	return w.W[w.Index(z)]
}

// Apply looks up the weight for every value in zs.
func (w Weighting)Apply(zs []int) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = w.At(z)
	}
	return out
}

func (w Weighting)Validate() error {
	if err := w.Domain.Validate(); err != nil {
		return err
	}
	if len(w.W) != w.Len() {
		return fmt.Errorf("weighting has %d entries, domain %s needs %d: %w", len(w.W), w.Domain, w.Len(), ErrShapeMismatch)
	}
	for i, v := range w.W {
		if !emath.IsFinite(v) || v < 0 {
			return fmt.Errorf("weighting[%d] = %v, want finite and >= 0: %w", i, v, ErrNumericalFailure)
		}
	}
	return nil
}
