package crf

import(
	"fmt"
	"log"

	"github.com/pbnjay/memory"

	"github.com/abworrall/hdr-crf/pkg/emath"
)

// Above this fraction of zero-weight observations, Solve logs a warning.
const zeroWeightWarnFraction = 0.5

// Solve recovers a camera response curve from a set of pixel samples,
// following Debevec & Malik (1997).
//
// z is an N×P matrix: row i holds the values of scene point i in each
// of the P exposures. b holds the natural log of the exposure of each
// of the P frames. smoothness (λ) scales the penalty on the curve's
// second derivative; ~20 suits 8-bit data. w supplies the domain of
// pixel values and how much to trust each of them.
//
// It returns g, the log exposure that produces each pixel value
// (len w.Len(), with g[w.MidIndex()] == 0), and lE, the log irradiance
// of each scene point (len N).
//
// Curve levels that no sample hits are only constrained by the
// smoothness rows, so they are extrapolated from their neighbours.
func Solve(z [][]int, b []float64, smoothness float64, w Weighting) ([]float64, []float64, error) {
	if err := validateSolveInputs(z, b, smoothness, w); err != nil {
		return nil, nil, err
	}

	s := newSystem(z, b, smoothness, w)

	if s.nZeroW == s.nData {
		return nil, nil, fmt.Errorf("all %d observations have zero weight: %w", s.nData, ErrDegenerateWeights)
	} else if frac := float64(s.nZeroW) / float64(s.nData); frac > zeroWeightWarnFraction {
		log.Printf("crf: warning, %.0f%% of observations have zero weight (%s)\n", 100*frac, s)
	}

	g, lE, err := s.solve()
	if err != nil {
		return nil, nil, fmt.Errorf("solve %s: %w", s, err)
	}

	if i := emath.AllFinite(g); i >= 0 {
		return nil, nil, fmt.Errorf("g[%d] = %v: %w", i, g[i], ErrNumericalFailure)
	}
	if i := emath.AllFinite(lE); i >= 0 {
		return nil, nil, fmt.Errorf("lE[%d] = %v: %w", i, lE[i], ErrNumericalFailure)
	}

	return g, lE, nil
}

func validateSolveInputs(z [][]int, b []float64, smoothness float64, w Weighting) error {
	if err := w.Validate(); err != nil {
		return err
	}

	N, P := len(z), len(b)
	if N < 2 {
		return fmt.Errorf("%d samples, need at least 2: %w", N, ErrInsufficientData)
	}
	if P < 2 {
		return fmt.Errorf("%d exposures, need at least 2: %w", P, ErrInsufficientData)
	}

	for i := range z {
		if len(z[i]) != P {
			return fmt.Errorf("sample %d has %d values, but there are %d exposures: %w", i, len(z[i]), P, ErrShapeMismatch)
		}
		for j, zij := range z[i] {
			if !w.Contains(zij) {
				return fmt.Errorf("sample %d exposure %d: value %d outside domain %s: %w", i, j, zij, w.Domain, ErrShapeMismatch)
			}
		}
	}

	if i := emath.AllFinite(b); i >= 0 {
		return fmt.Errorf("log exposure %d is %v: %w", i, b[i], ErrNumericalFailure)
	}
	if !emath.IsFinite(smoothness) || smoothness < 0 {
		return fmt.Errorf("smoothness %v, want finite and >= 0: %w", smoothness, ErrNumericalFailure)
	}

	n := w.Len()
	if rows, unknowns := N*P+1+(n-2), n+N; rows < unknowns {
		return fmt.Errorf("%d equations for %d unknowns: %w", rows, unknowns, ErrInsufficientData)
	}

	return checkMemory(n)
}

// checkMemory fails fast if the n×n reduced system, plus the SVD
// workspace, would not fit comfortably in physical memory. 16-bit
// domains hit this; quantise them down first.
func checkMemory(n int) error {
	need := uint64(n) * uint64(n) * 8 * 3
	if total := memory.TotalMemory(); total > 0 && need > total/2 {
		return fmt.Errorf("domain of %d levels needs %d MiB, have %d MiB: %w",
			n, need>>20, total>>20, ErrDomainTooLarge)
	}
	return nil
}
