package crf

import(
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
)

// Residuals are recorded in millionths, up to this ceiling (in log units).
const(
	residualScale = 1e6
	residualMax   = 1e3
)

// ResidualStats summarises how well a solved curve explains the data:
// the distribution of |g[z] - lE[i] - B[j]| over every observation
// that carries some weight.
type ResidualStats struct {
	Count int64
	Mean  float64
	P50   float64
	P90   float64
	P99   float64
	Max   float64
}

func (rs ResidualStats)String() string {
	return fmt.Sprintf("residuals[n=%d, mean=%.5f, p50=%.5f, p90=%.5f, p99=%.5f, max=%.5f]",
		rs.Count, rs.Mean, rs.P50, rs.P90, rs.P99, rs.Max)
}

// Residuals computes fit statistics for a solution returned by Solve.
func Residuals(z [][]int, b, g, lE []float64, w Weighting) (ResidualStats, error) {
	if len(g) != w.Len() || len(lE) != len(z) {
		return ResidualStats{}, fmt.Errorf("residuals: g %d/%d, lE %d/%d: %w",
			len(g), w.Len(), len(lE), len(z), ErrShapeMismatch)
	}

	h := hdrhistogram.New(1, int64(residualMax*residualScale), 3)
	for i := range z {
		if len(z[i]) != len(b) {
			return ResidualStats{}, fmt.Errorf("residuals: sample %d: %w", i, ErrShapeMismatch)
		}
		for j, zij := range z[i] {
			if w.At(zij) == 0 {
				continue
			}
			r := math.Abs(g[w.Index(zij)] - lE[i] - b[j])
			v := int64(math.Round(math.Min(r, residualMax) * residualScale))
			if err := h.RecordValue(v); err != nil {
				return ResidualStats{}, fmt.Errorf("residuals: record %v: %v", r, err)
			}
		}
	}

	if h.TotalCount() == 0 {
		return ResidualStats{}, nil
	}

	return ResidualStats{
		Count: h.TotalCount(),
		Mean:  h.Mean() / residualScale,
		P50:   float64(h.ValueAtQuantile(50)) / residualScale,
		P90:   float64(h.ValueAtQuantile(90)) / residualScale,
		P99:   float64(h.ValueAtQuantile(99)) / residualScale,
		Max:   float64(h.Max()) / residualScale,
	}, nil
}
