package sampling

import(
	"fmt"
	"math"

	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/emath"
)

// Grossberg2003 samples by histogram matching (Grossberg & Nayar,
// "Determining the camera response from images: what is knowable?").
// For each exposure and channel it builds the cumulative histogram of
// pixel values; sample i is then the pixel value whose CDF is nearest
// to u_i, with u evenly spaced over [0,1]. Since the scene is static
// and the response monotonic, the same quantile in two exposures is the
// same scene radiance, so no spatial alignment is needed.
type Grossberg2003 struct{}

func (Grossberg2003)String() string { return "grossberg2003" }

func (Grossberg2003)Sample(src PixelSource, n int) (crf.Samples, error) {
	if err := checkSource(src, n); err != nil {
		return nil, err
	}

	P, C := src.NumExposures(), src.NumChannels()
	cdfs := make([][][]float64, P)
	for j := 0; j < P; j++ {
		cdfs[j] = make([][]float64, C)
		for c := 0; c < C; c++ {
			cdfs[j][c] = CDF(src, j, c)
		}
	}

	d := src.Domain()
	us := emath.Linspace(0, 1, n)
	s := make(crf.Samples, n)
	for i, u := range us {
		s[i] = make([][]int, P)
		for j := 0; j < P; j++ {
			s[i][j] = make([]int, C)
			for c := 0; c < C; c++ {
				s[i][j][c] = d.Min + nearest(cdfs[j][c], u)
			}
		}
	}

	if err := s.Validate(P, C, d); err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	return s, nil
}

// CDF is the cumulative histogram of one channel of one exposure,
// normalised so the last entry is 1. One bin per domain level.
func CDF(src PixelSource, exposure, channel int) []float64 {
	d := src.Domain()
	b := src.Bounds()
	cdf := make([]float64, d.Len())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			z := src.PixelAt(exposure, x, y, channel)
			if d.Contains(z) {
				cdf[d.Index(z)]++
			}
		}
	}
	for i := 1; i < len(cdf); i++ {
		cdf[i] += cdf[i-1]
	}
	if total := cdf[len(cdf)-1]; total > 0 {
		for i := range cdf {
			cdf[i] /= total
		}
	}
	return cdf
}

// nearest returns the first index whose value is closest to u.
func nearest(cdf []float64, u float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, v := range cdf {
		if dist := math.Abs(v - u); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
