// Package sampling picks the pixel observations that feed the response
// solver. The solver needs far fewer samples than there are pixels, but
// they should cover the full range of pixel values.
package sampling

import(
	"fmt"
	"image"

	"github.com/abworrall/hdr-crf/pkg/crf"
)

// A PixelSource is a stack of aligned exposures of the same scene.
type PixelSource interface {
	NumExposures() int
	NumChannels() int
	Domain() crf.Domain
	Bounds() image.Rectangle

	// PixelAt returns the integer value of a channel, at (x,y) in the
	// given exposure.
	PixelAt(exposure, x, y, channel int) int
}

func checkSource(src PixelSource, n int) error {
	if n < 2 {
		return fmt.Errorf("sampling: %d samples requested, need at least 2: %w", n, crf.ErrInsufficientData)
	}
	if src.NumExposures() < 2 {
		return fmt.Errorf("sampling: %d exposures, need at least 2: %w", src.NumExposures(), crf.ErrInsufficientData)
	}
	if src.NumChannels() < 1 {
		return fmt.Errorf("sampling: no channels: %w", crf.ErrShapeMismatch)
	}
	if b := src.Bounds(); b.Empty() {
		return fmt.Errorf("sampling: empty image %s: %w", b, crf.ErrInsufficientData)
	}
	return nil
}

// AtPoints reads every exposure and channel at each point.
func AtPoints(src PixelSource, pts []image.Point) crf.Samples {
	P, C := src.NumExposures(), src.NumChannels()
	s := make(crf.Samples, len(pts))
	for i, pt := range pts {
		s[i] = make([][]int, P)
		for j := 0; j < P; j++ {
			s[i][j] = make([]int, C)
			for c := 0; c < C; c++ {
				s[i][j][c] = src.PixelAt(j, pt.X, pt.Y, c)
			}
		}
	}
	return s
}
