package sampling

import(
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/hdr-crf/pkg/crf"
)

// rampSource is a 16x16, 8-bit, 3 exposure stack. Exposure j is the
// ramp x+16y scaled by j+1 and clipped; channel c adds c.
type rampSource struct {
	bounds image.Rectangle
}

func newRampSource() rampSource {
	return rampSource{bounds: image.Rect(0, 0, 16, 16)}
}

func (r rampSource)NumExposures() int       { return 3 }
func (r rampSource)NumChannels() int        { return 3 }
func (r rampSource)Domain() crf.Domain      { return crf.DomainForBits(8) }
func (r rampSource)Bounds() image.Rectangle { return r.bounds }
func (r rampSource)PixelAt(j, x, y, c int) int {
	v := (x+16*y)*(j+1) + c
	if v > 255 { v = 255 }
	return v
}

func TestSpatialPointsAreDistinctAndInBounds(t *testing.T) {
	b := image.Rect(10, 20, 110, 70)
	pts := Spatial{Seed: 42}.Points(b, 300)
	require.Len(t, pts, 300)

	seen := map[image.Point]bool{}
	for _, pt := range pts {
		assert.True(t, pt.In(b), "%s outside %s", pt, b)
		assert.False(t, seen[pt], "%s repeated", pt)
		seen[pt] = true
	}
}

func TestSpatialPointsCoverTheFrame(t *testing.T) {
	b := image.Rect(0, 0, 400, 400)
	pts := Spatial{Seed: 3}.Points(b, 400)

	quadrants := map[int]int{}
	for _, pt := range pts {
		quadrants[(pt.X/200)+2*(pt.Y/200)]++
	}
	for q := 0; q < 4; q++ {
		assert.Equal(t, 100, quadrants[q], "quadrant %d", q)
	}
}

func TestSpatialIsDeterministicForASeed(t *testing.T) {
	b := image.Rect(0, 0, 64, 48)
	assert.Equal(t, Spatial{Seed: 9}.Points(b, 100), Spatial{Seed: 9}.Points(b, 100))
}

func TestSpatialEveryPixel(t *testing.T) {
	b := image.Rect(0, 0, 5, 3)
	pts := Spatial{Seed: 1}.Points(b, 15)
	seen := map[image.Point]bool{}
	for _, pt := range pts {
		seen[pt] = true
	}
	assert.Len(t, seen, 15)
}

func TestSpatialSample(t *testing.T) {
	src := newRampSource()
	s, err := Spatial{Seed: 5}.Sample(src, 40)
	require.NoError(t, err)

	require.Equal(t, 40, s.NumSamples())
	require.Equal(t, 3, s.NumExposures())
	require.Equal(t, 3, s.NumChannels())
	require.NoError(t, s.Validate(3, 3, src.Domain()))

	pts := Spatial{Seed: 5}.Points(src.Bounds(), 40)
	for i, pt := range pts {
		for j := 0; j < 3; j++ {
			for c := 0; c < 3; c++ {
				assert.Equal(t, src.PixelAt(j, pt.X, pt.Y, c), s[i][j][c])
			}
		}
	}
}

func TestSpatialSampleErrors(t *testing.T) {
	src := newRampSource()

	_, err := Spatial{Seed: 1}.Sample(src, 1)
	assert.True(t, errors.Is(err, crf.ErrInsufficientData))

	_, err = Spatial{Seed: 1}.Sample(src, 257)
	assert.True(t, errors.Is(err, crf.ErrInsufficientData))

	_, err = Spatial{Seed: 1}.Sample(rampSource{bounds: image.Rect(0, 0, 0, 0)}, 10)
	assert.True(t, errors.Is(err, crf.ErrInsufficientData))
}

func TestCDF(t *testing.T) {
	cdf := CDF(newRampSource(), 0, 0)
	require.Len(t, cdf, 256)
	assert.InDelta(t, 1.0/256.0, cdf[0], 1e-12)
	assert.InDelta(t, 0.5, cdf[127], 1e-12)
	assert.Equal(t, 1.0, cdf[255])
}

func TestGrossberg2003(t *testing.T) {
	src := newRampSource()
	s, err := Grossberg2003{}.Sample(src, 100)
	require.NoError(t, err)
	require.NoError(t, s.Validate(3, 3, src.Domain()))

	assert.Equal(t, 0, s[0][0][0])
	assert.Equal(t, 255, s[99][0][0])

	for i := 1; i < 100; i++ {
		for j := 0; j < 3; j++ {
			assert.GreaterOrEqual(t, s[i][j][0], s[i-1][j][0])
		}
		// brighter exposures never give lower values at the same quantile
		assert.GreaterOrEqual(t, s[i][1][0], s[i][0][0])
	}
}

func TestGrossberg2003Errors(t *testing.T) {
	_, err := Grossberg2003{}.Sample(newRampSource(), 0)
	assert.True(t, errors.Is(err, crf.ErrInsufficientData))
}
