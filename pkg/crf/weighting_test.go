package crf

import(
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangularWeighting(t *testing.T) {
	d := DomainForBits(8)
	w := NewTriangularWeighting(d)

	require.Len(t, w.W, 256)
	assert.Equal(t, 0.0, w.At(0))
	assert.Equal(t, 0.0, w.At(255))
	assert.Equal(t, 127.0, w.At(127))
	assert.Equal(t, 127.0, w.At(128))

	max := 0.0
	for z := 0; z <= 255; z++ {
		assert.Equal(t, w.At(z), w.At(255-z), "z=%d", z)
		max = math.Max(max, w.At(z))
	}
	assert.Equal(t, max, w.At(d.Min+d.MidIndex()))
}

func TestTriangularWeightingOffsetDomain(t *testing.T) {
	w := NewTriangularWeighting(Domain{Min: 16, Max: 235})
	assert.Equal(t, 0.0, w.At(16))
	assert.Equal(t, 0.0, w.At(235))
	assert.Equal(t, 4.0, w.At(20))
	assert.Equal(t, 4.0, w.At(231))
}

func TestWeightingClampsOutOfDomain(t *testing.T) {
	w := NewTriangularWeighting(DomainForBits(8))
	assert.Equal(t, w.At(0), w.At(-5))
	assert.Equal(t, w.At(255), w.At(300))
}

func TestWeightingApply(t *testing.T) {
	w := NewTriangularWeighting(DomainForBits(4))
	assert.Equal(t, []float64{0, 1, 7, 7, 1, 0}, w.Apply([]int{0, 1, 7, 8, 14, 15}))
}

func TestDebevec1997Weighting(t *testing.T) {
	w := NewDebevec1997Weighting(DomainForBits(8), 0.01, 0.99)

	require.NoError(t, w.Validate())
	assert.Equal(t, 0.0, w.At(0))
	assert.Equal(t, 0.0, w.At(1))
	assert.Equal(t, 0.0, w.At(2))
	assert.Greater(t, w.At(3), 0.0)
	assert.Equal(t, 0.0, w.At(255))
	assert.InDelta(t, 1.0, w.At(127), 1e-12)
	for _, v := range w.W {
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNewWeightingValidates(t *testing.T) {
	d := DomainForBits(2)

	_, err := NewWeighting(d, []float64{0, 1, 1})
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = NewWeighting(d, []float64{0, 1, -1, 0})
	assert.True(t, errors.Is(err, ErrNumericalFailure))

	_, err = NewWeighting(d, []float64{0, math.NaN(), 1, 0})
	assert.True(t, errors.Is(err, ErrNumericalFailure))

	w, err := NewWeighting(d, []float64{0, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.At(2))
}

func TestSamplesChannelAndValidate(t *testing.T) {
	s := Samples{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	}
	assert.Equal(t, 2, s.NumSamples())
	assert.Equal(t, 2, s.NumExposures())
	assert.Equal(t, 3, s.NumChannels())
	assert.Equal(t, [][]int{{2, 5}, {8, 11}}, s.Channel(1))

	d := DomainForBits(8)
	assert.NoError(t, s.Validate(2, 3, d))
	assert.True(t, errors.Is(s.Validate(3, 3, d), ErrShapeMismatch))
	assert.True(t, errors.Is(s.Validate(2, 2, d), ErrShapeMismatch))
	assert.True(t, errors.Is(s.Validate(2, 3, DomainForBits(3)), ErrShapeMismatch))
}
