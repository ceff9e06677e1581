package plot

import(
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/hdr-crf/pkg/calibrate"
	"github.com/abworrall/hdr-crf/pkg/crf"
)

func TestChannelColor(t *testing.T) {
	r, g, b := ChannelColor(0, 3).RGB255()
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)

	r, g, b = ChannelColor(1, 3).RGB255()
	assert.Greater(t, g, r)
	assert.Greater(t, g, b)
}

func TestResponseCurves(t *testing.T) {
	d := crf.DomainForBits(4)
	G := mat.NewDense(d.Len(), 2, nil)
	for i := 0; i < d.Len(); i++ {
		G.Set(i, 0, float64(i-d.MidIndex())*0.2)
		G.Set(i, 1, float64(i-d.MidIndex())*0.3)
	}
	r := &calibrate.Responses{Weighting: crf.NewTriangularWeighting(d), G: G}

	filename := filepath.Join(t.TempDir(), "crf.png")
	require.NoError(t, ResponseCurves(r, "test curves", filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestResponseCurvesTooSmall(t *testing.T) {
	r := &calibrate.Responses{G: mat.NewDense(1, 1, nil)}
	assert.Error(t, ResponseCurves(r, "", filepath.Join(t.TempDir(), "x.png")))
}
