package imagestack

import(
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/exposure"
)

func grey(w, h int, v uint16) image.Image {
	img := image.NewRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA64(x, y, color.RGBA64{v, v / 2, v / 4, 0xffff})
		}
	}
	return img
}

func layer(name string, secs int64, img image.Image) Layer {
	return Layer{
		LoadFilename:  "/tmp/" + name,
		Image:         img,
		ExposureValue: exposure.ExposureValue{FNumber: 8, ExposureTime: exposure.Rat64{1, secs}, ISO: 100},
	}
}

func TestAddLayerSortsByExposure(t *testing.T) {
	s := NewStack()
	s.AddLayer(layer("mid.tif", 125, grey(4, 4, 0x8000)))
	s.AddLayer(layer("bright.tif", 30, grey(4, 4, 0xf000)))
	s.AddLayer(layer("dark.tif", 500, grey(4, 4, 0x1000)))

	names := []string{}
	for _, l := range s.Layers {
		names = append(names, l.Filename())
	}
	assert.Equal(t, []string{"dark.tif", "mid.tif", "bright.tif"}, names)

	lE, err := s.LogExposures()
	require.NoError(t, err)
	require.Len(t, lE, 3)
	assert.Less(t, lE[0], lE[1])
	assert.Less(t, lE[1], lE[2])
	assert.InDelta(t, math.Log(125.0/30.0), lE[2]-lE[1], 1e-9)
}

func TestPixelAtQuantises(t *testing.T) {
	s := NewStack()
	s.AddLayer(layer("a.tif", 100, grey(2, 2, 0xabcd)))

	assert.Equal(t, 0xab, s.PixelAt(0, 1, 1, 0))
	assert.Equal(t, 0xabcd/2>>8, s.PixelAt(0, 1, 1, 1))
	assert.Equal(t, 0xabcd/4>>8, s.PixelAt(0, 1, 1, 2))
	assert.Equal(t, crf.Domain{Min: 0, Max: 255}, s.Domain())

	s.Bits = 10
	assert.Equal(t, 0xabcd>>6, s.PixelAt(0, 0, 0, 0))
	assert.Equal(t, 1024, s.Domain().Len())
}

func TestValidate(t *testing.T) {
	s := NewStack()
	s.AddLayer(layer("a.tif", 100, grey(4, 4, 0x1000)))
	assert.True(t, errors.Is(s.Validate(), crf.ErrInsufficientData))

	s.AddLayer(layer("b.tif", 50, grey(4, 4, 0x2000)))
	assert.NoError(t, s.Validate())
	assert.Equal(t, 2, s.NumExposures())
	assert.Equal(t, 3, s.NumChannels())

	s.AddLayer(layer("c.tif", 25, grey(5, 4, 0x4000)))
	assert.True(t, errors.Is(s.Validate(), crf.ErrShapeMismatch))

	s.Layers = s.Layers[:2]
	s.Bits = 17
	assert.True(t, errors.Is(s.Validate(), crf.ErrInvalidConfig))
}

func TestLoadFilesAndDirs(t *testing.T) {
	dir := t.TempDir()

	// A JPEG without any EXIF data can't be placed in the stack
	f, err := os.Create(filepath.Join(dir, "noexif.jpg"))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, grey(8, 8, 0x8000), nil))
	require.NoError(t, f.Close())

	s := NewStack()
	err = s.LoadFilesAndDirs(dir)
	assert.Error(t, err)
	assert.Len(t, s.Layers, 0)

	require.NoError(t, os.Remove(filepath.Join(dir, "noexif.jpg")))

	// Config files are picked up, other files ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crf.yaml"), []byte("samples: 77\nsmoothness: 12\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hello"), 0644))

	s = NewStack()
	require.NoError(t, s.LoadFilesAndDirs(dir))
	assert.Equal(t, 77, s.Config.Samples)
	assert.Equal(t, 12.0, s.Config.Smoothness)
	assert.Len(t, s.Layers, 0)

	assert.Error(t, s.LoadFilesAndDirs(filepath.Join(dir, "nope")))
}

func TestReadExposureNoExif(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.jpg")
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, grey(8, 8, 0x8000), nil))
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	defer f.Close()

	_, err = ReadExposure(f)
	assert.Error(t, err)
}
