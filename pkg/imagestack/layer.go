package imagestack

import(
	"fmt"
	"image"
	"path/filepath"

	"github.com/abworrall/hdr-crf/pkg/exposure"
)

// A Layer holds an image.Image loaded from an input file, along with how it was exposed
type Layer struct {
	LoadFilename           string
	image.Image                          // The photo; must be aligned with every other layer
	exposure.ExposureValue               // From the EXIF data
}

func (l Layer)String() string {
	return fmt.Sprintf("%s: %s, %s", l.Filename(), l.ExposureValue, l.Bounds())
}

func (l Layer)Filename() string {
	return filepath.Base(l.LoadFilename)
}
