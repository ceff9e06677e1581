package imagestack

import(
	"fmt"
	"image"
	"sort"

	"github.com/abworrall/hdr-crf/pkg/calibrate"
	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/exposure"
)

// 16-bit photos give a domain far too big to solve, so by default
// pixel values are quantised down to this many bits.
const DefaultBits = 8

// A Stack holds differently exposed photos of the same static scene,
// ordered by ascending log exposure (darkest frame first). It
// implements calibrate.Stack.
type Stack struct {
	Layers      []Layer
	Bits        int                  // pixel values are reduced to this many bits
	Config      calibrate.Config     // from a .yaml file alongside the images, if any
}

func NewStack() Stack {
	return Stack{
		Layers: []Layer{},
		Bits:   DefaultBits,
		Config: calibrate.NewConfig(),
	}
}

func (s Stack)String() string {
	str := fmt.Sprintf("Stack %d-bit [\n", s.Bits)
	for _, l := range s.Layers {
		str += fmt.Sprintf("  %s\n", l)
	}
	return str + "]\n"
}

func (s *Stack)AddLayer(l Layer) {
	s.Layers = append(s.Layers, l)
	sort.SliceStable(s.Layers, func(i, j int) bool {
		return s.Layers[i].LogExposure() < s.Layers[j].LogExposure()
	})
}

// Validate checks the stack can be calibrated: enough frames, all the same size.
func (s Stack)Validate() error {
	if len(s.Layers) < 2 {
		return fmt.Errorf("stack has %d layers, need at least 2: %w", len(s.Layers), crf.ErrInsufficientData)
	}
	if s.Bits < 2 || s.Bits > 16 {
		return fmt.Errorf("stack bits=%d, want [2,16]: %w", s.Bits, crf.ErrInvalidConfig)
	}
	b := s.Layers[0].Bounds()
	for _, l := range s.Layers[1:] {
		if !l.Bounds().Eq(b) {
			return fmt.Errorf("%s is %s, but %s is %s: %w", l.Filename(), l.Bounds(), s.Layers[0].Filename(), b, crf.ErrShapeMismatch)
		}
	}
	return nil
}

func (s Stack)NumExposures() int         { return len(s.Layers) }
func (s Stack)NumChannels() int          { return 3 }
func (s Stack)Domain() crf.Domain        { return crf.DomainForBits(s.Bits) }
func (s Stack)Bounds() image.Rectangle   { return s.Layers[0].Bounds() }

// PixelAt quantises the 16-bit channel value down to s.Bits.
func (s Stack)PixelAt(j, x, y, c int) int {
	r, g, b, _ := s.Layers[j].At(x, y).RGBA()
	v := [3]uint32{r, g, b}[c]
	return int(v >> uint(16-s.Bits))
}

func (s Stack)ExposureValues() []exposure.ExposureValue {
	evs := make([]exposure.ExposureValue, len(s.Layers))
	for i, l := range s.Layers {
		evs[i] = l.ExposureValue
	}
	return evs
}

func (s Stack)LogExposures() ([]float64, error) {
	return exposure.LogExposures(s.ExposureValues())
}
