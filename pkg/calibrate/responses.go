package calibrate

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/hdr-crf/pkg/crf"
)

// Responses holds the recovered response curve for each channel of a
// stack, along with what went into them.
type Responses struct {
	crf.Weighting                          // Domain & weights the curves were solved with

	G             *mat.Dense               // Log response: one row per pixel value, one column per channel
	LogIrradiance [][]float64              // [channel][sample]
	Residuals     []crf.ResidualStats      // per channel
	Samples       crf.Samples
}

func (r *Responses)NumChannels() int {
	_, c := r.G.Dims()
	return c
}

// Curve returns the log response of channel c, indexed by pixel value
// minus the domain minimum.
func (r *Responses)Curve(c int) []float64 {
	return mat.Col(nil, c, r.G)
}

func (r *Responses)String() string {
	str := fmt.Sprintf("Responses %s, %d samples [\n", r.Domain, r.Samples.NumSamples())
	for c := 0; c < r.NumChannels(); c++ {
		g := r.Curve(c)
		str += fmt.Sprintf("  channel %d: g[min]=% .4f, g[mid]=% .4f, g[max]=% .4f, %s\n",
			c, g[0], g[r.MidIndex()], g[len(g)-1], r.Residuals[c])
	}
	return str + "]\n"
}

// Linear turns the log curves into linear camera response functions:
// each is exponentiated, pixel values with zero weight are zeroed (we
// know nothing about them), and the result is scaled to peak at 1.
func (r *Responses)Linear() *mat.Dense {
	n, C := r.G.Dims()
	out := mat.NewDense(n, C, nil)

	for c := 0; c < C; c++ {
		max := 0.0
		for i := 0; i < n; i++ {
			v := 0.0
			if r.W[i] != 0 {
				v = math.Exp(r.G.At(i, c))
			}
			out.Set(i, c, v)
			if v > max { max = v }
		}
		if max > 0 {
			for i := 0; i < n; i++ {
				out.Set(i, c, out.At(i, c)/max)
			}
		}
	}

	return out
}

// CurveFile is the on-disk form of a set of recovered curves.
type CurveFile struct {
	Min       int
	Max       int
	Weights   []float64
	LogCurves [][]float64    // [channel][pixel value - Min]
	Linear    [][]float64    `yaml:",omitempty"`
}

func (r *Responses)CurveFile(withLinear bool) CurveFile {
	cf := CurveFile{Min: r.Domain.Min, Max: r.Domain.Max, Weights: r.W}
	var lin *mat.Dense
	if withLinear {
		lin = r.Linear()
	}
	for c := 0; c < r.NumChannels(); c++ {
		cf.LogCurves = append(cf.LogCurves, r.Curve(c))
		if lin != nil {
			cf.Linear = append(cf.Linear, mat.Col(nil, c, lin))
		}
	}
	return cf
}

func (r *Responses)AsYaml(withLinear bool) ([]byte, error) {
	return yaml.Marshal(r.CurveFile(withLinear))
}
