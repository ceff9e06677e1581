package calibrate

import(
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/sampling"
)

/* Example config file ...

verbosity: 1
samples: 1000
smoothness: 20
weighting: debevec1997
sampling: spatial
seed: 7

*/

// These defaults were tuned on 8-bit imagery; other bit depths must
// set Samples and Smoothness explicitly.
const(
	DefaultSamples    = 1000
	DefaultSmoothness = 20.0
	DefaultSeed       = 1
)

var(
	Weightings = []string{"triangular", "debevec1997"}
	Samplers   = []string{"spatial", "grossberg"}
)

type Config struct {
	Verbosity         int

	Samples           int        // How many scene points to sample
	Smoothness        float64    // λ, the weight of the curve's second derivative penalty
	Weighting         string     // one of Weightings
	WeightingOverride []float64  // Explicit weight per pixel value; replaces Weighting
	Sampling          string     // one of Samplers
	Seed              uint32     // For the spatial sampler
	Sequential        bool       // Solve channels one after another, rather than in parallel
}

func NewConfig() Config {
	return Config{}
}

func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("config parse: %v: %w", err, crf.ErrInvalidConfig)
	}
	return c, nil
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}
	return NewConfigFromYaml(contents)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func is8Bit(d crf.Domain) bool { return d.Len() == 256 }

// Finalize fills in defaults and does sanity checks, now that we know
// which pixel domain the images use.
func (c *Config)Finalize(d crf.Domain) error {
	if c.Weighting == "" && c.WeightingOverride == nil {
		c.Weighting = "triangular"
	}
	if c.Sampling == "" {
		c.Sampling = "spatial"
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}

	if c.Samples == 0 {
		if !is8Bit(d) {
			return fmt.Errorf("samples must be set for domain %s: %w", d, crf.ErrInvalidConfig)
		}
		c.Samples = DefaultSamples
	}
	if c.Smoothness == 0 {
		if !is8Bit(d) {
			return fmt.Errorf("smoothness must be set for domain %s: %w", d, crf.ErrInvalidConfig)
		}
		c.Smoothness = DefaultSmoothness
	}

	if c.Samples < 2 {
		return fmt.Errorf("samples=%d, need at least 2: %w", c.Samples, crf.ErrInvalidConfig)
	}
	if c.Smoothness < 0 {
		return fmt.Errorf("smoothness=%v, must not be negative: %w", c.Smoothness, crf.ErrInvalidConfig)
	}
	if _, err := c.GetWeighting(d); err != nil {
		return err
	}
	if _, err := c.GetSampler(); err != nil {
		return err
	}

	return nil
}

func (c Config)GetWeighting(d crf.Domain) (crf.Weighting, error) {
	if c.WeightingOverride != nil {
		return crf.NewWeighting(d, c.WeightingOverride)
	}

	switch c.Weighting {
	case "triangular":  return crf.NewTriangularWeighting(d), nil
	case "debevec1997": return crf.NewDebevec1997Weighting(d, 0.01, 0.99), nil
	default:
		return crf.Weighting{}, fmt.Errorf("no Weighting named '%s', wanted %v: %w", c.Weighting, Weightings, crf.ErrInvalidConfig)
	}
}

func (c Config)GetSampler() (Sampler, error) {
	switch c.Sampling {
	case "spatial":   return sampling.Spatial{Seed: c.Seed}, nil
	case "grossberg": return sampling.Grossberg2003{}, nil
	default:
		return nil, fmt.Errorf("no Sampler named '%s', wanted %v: %w", c.Sampling, Samplers, crf.ErrInvalidConfig)
	}
}
