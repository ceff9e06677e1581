package calibrate

import(
	"fmt"
	"log"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/sampling"
)

// A Stack is a set of aligned exposures of a static scene, plus the
// log exposure of each frame.
type Stack interface {
	sampling.PixelSource
	LogExposures() ([]float64, error)
}

// A Sampler picks n scene points from a stack.
type Sampler interface {
	Sample(src sampling.PixelSource, n int) (crf.Samples, error)
}

type channelResult struct {
	g, lE []float64
	stats crf.ResidualStats
	err   error
}

// RecoverResponseFunctions solves for the response curve of every
// channel in the stack. If samples is nil, they are drawn using the
// configured sampler; the same samples feed every channel. Each
// channel's curve is anchored independently, with no rescaling across
// channels.
func RecoverResponseFunctions(stack Stack, samples crf.Samples, cfg Config) (*Responses, error) {
	d := stack.Domain()
	if err := cfg.Finalize(d); err != nil {
		return nil, err
	}
	w, err := cfg.GetWeighting(d)
	if err != nil {
		return nil, err
	}

	P, C := stack.NumExposures(), stack.NumChannels()
	b, err := stack.LogExposures()
	if err != nil {
		return nil, fmt.Errorf("log exposures: %w", err)
	} else if len(b) != P {
		return nil, fmt.Errorf("%d log exposures for %d frames: %w", len(b), P, crf.ErrShapeMismatch)
	}

	if samples == nil {
		sampler, err := cfg.GetSampler()
		if err != nil {
			return nil, err
		}
		if samples, err = sampler.Sample(stack, cfg.Samples); err != nil {
			return nil, fmt.Errorf("sampling: %w", err)
		}
		if cfg.Verbosity > 0 {
			log.Printf("Drew %d samples with %s\n", samples.NumSamples(), sampler)
		}
	}
	if err := samples.Validate(P, C, d); err != nil {
		return nil, err
	}

	results := make([]channelResult, C)
	solveChannel := func(c int) {
		z := samples.Channel(c)
		r := &results[c]
		if r.g, r.lE, r.err = crf.Solve(z, b, cfg.Smoothness, w); r.err != nil {
			return
		}
		r.stats, r.err = crf.Residuals(z, b, r.g, r.lE, w)
	}

	if cfg.Sequential {
		for c := 0; c < C; c++ {
			solveChannel(c)
		}
	} else {
		var wg sync.WaitGroup
		for c := 0; c < C; c++ {
			wg.Add(1)
			go func(c int) {
				defer wg.Done()
				solveChannel(c)
			}(c)
		}
		wg.Wait()
	}

	resp := &Responses{
		Weighting:     w,
		G:             mat.NewDense(w.Len(), C, nil),
		LogIrradiance: make([][]float64, C),
		Residuals:     make([]crf.ResidualStats, C),
		Samples:       samples,
	}
	for c, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, r.err)
		}
		resp.G.SetCol(c, r.g)
		resp.LogIrradiance[c] = r.lE
		resp.Residuals[c] = r.stats

		if cfg.Verbosity > 0 {
			log.Printf("Channel %d: %s\n", c, r.stats)
		}
	}

	return resp, nil
}
