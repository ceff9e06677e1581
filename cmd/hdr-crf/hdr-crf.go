package main

import(
	"flag"
	"io/ioutil"
	"log"

	"github.com/abworrall/hdr-crf/pkg/calibrate"
	"github.com/abworrall/hdr-crf/pkg/imagestack"
	"github.com/abworrall/hdr-crf/pkg/plot"
)

var(
	fVerbosity int
	fSamples int
	fSmoothness float64
	fWeighting string
	fSampling string
	fSeed uint
	fBits int
	fSequential bool
	fOutputFilename string
	fPlotFilename string
	fLinear bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.IntVar(&fSamples, "samples", 0, "how many scene points to sample (default 1000 for 8-bit)")
	flag.Float64Var(&fSmoothness, "smoothness", 0, "weight of the curve smoothness term (default 20 for 8-bit)")
	flag.StringVar(&fWeighting, "weighting", "", "pixel value weighting function, one of: triangular, debevec1997")
	flag.StringVar(&fSampling, "sampling", "", "how to pick scene points, one of: spatial, grossberg")
	flag.UintVar(&fSeed, "seed", 0, "random seed for the spatial sampler")
	flag.IntVar(&fBits, "bits", imagestack.DefaultBits, "reduce pixel values to this many bits before solving")
	flag.BoolVar(&fSequential, "sequential", false, "solve one channel at a time")
	flag.StringVar(&fOutputFilename, "o", "crf.yaml", "where to write the recovered curves")
	flag.StringVar(&fPlotFilename, "plot", "", "if set, plot the curves to this PNG file")
	flag.BoolVar(&fLinear, "linear", false, "also write the linear (exponentiated, normalized) curves")
	flag.Parse()

	log.Printf("hdr-crf starting\n")
}

func main() {
	s := imagestack.NewStack()
	if err := s.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}

	// Override the config file with command line args, if relevant
	if fVerbosity > 0 { s.Config.Verbosity = fVerbosity }
	if fSamples > 0 { s.Config.Samples = fSamples }
	if fSmoothness > 0 { s.Config.Smoothness = fSmoothness }
	if fWeighting != "" { s.Config.Weighting = fWeighting }
	if fSampling != "" { s.Config.Sampling = fSampling }
	if fSeed > 0 { s.Config.Seed = uint32(fSeed) }
	if fSequential { s.Config.Sequential = true }
	s.Bits = fBits

	if err := s.Validate(); err != nil {
		log.Fatalf("Bad image stack: %v\n", err)
	}
	log.Printf("Images loaded: %s", s)

	if err := s.Config.Finalize(s.Domain()); err != nil {
		log.Fatalf("Bad configuration: %v\n", err)
	}
	if s.Config.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", s.Config.AsYaml())
	}

	r, err := calibrate.RecoverResponseFunctions(s, nil, s.Config)
	if err != nil {
		log.Fatalf("Recovering response functions failed: %v\n", err)
	}
	log.Printf("Recovered: %s", r)

	b, err := r.AsYaml(fLinear)
	if err != nil {
		log.Fatalf("Marshaling curves: %v\n", err)
	}
	if err := ioutil.WriteFile(fOutputFilename, b, 0644); err != nil {
		log.Fatalf("Writing %s: %v\n", fOutputFilename, err)
	}
	log.Printf("Curves written to %s\n", fOutputFilename)

	if fPlotFilename != "" {
		if err := plot.ResponseCurves(r, "log response, "+s.Config.Weighting, fPlotFilename); err != nil {
			log.Fatalf("Plotting to %s: %v\n", fPlotFilename, err)
		}
		log.Printf("Plot written to %s\n", fPlotFilename)
	}
}
