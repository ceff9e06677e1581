package exposure

import(
	"fmt"
	"math"

	"github.com/abworrall/hdr-crf/pkg/crf"
	"github.com/abworrall/hdr-crf/pkg/emath"
)

type Rat64 [2]int64

func (r Rat64)Float64() float64 { return float64(r[0]) / float64(r[1]) }

func (r Rat64)String() string {
	if r[1] == 1 {
		return fmt.Sprintf("%d", r[0])
	}
	return fmt.Sprintf("%d/%d", r[0], r[1])
}

// Reflected-light meter calibration constant, as used by most camera makers.
const DefaultCalibrationConstant = 12.5

// An ExposureValue details how a photograph was exposed: how wide the
// aperture, how long the shutter was open, and how sensitive the sensor.
// Together they fix how much light it takes to produce a given pixel
// value, which is all the response solver needs to know about a frame.
type ExposureValue struct {
	FNumber      float64  // 5.6, 8, etc.
	ExposureTime Rat64    // 1/500, 1/1000, etc. In seconds
	ISO          int      // 100, 800, etc.
}

func (ev ExposureValue)String() string {
	return fmt.Sprintf("f/%.1f, %ss, ISO%d, EV %.2f", ev.FNumber, ev.ExposureTime, ev.ISO, ev.EV())
}

func (ev ExposureValue)Validate() error {
	if !emath.IsFinite(ev.FNumber) || ev.FNumber <= 0 {
		return fmt.Errorf("(%s) had bad aperture: %w", ev, crf.ErrInvalidConfig)
	}
	if ev.ExposureTime[0] <= 0 || ev.ExposureTime[1] <= 0 {
		return fmt.Errorf("(%s) had bad exposure time: %w", ev, crf.ErrInvalidConfig)
	}
	if ev.ISO <= 0 {
		return fmt.Errorf("(%s) had bad ISO: %w", ev, crf.ErrInvalidConfig)
	}
	return nil
}

// EV is the ISO100-relative exposure value, in stops; bigger numbers
// mean less light reaches the sensor
// (https://en.wikipedia.org/wiki/Exposure_value).
func (ev ExposureValue)EV() float64 {
	t := ev.ExposureTime.Float64()
	return math.Log2(ev.FNumber*ev.FNumber/t) - math.Log2(float64(ev.ISO)/100.0)
}

// AverageLuminance is the scene luminance (cd/m²) that a reflected
// light meter would have picked these settings for: L = N²·k / (t·S).
func (ev ExposureValue)AverageLuminance(k float64) float64 {
	t := ev.ExposureTime.Float64()
	return ev.FNumber * ev.FNumber * k / (t * float64(ev.ISO))
}

// LogExposure is ln(1/L); it grows by ln(2) for each extra stop of
// light, and is what the response solver wants for each frame.
func (ev ExposureValue)LogExposure() float64 {
	return math.Log(1.0 / ev.AverageLuminance(DefaultCalibrationConstant))
}

// LogExposures builds the solver's exposure vector for a stack of frames.
func LogExposures(evs []ExposureValue) ([]float64, error) {
	out := make([]float64, len(evs))
	for i, ev := range evs {
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out[i] = ev.LogExposure()
	}
	return out, nil
}

// FNumberFromRational turns an EXIF FNumber rational into a float,
// e.g. 56/10 into 5.6.
func FNumberFromRational(num, denom int64) (float64, error) {
	if denom == 0 {
		return 0, fmt.Errorf("FNumber %d/%d: %w", num, denom, crf.ErrInvalidConfig)
	}
	return float64(num) / float64(denom), nil
}
