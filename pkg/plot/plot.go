package plot

import(
	"fmt"
	"math"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/hdr-crf/pkg/calibrate"
)

const(
	Width  = 800
	Height = 600
	margin = 60.0
)

// ChannelColor picks a distinct hue per channel; three channels come
// out as red, green and blue.
func ChannelColor(c, numChannels int) colorful.Color {
	if numChannels < 1 {
		numChannels = 1
	}
	return colorful.Hsv(360.0*float64(c)/float64(numChannels), 0.9, 0.9)
}

// ResponseCurves draws each channel's log response, with pixel value
// along the x axis and g(z) up the y axis, and saves it as a PNG.
func ResponseCurves(r *calibrate.Responses, title, filename string) error {
	n, C := r.G.Dims()
	if n < 2 {
		return fmt.Errorf("plot: need at least two pixel values, have %d", n)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for c := 0; c < C; c++ {
		for _, v := range r.Curve(c) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return fmt.Errorf("plot: curves are not finite")
	}
	if hi == lo {
		hi, lo = hi+1, lo-1
	}

	plotW, plotH := Width-2*margin, Height-2*margin
	toXY := func(i int, v float64) (float64, float64) {
		return margin + plotW*float64(i)/float64(n-1), margin + plotH*(hi-v)/(hi-lo)
	}

	dc := gg.NewContext(Width, Height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	// Axes, with g=0 marked if it's in range
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin, margin, plotW, plotH)
	dc.Stroke()
	if lo < 0 && hi > 0 {
		_, y0 := toXY(0, 0)
		dc.DrawLine(margin, y0, margin+plotW, y0)
		dc.Stroke()
	}

	dc.SetLineWidth(2)
	for c := 0; c < C; c++ {
		red, green, blue := ChannelColor(c, C).RGB255()
		dc.SetRGB255(int(red), int(green), int(blue))
		for i, v := range r.Curve(c) {
			x, y := toXY(i, v)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, margin, margin/2)
	dc.DrawStringAnchored(fmt.Sprintf("%d", r.Domain.Min), margin, Height-margin/2, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d", r.Domain.Max), margin+plotW, Height-margin/2, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", hi), margin/2, margin, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", lo), margin/2, margin+plotH, 0.5, 0.5)

	return dc.SavePNG(filename)
}
