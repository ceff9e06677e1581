package sampling

import(
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/valyala/fastrand"

	"github.com/abworrall/hdr-crf/pkg/crf"
)

// Spatial samples the same pixel locations in every exposure and
// channel. The image is cut into a grid of roughly square cells, and
// each chosen cell contributes one randomly placed pixel, so samples
// are spread across the whole frame. A zero Seed gives different
// locations each run.
type Spatial struct {
	Seed uint32
}

func (sp Spatial)String() string { return fmt.Sprintf("spatial(seed=%d)", sp.Seed) }

func (sp Spatial)Sample(src PixelSource, n int) (crf.Samples, error) {
	if err := checkSource(src, n); err != nil {
		return nil, err
	}
	b := src.Bounds()
	if area := b.Dx() * b.Dy(); area < n {
		return nil, fmt.Errorf("sampling: %d samples from %d pixels: %w", n, area, crf.ErrInsufficientData)
	}

	return AtPoints(src, sp.Points(b, n)), nil
}

// Points picks n distinct locations inside b, in row-major cell order.
// b must hold at least n pixels.
func (sp Spatial)Points(b image.Rectangle, n int) []image.Point {
	w, h := b.Dx(), b.Dy()

	cols := int(math.Ceil(math.Sqrt(float64(n) * float64(w) / float64(h))))
	if cols > w { cols = w }
	if cols < 1 { cols = 1 }
	rows := (n + cols - 1) / cols
	if rows > h { rows = h }

	var rng fastrand.RNG
	if sp.Seed != 0 {
		rng.Seed(sp.Seed)
	}

	// Fisher-Yates over the cells, keeping the first n.
	cells := make([]int, rows*cols)
	for i := range cells {
		cells[i] = i
	}
	for i := len(cells) - 1; i > 0; i-- {
		j := int(rng.Uint32n(uint32(i + 1)))
		cells[i], cells[j] = cells[j], cells[i]
	}
	cells = cells[:n]
	sort.Ints(cells)

	pts := make([]image.Point, 0, n)
	for _, cell := range cells {
		cx, cy := cell%cols, cell/cols
		x0, x1 := cx*w/cols, (cx+1)*w/cols
		y0, y1 := cy*h/rows, (cy+1)*h/rows
		pts = append(pts, image.Point{
			X: b.Min.X + x0 + int(rng.Uint32n(uint32(x1-x0))),
			Y: b.Min.Y + y0 + int(rng.Uint32n(uint32(y1-y0))),
		})
	}
	return pts
}
