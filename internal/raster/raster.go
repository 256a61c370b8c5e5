package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"BezierBoard/internal/geom"
)

// kappa places cubic control points so that four segments approximate a
// circle.
const kappa = 0.5522847498

// LineLimit is the largest coordinate magnitude handed to the integer line
// walker. [Rasterizer.DrawLine] and [DrawLine] expect end points within it.
const LineLimit = 1 << 24

// Rasterizer draws into one Surface with a current color that applies to
// every call until it is changed. It is not safe for concurrent use.
type Rasterizer struct {
	surf   Surface
	bounds image.Rectangle
	color  color.Color
}

// New returns a Rasterizer drawing onto s in black.
func New(s Surface) *Rasterizer {
	return &Rasterizer{
		surf:   s,
		bounds: s.Bounds(),
		color:  color.Black,
	}
}

// SetColor changes the current color. A nil color is ignored.
func (r *Rasterizer) SetColor(c color.Color) {
	if c != nil {
		r.color = c
	}
}

// Color returns the current color.
func (r *Rasterizer) Color() color.Color {
	return r.color
}

// Bounds returns the extent of the underlying surface.
func (r *Rasterizer) Bounds() image.Rectangle {
	return r.bounds
}

// Plot writes a single pixel, dropping it if it is outside the surface.
func (r *Rasterizer) Plot(x, y int) {
	plot(r.surf, r.bounds, x, y, r.color)
}

// Fill paints every pixel of the surface.
func (r *Rasterizer) Fill() {
	for y := r.bounds.Min.Y; y < r.bounds.Max.Y; y++ {
		for x := r.bounds.Min.X; x < r.bounds.Max.X; x++ {
			r.surf.SetPixel(x, y, r.color)
		}
	}
}

// DrawLine draws the segment between two pixels with Bresenham's algorithm.
func (r *Rasterizer) DrawLine(x0, y0, x1, y1 int) {
	bresenham(x0, y0, x1, y1, r.bounds, r.Plot)
}

// DrawPolyline connects consecutive points with lines after rounding them to
// the nearest pixel. Fewer than two points draw nothing. Segments with a
// non-finite end are skipped, and segments reaching beyond ±[LineLimit] are
// first cut at that limit.
func (r *Rasterizer) DrawPolyline(points []geom.Point2) {
	for i := 1; i < len(points); i++ {
		p, q, ok := clipSegment(points[i-1], points[i], LineLimit)
		if !ok {
			continue
		}
		x0, y0 := p.Round()
		x1, y1 := q.Round()
		r.DrawLine(x0, y0, x1, y1)
	}
}

// FillDisc paints the disc of the given radius around (cx, cy). Pixels whose
// centers are covered by at least half are painted; there is no blending.
func (r *Rasterizer) FillDisc(cx, cy, radius float64) {
	if !geom.Pt(cx, cy).Finite() || radius > LineLimit {
		return
	}
	if radius <= 0 || math.IsNaN(radius) {
		x, y := geom.Pt(cx, cy).Round()
		r.Plot(x, y)
		return
	}

	box := image.Rect(
		int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius)), int(math.Ceil(cy+radius)),
	)
	if !box.Overlaps(r.bounds) {
		return
	}

	// Path coordinates are relative to the box origin.
	ox := float32(cx - float64(box.Min.X))
	oy := float32(cy - float64(box.Min.Y))
	rad := float32(radius)
	k := rad * kappa

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.MoveTo(ox+rad, oy)
	z.CubeTo(ox+rad, oy+k, ox+k, oy+rad, ox, oy+rad)
	z.CubeTo(ox-k, oy+rad, ox-rad, oy+k, ox-rad, oy)
	z.CubeTo(ox-rad, oy-k, ox-k, oy-rad, ox, oy-rad)
	z.CubeTo(ox+k, oy-rad, ox+rad, oy-k, ox+rad, oy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.DrawOp = draw.Src
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	r.plotMask(mask, box.Min)
}

// clipSegment cuts the segment pq to the square of half side limit around
// the origin (Liang-Barsky). It reports false when an end point is not
// finite or the segment misses the square.
func clipSegment(p, q geom.Point2, limit float64) (geom.Point2, geom.Point2, bool) {
	if !p.Finite() || !q.Finite() {
		return p, q, false
	}
	box := geom.Rect{X: -limit, Y: -limit, Width: 2 * limit, Height: 2 * limit}
	if box.Contains(p) && box.Contains(q) {
		return p, q, true
	}

	dx, dy := q.X-p.X, q.Y-p.Y
	edges := [4][2]float64{
		{-dx, p.X + limit},
		{dx, limit - p.X},
		{-dy, p.Y + limit},
		{dy, limit - p.Y},
	}
	t0, t1 := 0.0, 1.0
	for _, e := range edges {
		dir, dist := e[0], e[1]
		if dir == 0 {
			if dist < 0 {
				return p, q, false
			}
			continue
		}
		t := dist / dir
		if dir < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
	}
	if t0 > t1 {
		return p, q, false
	}
	return p.Lerp(q, t0), p.Lerp(q, t1), true
}

// DrawText writes s with a fixed 7x13 bitmap face. (x, y) is the left end of
// the baseline.
func (r *Rasterizer) DrawText(x, y int, s string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	if width == 0 {
		return
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)
	r.plotMask(mask, image.Pt(x, y-ascent))
}

// plotMask plots every mask pixel that is at least half covered, offset by
// origin.
func (r *Rasterizer) plotMask(mask *image.Alpha, origin image.Point) {
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A >= 0x80 {
				r.Plot(origin.X+x, origin.Y+y)
			}
		}
	}
}
