// Package scene composes a full editor frame: background, grid, axes,
// control polygon, curve and point markers, in that order.
package scene

import (
	"image/color"

	"BezierBoard/internal/bezier"
	"BezierBoard/internal/config"
	"BezierBoard/internal/geom"
	"BezierBoard/internal/raster"
)

// Frame is what one redraw shows. Selected is the index of the highlighted
// control point, or -1.
type Frame struct {
	Points   []geom.Point2
	Selected int
}

// Palette holds the colors of each layer.
type Palette struct {
	Background color.Color
	Grid       color.Color
	Axes       color.Color
	Labels     color.Color
	Polygon    color.Color
	Curve      color.Color
	Marker     color.Color
	Selected   color.Color
}

// DefaultPalette is a white sheet with a faint grid, a red curve and black
// markers; the dragged marker is blue.
var DefaultPalette = Palette{
	Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Grid:       color.RGBA{R: 230, G: 230, B: 230, A: 255},
	Axes:       color.RGBA{R: 128, G: 128, B: 128, A: 255},
	Labels:     color.RGBA{A: 255},
	Polygon:    color.RGBA{R: 211, G: 211, B: 211, A: 255},
	Curve:      color.RGBA{R: 255, A: 255},
	Marker:     color.RGBA{A: 255},
	Selected:   color.RGBA{B: 255, A: 255},
}

// Composer draws frames. The zero value is not usable; create one with
// [NewComposer].
type Composer struct {
	GridPitch  float64
	MarkerSize float64
	Steps      int
	Palette    Palette
}

// NewComposer returns a composer using the sizes from cfg and the default
// palette.
func NewComposer(cfg config.Config) *Composer {
	return &Composer{
		GridPitch:  cfg.GridPitch,
		MarkerSize: cfg.MarkerSize,
		Steps:      bezier.StepsFor(cfg.TessellationStep),
		Palette:    DefaultPalette,
	}
}

// Render composes f into a new pixmap of the given size.
func (c *Composer) Render(width, height int, f Frame) *raster.Pixmap {
	pm := raster.NewPixmap(width, height)
	c.Compose(pm, f)
	return pm
}

// Compose redraws every layer of f onto s. Nothing is cached between calls.
func (c *Composer) Compose(s raster.Surface, f Frame) {
	r := raster.New(s)
	c.drawBackground(r)
	c.drawGrid(r)
	c.drawAxes(r)
	c.drawControlPolygon(r, f.Points)
	c.drawCurve(r, f.Points)
	c.drawMarkers(r, f)
}

func (c *Composer) drawBackground(r *raster.Rasterizer) {
	r.SetColor(c.Palette.Background)
	r.Fill()
}

// drawGrid steps outward from the center in both directions, so a line
// always passes through the midpoint whatever the surface size.
func (c *Composer) drawGrid(r *raster.Rasterizer) {
	b := r.Bounds()
	x0, y0 := float64(b.Min.X), float64(b.Min.Y)
	w, h := float64(b.Max.X), float64(b.Max.Y)
	cx, cy := x0+float64(b.Dx())/2, y0+float64(b.Dy())/2
	pitch := max(c.GridPitch, 1)

	r.SetColor(c.Palette.Grid)
	for x := cx; x < w; x += pitch {
		r.DrawLine(int(x), int(y0), int(x), int(h))
	}
	for x := cx; x > x0; x -= pitch {
		r.DrawLine(int(x), int(y0), int(x), int(h))
	}
	for y := cy; y < h; y += pitch {
		r.DrawLine(int(x0), int(y), int(w), int(y))
	}
	for y := cy; y > y0; y -= pitch {
		r.DrawLine(int(x0), int(y), int(w), int(y))
	}
}

func (c *Composer) drawAxes(r *raster.Rasterizer) {
	b := r.Bounds()
	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2

	r.SetColor(c.Palette.Axes)
	r.DrawLine(cx, b.Min.Y, cx, b.Max.Y)
	r.DrawLine(b.Min.X, cy, b.Max.X, cy)

	r.SetColor(c.Palette.Labels)
	r.DrawText(b.Max.X-20, cy-5, "X")
	r.DrawText(cx+5, b.Min.Y+15, "Y")
}

func (c *Composer) drawControlPolygon(r *raster.Rasterizer, points []geom.Point2) {
	r.SetColor(c.Palette.Polygon)
	r.DrawPolyline(points)
}

func (c *Composer) drawCurve(r *raster.Rasterizer, points []geom.Point2) {
	if len(points) < 2 {
		return
	}
	r.SetColor(c.Palette.Curve)
	r.DrawPolyline(bezier.Tessellate(points, c.Steps))
}

func (c *Composer) drawMarkers(r *raster.Rasterizer, f Frame) {
	radius := c.MarkerSize / 2
	for i, p := range f.Points {
		if i == f.Selected {
			r.SetColor(c.Palette.Selected)
		} else {
			r.SetColor(c.Palette.Marker)
		}
		r.FillDisc(p.X, p.Y, radius)
	}
}
