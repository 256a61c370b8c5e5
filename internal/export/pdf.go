// Package export writes the current board to files.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"BezierBoard/internal/bezier"
	"BezierBoard/internal/geom"
	"BezierBoard/internal/logging"
)

// PDFOptions controls the vector export.
type PDFOptions struct {
	Steps      int
	MarkerSize float64
	Polygon    color.Color
	Curve      color.Color
	Marker     color.Color
}

// DefaultPDFOptions matches the on-screen defaults.
var DefaultPDFOptions = PDFOptions{
	Steps:      bezier.DefaultSteps,
	MarkerSize: 6,
	Polygon:    color.RGBA{R: 211, G: 211, B: 211, A: 255},
	Curve:      color.RGBA{R: 255, A: 255},
	Marker:     color.RGBA{A: 255},
}

const (
	pageMargin = 15.0 // mm
	boxPadding = 10.0 // canvas pixels
)

// ErrNoPoints is returned when there is nothing to export.
var ErrNoPoints = errors.New("export: no control points")

// PDF writes the control polygon, the curve and the control points to an A4
// landscape page at path, scaled to fit.
func PDF(path string, points []geom.Point2, opts PDFOptions) error {
	p, err := buildPDF(points, opts)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	logging.Logger().Info("exported PDF", "path", path, "points", len(points))
	return nil
}

// WritePDF is like [PDF] but writes the document to w.
func WritePDF(w io.Writer, points []geom.Point2, opts PDFOptions) error {
	p, err := buildPDF(points, opts)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: writing PDF: %w", err)
	}
	return nil
}

func buildPDF(points []geom.Point2, opts PDFOptions) (*gofpdf.Fpdf, error) {
	box, ok := geom.Bounds(points, boxPadding)
	if !ok {
		return nil, ErrNoPoints
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	pageW, pageH := p.GetPageSize()

	scale := min((pageW-2*pageMargin)/box.Width, (pageH-2*pageMargin)/box.Height)
	toPage := func(q geom.Point2) (float64, float64) {
		return pageMargin + (q.X-box.X)*scale, pageMargin + (q.Y-box.Y)*scale
	}

	p.SetLineWidth(0.3)
	setDrawColor(p, opts.Polygon)
	polyline(p, points, toPage)

	p.SetLineWidth(0.5)
	setDrawColor(p, opts.Curve)
	polyline(p, bezier.Tessellate(points, opts.Steps), toPage)

	r, g, b := rgb(opts.Marker)
	p.SetFillColor(r, g, b)
	radius := opts.MarkerSize / 2 * scale
	for _, q := range points {
		x, y := toPage(q)
		p.Circle(x, y, radius, "F")
	}
	return p, p.Error()
}

func polyline(p *gofpdf.Fpdf, points []geom.Point2, toPage func(geom.Point2) (float64, float64)) {
	for i := 1; i < len(points); i++ {
		x0, y0 := toPage(points[i-1])
		x1, y1 := toPage(points[i])
		p.Line(x0, y0, x1, y1)
	}
}

func setDrawColor(p *gofpdf.Fpdf, c color.Color) {
	r, g, b := rgb(c)
	p.SetDrawColor(r, g, b)
}

func rgb(c color.Color) (int, int, int) {
	if c == nil {
		return 0, 0, 0
	}
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
