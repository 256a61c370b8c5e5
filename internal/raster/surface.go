package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// Surface is a pixel target. SetPixel is only ever called with coordinates
// inside Bounds.
type Surface interface {
	Bounds() image.Rectangle
	SetPixel(x, y int, c color.Color)
}

// Pixmap is an in-memory Surface backed by an RGBA image.
type Pixmap struct {
	img *image.RGBA
}

var _ Surface = (*Pixmap)(nil)

// NewPixmap creates a transparent pixmap of the given size.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.img.Rect.Dx()
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.img.Rect.Dy()
}

// Bounds returns the pixmap extent, anchored at the origin.
func (p *Pixmap) Bounds() image.Rectangle {
	return p.img.Rect
}

// SetPixel sets the color of a single pixel. Coordinates outside the pixmap
// are ignored.
func (p *Pixmap) SetPixel(x, y int, c color.Color) {
	p.img.Set(x, y, c)
}

// At returns the color of a single pixel.
func (p *Pixmap) At(x, y int) color.RGBA {
	return p.img.RGBAAt(x, y)
}

// Image returns the backing image. It is shared, not copied.
func (p *Pixmap) Image() *image.RGBA {
	return p.img
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.img)
}
