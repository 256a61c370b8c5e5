package geom

import (
	"errors"
	"fmt"
)

// Rect is an axis aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Bounds calculates the bounding box of points, grown by padding on every
// side. It returns false for an empty slice.
func Bounds(points []Point2, padding float64) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}, true
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// MaxCoordinate bounds the control point coordinates accepted from outside
// the editor: the command line and peers.
const MaxCoordinate = 1e6

// Limits is the area in which outside control points are accepted.
var Limits = Rect{X: -MaxCoordinate, Y: -MaxCoordinate, Width: 2 * MaxCoordinate, Height: 2 * MaxCoordinate}

// ErrOutOfRange is returned for points that are not finite or lie outside
// [Limits].
var ErrOutOfRange = errors.New("geom: coordinate out of range")

// CheckRange returns an error wrapping [ErrOutOfRange] for the first point
// outside [Limits].
func CheckRange(points []Point2) error {
	for i, p := range points {
		if !Limits.Contains(p) {
			return fmt.Errorf("%w: point %d is %v", ErrOutOfRange, i, p)
		}
	}
	return nil
}
