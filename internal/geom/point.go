// Package geom holds the plain 2D value types shared by the editor.
package geom

import (
	"fmt"
	"math"
)

// Point2 is a position on the canvas, used both for control points and for
// curve samples.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point2 {
	return Point2{X: x, Y: y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point2) Distance(q Point2) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Finite reports whether both coordinates are finite numbers.
func (p Point2) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Lerp interpolates linearly between p (t = 0) and q (t = 1).
func (p Point2) Lerp(q Point2, t float64) Point2 {
	return Point2{
		X: (1-t)*p.X + t*q.X,
		Y: (1-t)*p.Y + t*q.Y,
	}
}

// Round returns the nearest pixel coordinates, rounding half away from zero.
func (p Point2) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

func (p Point2) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
