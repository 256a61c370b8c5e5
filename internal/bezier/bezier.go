// Package bezier evaluates and tessellates Bézier curves of arbitrary degree.
//
// A curve is defined by all of its control points at once: n points give a
// single segment of degree n-1. Evaluation uses de Casteljau's algorithm,
// which only ever forms convex combinations of the inputs and therefore stays
// stable for high degrees where summing Bernstein polynomials does not.
package bezier

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"BezierBoard/internal/geom"
)

// ErrInvalidArgument is returned for input that does not define a curve.
var ErrInvalidArgument = errors.New("bezier: invalid argument")

// DefaultSteps is the number of parametric intervals used when tessellating,
// i.e. a step of 0.001 and 1001 samples.
const DefaultSteps = 1000

// MaxSteps bounds the number of intervals of a tessellation so that the
// cost of drawing a curve stays fixed whatever step is configured.
const MaxSteps = 100000

// Evaluate returns the point of the curve defined by points at parameter t.
//
// A single control point yields that point for every t. An empty slice is an
// error wrapping [ErrInvalidArgument].
func Evaluate(points []geom.Point2, t float64) (geom.Point2, error) {
	n := len(points)
	if n == 0 {
		return geom.Point2{}, fmt.Errorf("%w: curve has no control points", ErrInvalidArgument)
	}

	bx := make([]float64, n)
	by := make([]float64, n)
	for i, p := range points {
		bx[i] = p.X
		by[i] = p.Y
	}

	casteljau(bx, by, t)
	return geom.Point2{X: bx[0], Y: by[0]}, nil
}

// casteljau reduces bx and by in place; the result ends up in index 0.
func casteljau(bx, by []float64, t float64) {
	n := len(bx)
	u := 1 - t
	for r := 1; r < n; r++ {
		for i := 0; i < n-r; i++ {
			bx[i] = u*bx[i] + t*bx[i+1]
			by[i] = u*by[i] + t*by[i+1]
		}
	}
}

// StepsFor converts a parametric step size into a number of intervals.
// Non-positive steps and steps above 1 give [DefaultSteps]; steps smaller
// than 1/[MaxSteps] give [MaxSteps].
func StepsFor(step float64) int {
	if step <= 0 || step > 1 || math.IsNaN(step) {
		return DefaultSteps
	}
	n := math.Round(1 / step)
	if n >= MaxSteps {
		return MaxSteps
	}
	return max(1, int(n))
}

// Samples yields steps+1 points of the curve at t = i/steps for i = 0..steps,
// so the first and last samples are the curve's end points. Fewer than two
// control points yield nothing. A steps value below 1 means [DefaultSteps],
// and values above [MaxSteps] are reduced to it.
func Samples(points []geom.Point2, steps int) iter.Seq[geom.Point2] {
	return func(yield func(geom.Point2) bool) {
		n := len(points)
		if n < 2 {
			return
		}
		steps = clampSteps(steps)

		// Working buffers are reused across samples; the control points are
		// copied back in before each reduction.
		bx := make([]float64, n)
		by := make([]float64, n)
		for i := 0; i <= steps; i++ {
			for j, p := range points {
				bx[j] = p.X
				by[j] = p.Y
			}
			casteljau(bx, by, float64(i)/float64(steps))
			if !yield(geom.Point2{X: bx[0], Y: by[0]}) {
				return
			}
		}
	}
}

// Tessellate returns the polyline approximating the curve, sampled as
// described by [Samples]. The result is freshly allocated on every call and
// is nil for fewer than two control points.
func Tessellate(points []geom.Point2, steps int) []geom.Point2 {
	if len(points) < 2 {
		return nil
	}
	steps = clampSteps(steps)
	out := make([]geom.Point2, 0, steps+1)
	for p := range Samples(points, steps) {
		out = append(out, p)
	}
	return out
}

func clampSteps(steps int) int {
	if steps < 1 {
		return DefaultSteps
	}
	return min(steps, MaxSteps)
}
