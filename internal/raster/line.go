// Package raster writes lines, discs and text into pixel surfaces.
//
// Every pixel goes through a single bounds-checked write; coordinates outside
// the surface are dropped without error, since grid lines and curves are
// allowed to run off the visible area. Lines are clipped before they are
// walked, so far away end points cost no more than near ones.
package raster

import (
	"image"
	"image/color"
	"sort"
)

// DrawLine writes a one pixel wide, 8-connected line from (x0, y0) to
// (x1, y1) in color c, using Bresenham's integer algorithm. Both end points
// are included. Only the part of the segment inside the surface is walked,
// so the cost depends on the surface size and not on the segment length.
func DrawLine(s Surface, x0, y0, x1, y1 int, c color.Color) {
	b := s.Bounds()
	bresenham(x0, y0, x1, y1, b, func(x, y int) {
		plot(s, b, x, y, c)
	})
}

// bresenham calls put for every pixel of the segment that lies in clip, in
// order from (x0, y0) to (x1, y1). Pixels are exactly those of the unclipped
// walk.
func bresenham(x0, y0, x1, y1 int, clip image.Rectangle, put func(x, y int)) {
	if x0 == x1 && y0 == y1 {
		if image.Pt(x0, y0).In(clip) {
			put(x0, y0)
		}
		return
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := step(x0, x1)
	sy := step(y0, y1)

	// Always walk along the axis with the larger extent. In the steep case
	// x and y swap roles, including their step directions.
	steep := dy > dx
	if steep {
		x0, y0 = y0, x0
		dx, dy = dy, dx
		sx, sy = sy, sx
		clip = image.Rect(clip.Min.Y, clip.Min.X, clip.Max.Y, clip.Max.X)
	}

	first, last, ok := visibleSteps(x0, y0, dx, dy, sx, sy, clip)
	if !ok {
		return
	}

	// Resume the walk at step first with the state it would have reached.
	k := minorOffset(first, dx, dy)
	err := 2*dy - dx + 2*dy*first - 2*dx*k
	x, y := x0+sx*first, y0+sy*k
	for i := first; i <= last; i++ {
		if steep {
			put(y, x)
		} else {
			put(x, y)
		}

		if err > 0 {
			y += sy
			err -= 2 * dx
		}
		x += sx
		err += 2 * dy
	}
}

// minorOffset is how far the walk has moved along the minor axis after i
// steps: the number of positive error terms seen before step i, which is
// ceil((2*dy*i - dx) / (2*dx)) clamped at zero.
func minorOffset(i, dx, dy int) int {
	n := 2*dy*i - dx
	if n <= 0 {
		return 0
	}
	return (n + 2*dx - 1) / (2 * dx)
}

// visibleSteps returns the range of step indexes, within 0..dx, whose
// pixels fall inside clip. Coordinates are in the walk's frame, where x is
// the major axis.
func visibleSteps(x0, y0, dx, dy, sx, sy int, clip image.Rectangle) (first, last int, ok bool) {
	if clip.Empty() {
		return 0, 0, false
	}

	// Major axis: x0 + sx*i in [Min.X, Max.X).
	first, last = 0, dx
	if sx > 0 {
		first = max(first, clip.Min.X-x0)
		last = min(last, clip.Max.X-1-x0)
	} else {
		first = max(first, x0-(clip.Max.X-1))
		last = min(last, x0-clip.Min.X)
	}

	// Minor axis: y0 + sy*k(i) in [Min.Y, Max.Y). k never decreases with i,
	// so the matching steps form one run.
	kLo, kHi := clip.Min.Y-y0, clip.Max.Y-1-y0
	if sy < 0 {
		kLo, kHi = y0-(clip.Max.Y-1), y0-clip.Min.Y
	}
	first = max(first, sort.Search(dx+1, func(i int) bool { return minorOffset(i, dx, dy) >= kLo }))
	last = min(last, sort.Search(dx+1, func(i int) bool { return minorOffset(i, dx, dy) > kHi })-1)

	return first, last, first <= last
}

func plot(s Surface, b image.Rectangle, x, y int, c color.Color) {
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return
	}
	s.SetPixel(x, y, c)
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
