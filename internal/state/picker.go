package state

import "BezierBoard/internal/geom"

// FindNearest returns the index of the first point, in list order, that lies
// strictly closer than radius to (x, y).
//
// It is a first-match scan: when pick circles overlap, the earlier point
// wins even if a later one is closer.
func FindNearest(points []geom.Point2, x, y, radius float64) (int, bool) {
	at := geom.Pt(x, y)
	for i, p := range points {
		if p.Distance(at) < radius {
			return i, true
		}
	}
	return -1, false
}
