package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoints reads a whitespace or semicolon separated list of "x,y" pairs,
// e.g. "100,200 300,50;420,380". Every point must lie within [Limits].
func ParsePoints(s string) ([]Point2, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == '\n'
	})

	points := make([]Point2, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: expected x,y", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		points = append(points, Point2{X: x, Y: y})
	}
	if err := CheckRange(points); err != nil {
		return nil, err
	}
	return points, nil
}
