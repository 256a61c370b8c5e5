package bezier

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BezierBoard/internal/geom"
)

const eps = 1e-9

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func randomPoints(r *rand.Rand, n int) []geom.Point2 {
	pts := make([]geom.Point2, n)
	for i := range pts {
		pts[i] = geom.Pt(r.Float64()*2000-1000, r.Float64()*2000-1000)
	}
	return pts
}

func TestEvaluateEmpty(t *testing.T) {
	_, err := Evaluate(nil, 0.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestEvaluateSinglePoint(t *testing.T) {
	p := geom.Pt(3, -7)
	for _, tt := range []float64{0, 0.25, 0.5, 1} {
		got, err := Evaluate([]geom.Point2{p}, tt)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestEvaluateEndpoints(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= 12; n++ {
		pts := randomPoints(r, n)

		start, err := Evaluate(pts, 0)
		require.NoError(t, err)
		diff(t, pts[0], start, cmpopts.EquateApprox(0, eps))

		end, err := Evaluate(pts, 1)
		require.NoError(t, err)
		diff(t, pts[n-1], end, cmpopts.EquateApprox(0, eps))
	}
}

func TestEvaluateLinear(t *testing.T) {
	p0, p1 := geom.Pt(10, 20), geom.Pt(-30, 50)
	for _, tt := range []float64{0, 0.1, 0.5, 0.73, 1} {
		got, err := Evaluate([]geom.Point2{p0, p1}, tt)
		require.NoError(t, err)
		want := geom.Pt((1-tt)*p0.X+tt*p1.X, (1-tt)*p0.Y+tt*p1.Y)
		diff(t, want, got, cmpopts.EquateApprox(0, eps))
	}
}

func TestEvaluateQuadratic(t *testing.T) {
	// B(0.5) = 0.25 P0 + 0.5 P1 + 0.25 P2
	pts := []geom.Point2{{X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 0}}
	got, err := Evaluate(pts, 0.5)
	require.NoError(t, err)
	diff(t, geom.Pt(50, 50), got, cmpopts.EquateApprox(0, eps))
}

func TestEvaluateCubicMatchesBernstein(t *testing.T) {
	pts := []geom.Point2{{X: 0, Y: 0}, {X: 10, Y: 40}, {X: 60, Y: 40}, {X: 80, Y: 0}}
	for _, tt := range []float64{0.2, 0.4, 0.9} {
		u := 1 - tt
		b := [4]float64{u * u * u, 3 * u * u * tt, 3 * u * tt * tt, tt * tt * tt}
		var want geom.Point2
		for i, p := range pts {
			want.X += b[i] * p.X
			want.Y += b[i] * p.Y
		}
		got, err := Evaluate(pts, tt)
		require.NoError(t, err)
		diff(t, want, got, cmpopts.EquateApprox(0, 1e-9))
	}
}

func TestEvaluateConvexHull(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for n := 1; n <= 16; n++ {
		pts := randomPoints(r, n)
		minX, maxX := math.Inf(1), math.Inf(-1)
		minY, maxY := math.Inf(1), math.Inf(-1)
		for _, p := range pts {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		for i := 0; i <= 50; i++ {
			got, err := Evaluate(pts, float64(i)/50)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.X, minX-eps)
			assert.LessOrEqual(t, got.X, maxX+eps)
			assert.GreaterOrEqual(t, got.Y, minY-eps)
			assert.LessOrEqual(t, got.Y, maxY+eps)
		}
	}
}

func TestEvaluateDoesNotModifyInput(t *testing.T) {
	pts := []geom.Point2{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 0}}
	orig := slices.Clone(pts)
	_, err := Evaluate(pts, 0.3)
	require.NoError(t, err)
	diff(t, orig, pts)
}

func TestTessellateDegenerate(t *testing.T) {
	assert.Empty(t, Tessellate(nil, 0))
	assert.Empty(t, Tessellate([]geom.Point2{{X: 1, Y: 1}}, 10))
}

func TestTessellateLine(t *testing.T) {
	p0, p1 := geom.Pt(5, 5), geom.Pt(105, 55)
	got := Tessellate([]geom.Point2{p0, p1}, 0)
	require.Len(t, got, DefaultSteps+1)
	diff(t, p0, got[0], cmpopts.EquateApprox(0, eps))
	diff(t, p1, got[len(got)-1], cmpopts.EquateApprox(0, eps))
}

func TestTessellateSteps(t *testing.T) {
	pts := []geom.Point2{{X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 0}}
	got := Tessellate(pts, 4)
	require.Len(t, got, 5)
	for i, p := range got {
		want, err := Evaluate(pts, float64(i)/4)
		require.NoError(t, err)
		diff(t, want, p, cmpopts.EquateApprox(0, eps))
	}
}

func TestTessellateFresh(t *testing.T) {
	pts := []geom.Point2{{X: 0, Y: 0}, {X: 10, Y: 10}}
	a := Tessellate(pts, 10)
	a[0] = geom.Pt(99, 99)
	b := Tessellate(pts, 10)
	assert.Equal(t, geom.Pt(0, 0), b[0])
}

func TestSamplesStopsEarly(t *testing.T) {
	pts := []geom.Point2{{X: 0, Y: 0}, {X: 10, Y: 10}}
	count := 0
	for range Samples(pts, 100) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestStepsFor(t *testing.T) {
	assert.Equal(t, 1000, StepsFor(0.001))
	assert.Equal(t, 10, StepsFor(0.1))
	assert.Equal(t, 1, StepsFor(1))
	assert.Equal(t, DefaultSteps, StepsFor(0))
	assert.Equal(t, DefaultSteps, StepsFor(-1))
	assert.Equal(t, DefaultSteps, StepsFor(2))
	assert.Equal(t, DefaultSteps, StepsFor(math.NaN()))

	assert.Equal(t, MaxSteps, StepsFor(1.0/MaxSteps))
	assert.Equal(t, MaxSteps, StepsFor(1e-9))
	assert.Equal(t, MaxSteps, StepsFor(math.SmallestNonzeroFloat64))
}

func TestTessellateCapsSteps(t *testing.T) {
	line := []geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 1}}
	assert.Len(t, Tessellate(line, 1_000_000_000), MaxSteps+1)

	count := 0
	for range Samples(line, MaxSteps*10) {
		count++
	}
	assert.Equal(t, MaxSteps+1, count)
}
