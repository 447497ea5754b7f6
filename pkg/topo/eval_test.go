package topo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brep/pkg/geom"
)

const tol = 1e-9

func assertNear(t *testing.T, want, got geom.Vec) {
	t.Helper()
	assert.True(t, geom.Near(want, got, tol), "want %v, got %v", want, got)
}

func TestEvalPointAndLine(t *testing.T) {
	m := New()
	a := m.NewPointDefault(geom.V(0, 0, 0))
	b := m.NewPointDefault(geom.V(2, 4, 6))
	l := m.NewLine(a, b)

	got, err := m.Eval(a, 0.7)
	require.NoError(t, err)
	assertNear(t, geom.V(0, 0, 0), got)

	got, err = m.Eval(l, 0.5)
	require.NoError(t, err)
	assertNear(t, geom.V(1, 2, 3), got)

	got, err = m.Eval(l, 1)
	require.NoError(t, err)
	assertNear(t, geom.V(2, 4, 6), got)
}

func TestEvalArcIsOffsetByCentre(t *testing.T) {
	m := New()
	c := m.NewPointDefault(geom.V(1, 1, 0))
	a := m.NewPointDefault(geom.V(2, 1, 0))
	b := m.NewPointDefault(geom.V(1, 2, 0))
	arc := m.NewArc(a, c, b)

	assertNear(t, geom.V(0, 0, 1), m.ArcNormal(arc))

	tests := []struct {
		u    float64
		want geom.Vec
	}{
		{0, geom.V(2, 1, 0)},
		{0.5, geom.V(1+math.Sqrt2/2, 1+math.Sqrt2/2, 0)},
		{1, geom.V(1, 2, 0)},
	}
	for _, tt := range tests {
		got, err := m.Eval(arc, tt.u)
		require.NoError(t, err)
		assertNear(t, tt.want, got)
	}
}

func TestEvalEllipse(t *testing.T) {
	m := New()
	c := m.NewPointDefault(geom.V(0, 0, 0))
	major := m.NewPointDefault(geom.V(1, 0, 0))
	onMajor := m.NewPointDefault(geom.V(2, 0, 0))
	onMinor := m.NewPointDefault(geom.V(0, 1, 0))

	fromMinor := m.NewEllipseArc(onMinor, c, major, onMajor)
	fromMajor := m.NewEllipseArc(onMajor, c, major, onMinor)

	for _, e := range []ID{fromMinor, fromMajor} {
		start, err := m.Eval(e, 0)
		require.NoError(t, err)
		assertNear(t, m.Pos(m.EdgePoint(e, 0)), start)

		end, err := m.Eval(e, 1)
		require.NoError(t, err)
		assertNear(t, m.Pos(m.EdgePoint(e, 1)), end)

		mid, err := m.Eval(e, 0.5)
		require.NoError(t, err)
		assertNear(t, geom.V(math.Sqrt2, math.Sqrt2/2, 0), mid)
	}
}

func TestEvalDegenerateEllipse(t *testing.T) {
	m := New()
	c := m.NewPointDefault(geom.V(0, 0, 0))
	major := m.NewPointDefault(geom.V(1, 0, 0))
	off := m.NewPointDefault(geom.V(1, 1, 0))
	onMinor := m.NewPointDefault(geom.V(0, 1, 0))
	onMajor := m.NewPointDefault(geom.V(2, 0, 0))

	_, err := m.Eval(m.NewEllipseArc(off, c, major, onMinor), 0.5)
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = m.Eval(m.NewEllipseArc(onMajor, c, major, off), 0.5)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestEvalDegenerateArc(t *testing.T) {
	m := New()
	c := m.NewPointDefault(geom.V(0, 0, 0))
	east := m.NewPointDefault(geom.V(1, 0, 0))
	west := m.NewPointDefault(geom.V(-1, 0, 0))

	tests := []struct {
		name       string
		start, end ID
	}{
		{"semicircle", east, west},
		{"starts on centre", c, east},
		{"ends on centre", east, c},
		{"zero sweep", east, east},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Eval(m.NewArc(tt.start, c, tt.end), 0.5)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

func TestEvalRejects(t *testing.T) {
	m, plane := unitSquare(t)
	_, err := m.Eval(plane, 0)
	assert.ErrorIs(t, err, ErrPrecondition)
	_, err = m.Eval(999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaneNormal(t *testing.T) {
	m, plane := unitSquare(t)
	n, err := m.PlaneNormal(plane, tol)
	require.NoError(t, err)
	assertNear(t, geom.V(0, 0, 1), n)

	_, err = m.PlaneNormal(m.FaceLoop(plane), tol)
	assert.ErrorIs(t, err, ErrPrecondition)

	// Leading duplicate points are skipped.
	m2 := New()
	pts := m2.NewPoints([]geom.Vec{geom.V(0, 0, 0), geom.V(0, 0, 0), geom.V(0, 1, 0), geom.V(0, 1, 1)})
	loop := m2.NewLoop()
	for i := range pts {
		m2.AddUse(loop, Forward, m2.NewLine(pts[i], pts[(i+1)%len(pts)]))
	}
	n, err = m2.PlaneNormal(m2.NewPlane(loop), tol)
	require.NoError(t, err)
	assertNear(t, geom.V(1, 0, 0), n)

	m3 := New()
	_, err = m3.PlaneNormal(m3.NewPlane(m3.NewLoop()), tol)
	assert.ErrorIs(t, err, ErrDegenerate)
}
