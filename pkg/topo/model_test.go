package topo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brep/pkg/geom"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// unitSquare builds the unit square in the XY plane as four lines, a loop
// and a plane, and returns the model and the plane.
func unitSquare(t *testing.T) (*Model, ID) {
	t.Helper()
	m := New()
	pts := m.NewPoints([]geom.Vec{
		geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(1, 1, 0), geom.V(0, 1, 0),
	})
	loop := m.NewLoop()
	for i := range pts {
		m.AddUse(loop, Forward, m.NewLine(pts[i], pts[(i+1)%len(pts)]))
	}
	return m, m.NewPlane(loop)
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

func TestNewModel(t *testing.T) {
	m := New()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, DefaultMeshSize, m.DefaultSize)
	assert.Nil(t, m.Entity(0), "zero ID names no entity")
	assert.Nil(t, m.Entity(1))
}

func TestIDsAreMonotonic(t *testing.T) {
	m := New()
	var prev ID
	for i := 0; i < 20; i++ {
		id := m.NewEntity(Kind(i % NumKinds))
		require.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 20, m.Len())
	assert.Equal(t, ID(1), m.IDs()[0])
	assert.Len(t, m.IDs(), 20)
}

func TestNewEntityIsEmpty(t *testing.T) {
	m := New()
	id := m.NewEntity(KindLoop)
	e := m.Entity(id)
	require.NotNil(t, e)
	assert.Equal(t, KindLoop, e.Kind)
	assert.Empty(t, e.Used)
	assert.Empty(t, e.Helpers)
	assert.Empty(t, e.Embedded)
}

func TestReferenceLists(t *testing.T) {
	m := New()
	a := m.NewPointDefault(geom.V(0, 0, 0))
	b := m.NewPointDefault(geom.V(1, 0, 0))
	c := m.NewPointDefault(geom.V(0, 1, 0))
	arc := m.NewArc(a, c, b)
	m.Embed(arc, c)

	e := m.Entity(arc)
	assert.Equal(t, []Use{{Forward, a}, {Forward, b}}, e.Used)
	assert.Equal(t, []ID{c}, e.Helpers)
	assert.Equal(t, []ID{c}, e.Embedded)
	assert.Equal(t, c, m.ArcCenter(arc))
	assert.Equal(t, a, m.EdgePoint(arc, 0))
	assert.Equal(t, b, m.EdgePoint(arc, 1))
}

func TestPointPayload(t *testing.T) {
	m := New()
	m.DefaultSize = 0.5
	p := m.NewPointDefault(geom.V(1, 2, 3))
	q := m.NewPoint(geom.V(4, 5, 6), 0.25)

	pd, ok := m.Point(p)
	require.True(t, ok)
	assert.Equal(t, 0.5, pd.Size)
	assert.Equal(t, geom.V(1, 2, 3), pd.Pos)

	qd, _ := m.Point(q)
	assert.Equal(t, 0.25, qd.Size)

	m.SetPointPos(q, geom.V(0, 0, 0))
	assert.Equal(t, geom.V(0, 0, 0), m.Pos(q))

	line := m.NewLine(p, q)
	_, ok = m.Point(line)
	assert.False(t, ok, "a line has no point payload")
	assert.Panics(t, func() { m.Pos(line) })
}

func TestDirection(t *testing.T) {
	assert.Equal(t, Reverse, Forward.Flip())
	assert.Equal(t, Forward, Reverse.Flip())
	assert.Equal(t, Forward, Reverse.Xor(Reverse))
	assert.Equal(t, Reverse, Forward.Xor(Reverse))
	assert.Equal(t, Forward, Forward.Xor(Forward))
	assert.Equal(t, "reverse", Reverse.String())
}

func TestKindTable(t *testing.T) {
	tests := []struct {
		kind     Kind
		dim      int
		cell     bool
		face     bool
		boundary bool
		name     string
	}{
		{KindPoint, 0, true, false, false, "point"},
		{KindLine, 1, true, false, false, "line"},
		{KindArc, 1, true, false, false, "arc"},
		{KindEllipse, 1, true, false, false, "ellipse"},
		{KindSpline, 1, true, false, false, "spline"},
		{KindPlane, 2, true, true, false, "plane"},
		{KindRuled, 2, true, true, false, "ruled"},
		{KindVolume, 3, true, false, false, "volume"},
		{KindLoop, -1, false, false, true, "loop"},
		{KindShell, -1, false, false, true, "shell"},
		{KindGroup, -1, false, false, false, "group"},
		{Kind(99), -1, false, false, false, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dim, tt.kind.Dim())
			assert.Equal(t, tt.cell, tt.kind.IsCell())
			assert.Equal(t, tt.face, tt.kind.IsFace())
			assert.Equal(t, tt.boundary, tt.kind.IsBoundary())
			assert.Equal(t, tt.name, tt.kind.String())
		})
	}

	k, ok := BoundaryKind(3)
	assert.True(t, ok)
	assert.Equal(t, KindShell, k)
	k, ok = BoundaryKind(2)
	assert.True(t, ok)
	assert.Equal(t, KindLoop, k)
	_, ok = BoundaryKind(1)
	assert.False(t, ok)
}

func TestRequire(t *testing.T) {
	m, plane := unitSquare(t)

	e, err := m.Require("test", plane, KindPlane, KindRuled)
	require.NoError(t, err)
	assert.Equal(t, plane, e.ID)

	_, err = m.Require("test", plane, KindVolume)
	assert.True(t, errors.Is(err, ErrPrecondition))

	_, err = m.Require("test", 999, KindVolume)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewSplineNeedsTwoPoints(t *testing.T) {
	m := New()
	p := m.NewPointDefault(geom.V(0, 0, 0))
	_, err := m.NewSpline([]ID{p})
	assert.ErrorIs(t, err, ErrPrecondition)

	pts := m.NewPoints([]geom.Vec{geom.V(0, 0, 0), geom.V(1, 1, 0), geom.V(2, 0, 0), geom.V(3, 1, 0)})
	s, err := m.NewSpline(pts)
	require.NoError(t, err)
	e := m.Entity(s)
	assert.Equal(t, []Use{{Forward, pts[0]}, {Forward, pts[3]}}, e.Used)
	assert.Equal(t, []ID{pts[1], pts[2]}, e.Helpers)
}

func TestAccessors(t *testing.T) {
	m, plane := unitSquare(t)
	loop := m.FaceLoop(plane)
	assert.Equal(t, KindLoop, m.Kind(loop))

	pts := m.LoopPoints(loop)
	require.Len(t, pts, 4)
	assert.Equal(t, geom.V(0, 0, 0), m.Pos(pts[0]))
	assert.Equal(t, geom.V(1, 1, 0), m.Pos(pts[2]))

	dir, err := m.UsedDir(plane, loop)
	require.NoError(t, err)
	assert.Equal(t, Forward, dir)

	m.AddHoleToFace(plane, loop)
	assert.Equal(t, Reverse, m.Entity(plane).Used[1].Dir)

	_, err = m.UsedDir(plane, pts[0])
	assert.ErrorIs(t, err, ErrPrecondition)

	assert.Len(t, m.UsedRefs(loop), 4)
}
