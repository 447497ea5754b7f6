package topo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brep/pkg/geom"
)

// hasFinding reports whether findings contains one for id whose message
// contains substr.
func hasFinding(findings []ValidationError, id ID, substr string) bool {
	for _, f := range findings {
		if f.ID == id && strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanModel(t *testing.T) {
	m, _ := unitSquare(t)
	result := ValidateAll(m)
	assert.True(t, result.OK())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateDanglingReference(t *testing.T) {
	m, plane := unitSquare(t)
	loop := m.FaceLoop(plane)
	m.AddUse(loop, Forward, 999)
	m.AddHelper(plane, 998)
	m.Embed(plane, 997)

	errs := Validate(m)
	assert.True(t, hasFinding(errs, loop, "used reference 999 does not exist"))
	assert.True(t, hasFinding(errs, plane, "helper reference 998"))
	assert.True(t, hasFinding(errs, plane, "embedded reference 997"))

	result := ValidateAll(m)
	assert.False(t, result.OK())
}

func TestValidateCycle(t *testing.T) {
	m := New()
	a := m.NewGroup()
	b := m.NewGroup()
	m.AddUse(a, Forward, b)
	m.Embed(b, a)

	errs := Validate(m)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "cycle detected") {
			found = true
			assert.Equal(t, SeverityError, e.Severity)
		}
	}
	assert.True(t, found, "expected a cycle finding, got %v", errs)
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name   string
		build  func(m *Model) ID
		substr string
	}{
		{
			name: "line with one endpoint",
			build: func(m *Model) ID {
				l := m.NewEntity(KindLine)
				m.AddUse(l, Forward, m.NewPointDefault(geom.V(0, 0, 0)))
				return l
			},
			substr: "has 1 endpoints, want 2",
		},
		{
			name: "line endpoint is not a point",
			build: func(m *Model) ID {
				p := m.NewPointDefault(geom.V(0, 0, 0))
				return m.NewLine(p, m.NewLoop())
			},
			substr: "is a loop",
		},
		{
			name: "arc without centre",
			build: func(m *Model) ID {
				a := m.NewLine(m.NewPointDefault(geom.V(1, 0, 0)), m.NewPointDefault(geom.V(0, 1, 0)))
				m.MustEntity(a).Kind = KindArc
				return a
			},
			substr: "arc has 0 helpers, want 1",
		},
		{
			name: "plane without loop",
			build: func(m *Model) ID {
				return m.NewPlane(0)
			},
			substr: "has no boundary loop",
		},
		{
			name: "volume bounded by a loop",
			build: func(m *Model) ID {
				return m.NewVolume(m.NewLoop())
			},
			substr: "not a shell",
		},
		{
			name: "loop holding a point",
			build: func(m *Model) ID {
				l := m.NewLoop()
				m.AddUse(l, Forward, m.NewPointDefault(geom.V(0, 0, 0)))
				return l
			},
			substr: "not an edge",
		},
		{
			name: "shell holding a loop",
			build: func(m *Model) ID {
				s := m.NewShell()
				m.AddUse(s, Forward, m.NewLoop())
				return s
			},
			substr: "not a face",
		},
		{
			name: "group mixing dimensions",
			build: func(m *Model) ID {
				p := m.NewPointDefault(geom.V(0, 0, 0))
				q := m.NewPointDefault(geom.V(1, 0, 0))
				g := m.NewGroup()
				m.AddToGroup(g, p)
				m.AddToGroup(g, m.NewLine(p, q))
				return g
			},
			substr: "mixes dimension 0 and 1",
		},
		{
			name: "group holding an aggregate",
			build: func(m *Model) ID {
				g := m.NewGroup()
				m.AddToGroup(g, m.NewShell())
				return g
			},
			substr: "not a cell",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			id := tt.build(m)
			errs := Validate(m)
			assert.True(t, hasFinding(errs, id, tt.substr), "findings: %v", errs)
		})
	}
}

func TestValidateDisconnectedLoopWarns(t *testing.T) {
	m := New()
	pts := m.NewPoints([]geom.Vec{geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(1, 1, 0), geom.V(0, 1, 0)})
	loop := m.NewLoop()
	m.AddUse(loop, Forward, m.NewLine(pts[0], pts[1]))
	m.AddUse(loop, Forward, m.NewLine(pts[2], pts[3]))

	result := ValidateAll(m)
	assert.True(t, result.OK(), "a scrambled loop is not an error")
	assert.True(t, hasFinding(result.Warnings, loop, "not connected between uses 0 and 1"))
}

func TestValidateReverseUsesChain(t *testing.T) {
	m := New()
	pts := m.NewPoints([]geom.Vec{geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(0, 1, 0)})
	loop := m.NewLoop()
	m.AddUse(loop, Forward, m.NewLine(pts[0], pts[1]))
	m.AddUse(loop, Reverse, m.NewLine(pts[2], pts[1]))
	m.AddUse(loop, Forward, m.NewLine(pts[2], pts[0]))
	m.NewPlane(loop)

	result := ValidateAll(m)
	assert.True(t, result.OK())
	assert.Empty(t, result.Warnings)
}

func TestValidateGeometryWarnings(t *testing.T) {
	m := New()
	p := m.NewPoint(geom.V(0, 0, 0), 0)
	zero := m.NewLine(p, p)

	c := m.NewPointDefault(geom.V(0, 0, 0))
	a := m.NewPointDefault(geom.V(1, 0, 0))
	b := m.NewPointDefault(geom.V(0, 2, 0))
	arc := m.NewArc(a, c, b)
	semi := m.NewArc(a, c, m.NewPointDefault(geom.V(-1, 0, 0)))

	col := m.NewPoints([]geom.Vec{geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(2, 0, 0)})
	loop := m.NewLoop()
	m.AddUse(loop, Forward, m.NewLine(col[0], col[1]))
	m.AddUse(loop, Forward, m.NewLine(col[1], col[2]))
	m.AddUse(loop, Forward, m.NewLine(col[2], col[0]))
	plane := m.NewPlane(loop)

	result := ValidateAll(m)
	require.True(t, result.OK(), "errors: %v", result.Errors)
	assert.True(t, hasFinding(result.Warnings, p, "mesh size"))
	assert.True(t, hasFinding(result.Warnings, zero, "zero length"))
	assert.True(t, hasFinding(result.Warnings, arc, "arc radii differ"))
	assert.True(t, hasFinding(result.Warnings, semi, "collinear with its centre"))
	assert.True(t, hasFinding(result.Warnings, plane, "does not span a plane"))
}

func TestValidateSkipsGeometryOnStructuralErrors(t *testing.T) {
	m := New()
	p := m.NewPoint(geom.V(0, 0, 0), -1)
	l := m.NewEntity(KindLine)
	m.AddUse(l, Forward, p)

	result := ValidateAll(m)
	assert.False(t, result.OK())
	assert.Empty(t, result.Warnings)
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{ID: 7, Message: "broken", Severity: SeverityError}
	assert.Equal(t, "[error] entity 7: broken", e.Error())
	w := ValidationError{Message: "model", Severity: SeverityWarning}
	assert.Equal(t, "[warning] model", w.Error())
}
