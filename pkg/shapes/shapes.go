// Package shapes builds common primitives (lines, circles, ellipses,
// polygons, squares, disks, cubes and spheres) by composing topology
// constructors and extrusions. All points get the model's default mesh size.
package shapes

import (
	"fmt"
	"math"

	"github.com/chazu/brep/pkg/extrude"
	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
)

// CubeSide indexes the faces of a cube built by Cube, in the order the face
// extrusion puts them in the cube's shell.
type CubeSide int

const (
	CubeBottom CubeSide = iota
	CubeTop
	CubeFront
	CubeRight
	CubeBack
	CubeLeft
)

var cubeSideNames = [...]string{"bottom", "top", "front", "right", "back", "left"}

func (s CubeSide) String() string {
	if s < 0 || int(s) >= len(cubeSideNames) {
		return fmt.Sprintf("CubeSide(%d)", int(s))
	}
	return cubeSideNames[s]
}

// ParseCubeSide maps a side name to its index.
func ParseCubeSide(name string) (CubeSide, bool) {
	for i, n := range cubeSideNames {
		if n == name {
			return CubeSide(i), true
		}
	}
	return 0, false
}

// must unwraps results of extrusions whose inputs were built here and so
// cannot fail.
func must(ext extrude.Extruded, err error) extrude.Extruded {
	if err != nil {
		panic(fmt.Sprintf("shapes: %v", err))
	}
	return ext
}

// ---------------------------------------------------------------------------
// Curves and loops
// ---------------------------------------------------------------------------

// LineFrom creates a line from origin to origin+span.
func LineFrom(m *topo.Model, origin, span geom.Vec) topo.ID {
	p := m.NewPointDefault(origin)
	return must(extrude.Point(m, p, geom.Translate(span))).Middle
}

// LineBetween creates a line from a to b.
func LineBetween(m *topo.Model, a, b geom.Vec) topo.ID {
	return LineFrom(m, a, b.Sub(a))
}

// Circle creates a loop of four quarter arcs sharing one centre point. The
// first arc starts at center+x and the loop turns about normal by the
// right hand rule.
func Circle(m *topo.Model, center, normal, x geom.Vec) topo.ID {
	r := geom.Rotation(normal, math.Pi/2)
	c := m.NewPointDefault(center)
	var ring [4]topo.ID
	for i := range ring {
		ring[i] = m.NewPointDefault(center.Add(x))
		x = r.MulPosition(x)
	}
	loop := m.NewLoop()
	for i := range ring {
		m.AddUse(loop, topo.Forward, m.NewArc(ring[i], c, ring[(i+1)%4]))
	}
	return loop
}

// EllipseLoop creates a loop of four quarter ellipse arcs through
// center+major, center+minor, center-major and center-minor. The arcs share
// the centre and a major-axis point at center+major/2.
func EllipseLoop(m *topo.Model, center, major, minor geom.Vec) topo.ID {
	c := m.NewPointDefault(center)
	ring := [4]topo.ID{
		m.NewPointDefault(center.Add(major)),
		m.NewPointDefault(center.Add(minor)),
		m.NewPointDefault(center.Sub(major)),
		m.NewPointDefault(center.Sub(minor)),
	}
	mp := m.NewPointDefault(center.Add(major.MulScalar(0.5)))
	loop := m.NewLoop()
	for i := range ring {
		m.AddUse(loop, topo.Forward, m.NewEllipseArc(ring[i], c, mp, ring[(i+1)%4]))
	}
	return loop
}

// Polyline creates a closed loop of lines through pts.
func Polyline(m *topo.Model, pts []topo.ID) topo.ID {
	loop := m.NewLoop()
	for i := range pts {
		m.AddUse(loop, topo.Forward, m.NewLine(pts[i], pts[(i+1)%len(pts)]))
	}
	return loop
}

// PolylineVecs creates a closed loop of lines through new points at vs.
func PolylineVecs(m *topo.Model, vs []geom.Vec) topo.ID {
	return Polyline(m, m.NewPoints(vs))
}

// SplineThrough creates a spline through new points at vs.
func SplineThrough(m *topo.Model, vs []geom.Vec) (topo.ID, error) {
	if len(vs) < 2 {
		return 0, fmt.Errorf("shapes: spline needs at least 2 points, got %d: %w", len(vs), topo.ErrPrecondition)
	}
	return m.NewSpline(m.NewPoints(vs))
}

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

// Polygon creates a plane bounded by a closed polyline through vs.
func Polygon(m *topo.Model, vs []geom.Vec) topo.ID {
	return m.NewPlane(PolylineVecs(m, vs))
}

// Square creates the parallelogram plane spanned by x and y from origin,
// by sweeping the edge along x by y.
func Square(m *topo.Model, origin, x, y geom.Vec) topo.ID {
	return must(extrude.EdgeBy(m, LineFrom(m, origin, x), geom.Translate(y))).Middle
}

// Disk creates a plane bounded by Circle(center, normal, x).
func Disk(m *topo.Model, center, normal, x geom.Vec) topo.ID {
	return m.NewPlane(Circle(m, center, normal, x))
}

// EllipticalDisk creates a plane bounded by EllipseLoop(center, major,
// minor).
func EllipticalDisk(m *topo.Model, center, major, minor geom.Vec) topo.ID {
	return m.NewPlane(EllipseLoop(m, center, major, minor))
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// Cube creates the parallelepiped spanned by x, y and z from origin. Its
// shell faces are ordered as listed by CubeSide.
func Cube(m *topo.Model, origin, x, y, z geom.Vec) topo.ID {
	return must(extrude.Face(m, Square(m, origin, x, y), geom.Translate(z))).Middle
}

// CubeFace returns one face of a cube built by Cube.
func CubeFace(m *topo.Model, cube topo.ID, side CubeSide) (topo.ID, error) {
	if _, err := m.Require("cube face", cube, topo.KindVolume); err != nil {
		return 0, err
	}
	faces := m.UsedRefs(m.VolumeShell(cube))
	if side < 0 || int(side) >= len(faces) {
		return 0, fmt.Errorf("cube face: volume %d has %d faces, no %s: %w", cube, len(faces), side, topo.ErrPrecondition)
	}
	return faces[side], nil
}

// hemisphere caps a four-arc circle loop with four ruled faces meeting at a
// pole on the side of the circle's normal (Forward) or opposite it
// (Reverse), appending them to shell.
func hemisphere(m *topo.Model, circle, center, shell topo.ID, dir topo.Direction) {
	uses := m.Entity(circle).Used
	normal := m.ArcNormal(uses[0].Ref)
	if dir == topo.Reverse {
		normal = normal.Neg()
	}
	ring := m.LoopPoints(circle)
	c := m.Pos(center)
	radius := geom.Norm(m.Pos(ring[0]).Sub(c))
	pole := m.NewPointDefault(c.Add(normal.MulScalar(radius)))

	var inward [4]topo.ID
	for i := range inward {
		inward[i] = m.NewArc(ring[i], center, pole)
	}
	for i := range inward {
		next := inward[(i+1)%4]
		loop := m.NewLoop()
		m.AddUse(loop, uses[i].Dir.Xor(dir), uses[i].Ref)
		if dir == topo.Forward {
			m.AddUse(loop, topo.Forward, next)
			m.AddUse(loop, topo.Reverse, inward[i])
		} else {
			m.AddUse(loop, topo.Forward, inward[i])
			m.AddUse(loop, topo.Reverse, next)
		}
		m.AddUse(shell, topo.Forward, m.NewRuled(loop))
	}
}

// Sphere creates a closed shell of eight ruled faces: two hemispheres
// sharing the circle Circle(center, normal, x).
func Sphere(m *topo.Model, center, normal, x geom.Vec) topo.ID {
	circle := Circle(m, center, normal, x)
	c := m.ArcCenter(m.Entity(circle).Used[0].Ref)
	shell := m.NewShell()
	hemisphere(m, circle, c, shell, topo.Forward)
	hemisphere(m, circle, c, shell, topo.Reverse)
	return shell
}

// Ball creates the volume bounded by Sphere(center, normal, x).
func Ball(m *topo.Model, center, normal, x geom.Vec) topo.ID {
	return m.NewVolume(Sphere(m, center, normal, x))
}
