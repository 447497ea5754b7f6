package topo

import (
	"fmt"
	"math"

	"github.com/chazu/brep/pkg/geom"
)

// ArcNormal returns the unit normal of the plane containing an arc,
// oriented by the right hand rule from start to end.
func (m *Model) ArcNormal(arc ID) geom.Vec {
	c := m.Pos(m.ArcCenter(arc))
	ca := m.Pos(m.EdgePoint(arc, 0)).Sub(c)
	cb := m.Pos(m.EdgePoint(arc, 1)).Sub(c)
	return geom.Normalize(ca.Cross(cb))
}

// PlaneNormal returns the unit normal of a face, computed from the points
// of its outer loop. Vectors shorter than eps are ignored.
func (m *Model) PlaneNormal(face ID, eps float64) (geom.Vec, error) {
	if _, err := m.Require("plane normal", face, KindPlane, KindRuled); err != nil {
		return geom.Vec{}, err
	}
	pts := m.LoopPoints(m.FaceLoop(face))
	if len(pts) == 0 {
		return geom.Vec{}, fmt.Errorf("plane normal: face %d has an empty loop: %w", face, ErrDegenerate)
	}
	origin := m.Pos(pts[0])
	i := 1
	var first geom.Vec
	for ; i < len(pts); i++ {
		first = m.Pos(pts[i]).Sub(origin)
		if geom.Norm(first) >= eps {
			break
		}
	}
	for k := i + 1; k < len(pts); k++ {
		second := m.Pos(pts[k]).Sub(origin)
		if geom.Norm(second) < eps {
			continue
		}
		n := first.Cross(second)
		if geom.Norm(n) >= eps {
			return geom.Normalize(n), nil
		}
	}
	return geom.Vec{}, fmt.Errorf("plane normal: face %d has collinear boundary points: %w", face, ErrDegenerate)
}

// Eval evaluates a point or curve at parameter u in [0, 1]. Points ignore
// u. Ellipse arcs must be quarter arcs with one endpoint on the major axis
// and the other on the minor axis.
func (m *Model) Eval(id ID, u float64) (geom.Vec, error) {
	e, err := m.lookup("eval", id)
	if err != nil {
		return geom.Vec{}, err
	}

	switch e.Kind {
	case KindPoint:
		return m.Pos(id), nil

	case KindLine:
		a := m.Pos(m.EdgePoint(id, 0))
		b := m.Pos(m.EdgePoint(id, 1))
		return a.MulScalar(1 - u).Add(b.MulScalar(u)), nil

	case KindArc:
		c := m.Pos(m.ArcCenter(id))
		ca := m.Pos(m.EdgePoint(id, 0)).Sub(c)
		cb := m.Pos(m.EdgePoint(id, 1)).Sub(c)
		ra, rb := geom.Norm(ca), geom.Norm(cb)
		if ra < GeometryTolerance || rb < GeometryTolerance {
			return geom.Vec{}, fmt.Errorf("eval: arc %d has an endpoint on its centre: %w", id, ErrDegenerate)
		}
		if geom.Norm(ca.Cross(cb)) < GeometryTolerance*ra*rb {
			return geom.Vec{}, fmt.Errorf("eval: arc %d has endpoints collinear with its centre: %w", id, ErrDegenerate)
		}
		cosAng := ca.Dot(cb) / (ra * rb)
		full := math.Acos(math.Max(-1, math.Min(1, cosAng)))
		return c.Add(geom.RotateAbout(m.ArcNormal(id), full*u, ca)), nil

	case KindEllipse:
		c := m.Pos(m.EllipseCenter(id))
		cm := m.Pos(m.EllipseMajor(id)).Sub(c)
		ca := m.Pos(m.EdgePoint(id, 0)).Sub(c)
		cb := m.Pos(m.EdgePoint(id, 1)).Sub(c)
		if !geom.AreParallel(cb, cm) {
			if !geom.AreParallel(ca, cm) {
				return geom.Vec{}, fmt.Errorf("eval: ellipse %d has no endpoint on its major axis: %w", id, ErrDegenerate)
			}
			ca, cb = cb, ca
			u = 1 - u
		}
		if !geom.ArePerpendicular(ca, cm) {
			return geom.Vec{}, fmt.Errorf("eval: ellipse %d has no endpoint on its minor axis: %w", id, ErrDegenerate)
		}
		ang := u * math.Pi / 2
		return c.Add(ca.MulScalar(math.Cos(ang))).Add(cb.MulScalar(math.Sin(ang))), nil

	default:
		return geom.Vec{}, fmt.Errorf("eval: cannot evaluate a %s: %w", e.Kind, ErrPrecondition)
	}
}
