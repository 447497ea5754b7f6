// Package extrude sweeps entities of a topology model along a transform.
//
// Every operator takes a starting entity and returns an Extruded pair: Middle
// is the new entity one dimension higher covering the swept region, and End
// is a copy of the start moved by the transform. Loops, faces and face groups
// sweep their points and edges through a single pass so that an entity
// shared by several boundaries is swept exactly once and the result stays
// watertight.
package extrude

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
)

// Extruded is the result of sweeping one entity.
type Extruded struct {
	Middle topo.ID // swept entity, one dimension higher than the start
	End    topo.ID // transformed copy of the start
}

// PassStats counts the entities swept by one pass.
type PassStats struct {
	Points int
	Edges  int
}

// pass holds the extrusions computed while sweeping one structure. It
// replaces per-entity scratch marks: the maps live for a single call.
type pass struct {
	m      *topo.Model
	tr     geom.Transform
	points map[topo.ID]Extruded
	edges  map[topo.ID]Extruded
}

func newPass(m *topo.Model, tr geom.Transform) *pass {
	return &pass{
		m:      m,
		tr:     tr,
		points: make(map[topo.ID]Extruded),
		edges:  make(map[topo.ID]Extruded),
	}
}

func (p *pass) stats() PassStats {
	return PassStats{Points: len(p.points), Edges: len(p.edges)}
}

// point returns the extrusion of pt, sweeping it on first use.
func (p *pass) point(pt topo.ID) (Extruded, error) {
	if ext, ok := p.points[pt]; ok {
		return ext, nil
	}
	ext, err := Point(p.m, pt, p.tr)
	if err != nil {
		return Extruded{}, err
	}
	p.points[pt] = ext
	return ext, nil
}

// edge returns the extrusion of e, sweeping it (and any endpoint not yet
// swept) on first use.
func (p *pass) edge(e topo.ID) (Extruded, error) {
	if ext, ok := p.edges[e]; ok {
		return ext, nil
	}
	if err := checkEdge(p.m, e); err != nil {
		return Extruded{}, err
	}
	left, err := p.point(p.m.EdgePoint(e, 0))
	if err != nil {
		return Extruded{}, err
	}
	right, err := p.point(p.m.EdgePoint(e, 1))
	if err != nil {
		return Extruded{}, err
	}
	ext, err := Edge(p.m, e, p.tr, left, right)
	if err != nil {
		return Extruded{}, err
	}
	p.edges[e] = ext
	return ext, nil
}

// seed sweeps the points and then the edges of ids, in order. Seeding the
// whole closure up front keeps entity creation order independent of the
// order in which boundaries are later visited.
func (p *pass) seed(ids []topo.ID) error {
	for _, id := range p.m.FilterPoints(ids) {
		if _, err := p.point(id); err != nil {
			return err
		}
	}
	for _, id := range p.m.FilterByDim(ids, 1) {
		if _, err := p.edge(id); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Points and edges
// ---------------------------------------------------------------------------

// Point sweeps a point: End is a new point at tr(pos) with the same mesh
// size, and Middle is the line from the point to End.
func Point(m *topo.Model, pt topo.ID, tr geom.Transform) (Extruded, error) {
	if _, err := m.Require("extrude point", pt, topo.KindPoint); err != nil {
		return Extruded{}, err
	}
	pd, _ := m.Point(pt)
	end := m.NewPoint(tr(pd.Pos), pd.Size)
	return Extruded{Middle: m.NewLine(pt, end), End: end}, nil
}

func checkEdge(m *topo.Model, e topo.ID) error {
	ent, err := m.Require("extrude edge", e, topo.KindLine, topo.KindArc, topo.KindEllipse, topo.KindSpline)
	if err != nil {
		return err
	}
	if len(ent.Used) != 2 {
		return fmt.Errorf("extrude edge: %s %d has %d endpoints: %w", ent.Kind, e, len(ent.Used), topo.ErrPrecondition)
	}
	return nil
}

// Edge sweeps an edge whose endpoints were already swept to left (start)
// and right (end). End is the same kind of curve between the swept
// endpoints, with its helper points moved by tr. Middle is a face bounded by
// the loop (e, right.Middle, -End, -left.Middle): a Plane for a line and a
// ruled surface for any other curve.
func Edge(m *topo.Model, e topo.ID, tr geom.Transform, left, right Extruded) (Extruded, error) {
	if err := checkEdge(m, e); err != nil {
		return Extruded{}, err
	}
	kind := m.Kind(e)

	loop := m.NewLoop()
	m.AddUse(loop, topo.Forward, e)
	m.AddUse(loop, topo.Forward, right.Middle)

	var end topo.ID
	switch kind {
	case topo.KindLine:
		end = m.NewLine(left.End, right.End)
	case topo.KindArc:
		end = m.NewArc(left.End, moved(m, m.ArcCenter(e), tr), right.End)
	case topo.KindEllipse:
		c := moved(m, m.EllipseCenter(e), tr)
		major := moved(m, m.EllipseMajor(e), tr)
		end = m.NewEllipseArc(left.End, c, major, right.End)
	case topo.KindSpline:
		helpers := m.Entity(e).Helpers
		pts := make([]topo.ID, 0, len(helpers)+2)
		pts = append(pts, left.End)
		for _, h := range helpers {
			pts = append(pts, moved(m, h, tr))
		}
		pts = append(pts, right.End)
		var err error
		if end, err = m.NewSpline(pts); err != nil {
			return Extruded{}, err
		}
	}

	m.AddUse(loop, topo.Reverse, end)
	m.AddUse(loop, topo.Reverse, left.Middle)

	faceKind := topo.KindRuled
	if kind == topo.KindLine {
		faceKind = topo.KindPlane
	}
	return Extruded{Middle: m.NewFace(faceKind, loop), End: end}, nil
}

// moved creates a copy of point pt at tr(pos) with the same mesh size.
func moved(m *topo.Model, pt topo.ID, tr geom.Transform) topo.ID {
	pd, ok := m.Point(pt)
	if !ok {
		panic(fmt.Sprintf("extrude: helper %d is not a point", pt))
	}
	return m.NewPoint(tr(pd.Pos), pd.Size)
}

// EdgeBy sweeps an edge together with its two endpoints.
func EdgeBy(m *topo.Model, e topo.ID, tr geom.Transform) (Extruded, error) {
	if err := checkEdge(m, e); err != nil {
		return Extruded{}, err
	}
	return newPass(m, tr).edge(e)
}

// ---------------------------------------------------------------------------
// Loops
// ---------------------------------------------------------------------------

// Loop sweeps a loop into a new shell. Middle is the shell holding one side
// face per edge and End is the transformed loop.
func Loop(m *topo.Model, l topo.ID, tr geom.Transform) (Extruded, error) {
	if err := checkLoop(m, l); err != nil {
		return Extruded{}, err
	}
	return LoopInto(m, l, tr, m.NewShell(), topo.Forward)
}

// LoopInto sweeps a loop, appending the side face of each edge to shell
// with the edge's direction in the loop composed with shellDir. Middle is
// shell and End is the transformed loop.
func LoopInto(m *topo.Model, l topo.ID, tr geom.Transform, shell topo.ID, shellDir topo.Direction) (Extruded, error) {
	if err := checkLoop(m, l); err != nil {
		return Extruded{}, err
	}
	if _, err := m.Require("extrude loop", shell, topo.KindShell); err != nil {
		return Extruded{}, err
	}
	p := newPass(m, tr)
	for _, pt := range m.LoopPoints(l) {
		if _, err := p.point(pt); err != nil {
			return Extruded{}, err
		}
	}
	end, err := p.loop(l, shell, shellDir)
	if err != nil {
		return Extruded{}, err
	}
	topo.Logger().Debug("extruded loop", "loop", l, "shell", shell, "points", len(p.points), "edges", len(p.edges))
	return Extruded{Middle: shell, End: end}, nil
}

// checkLoop requires l to be a loop of well-formed edges.
func checkLoop(m *topo.Model, l topo.ID) error {
	loop, err := m.Require("extrude loop", l, topo.KindLoop)
	if err != nil {
		return err
	}
	for _, u := range loop.Used {
		if err := checkEdge(m, u.Ref); err != nil {
			return fmt.Errorf("extrude loop %d: %w", l, err)
		}
	}
	return nil
}

// loop builds the transformed copy of l from the pass and appends the side
// faces to shell.
func (p *pass) loop(l, shell topo.ID, shellDir topo.Direction) (topo.ID, error) {
	uses := p.m.Entity(l).Used
	exts := make([]Extruded, len(uses))
	for i, u := range uses {
		ext, err := p.edge(u.Ref)
		if err != nil {
			return 0, err
		}
		exts[i] = ext
	}
	end := p.m.NewLoop()
	for i, u := range uses {
		p.m.AddUse(end, u.Dir, exts[i].End)
	}
	for i, u := range uses {
		p.m.AddUse(shell, u.Dir.Xor(shellDir), exts[i].Middle)
	}
	return end, nil
}

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

// Face sweeps a face into a volume. Middle is the volume, whose shell holds
// the reversed face, End, and the side faces of every boundary loop of the
// face (outer boundary and holes). End has the face's kind and bounds the
// transformed loops with the face's directions.
//
// Points and edges embedded in the face are swept as well: their swept
// entities are embedded in the volume and their transformed copies in End.
func Face(m *topo.Model, f topo.ID, tr geom.Transform) (Extruded, error) {
	ext, _, err := FaceWithStats(m, f, tr)
	return ext, err
}

// FaceWithStats is Face, also reporting how many points and edges the pass
// swept.
func FaceWithStats(m *topo.Model, f topo.ID, tr geom.Transform) (Extruded, PassStats, error) {
	if err := checkFace(m, "extrude face", f); err != nil {
		return Extruded{}, PassStats{}, err
	}
	p := newPass(m, tr)
	if err := p.seed(m.Closure(f, false, true)); err != nil {
		return Extruded{}, PassStats{}, err
	}
	ext, err := p.face(f)
	if err != nil {
		return Extruded{}, PassStats{}, err
	}
	stats := p.stats()
	topo.Logger().Debug("extruded face", "face", f, "volume", ext.Middle, "points", stats.Points, "edges", stats.Edges)
	return ext, stats, nil
}

// checkFace requires f to be a face whose loops hold only well-formed
// edges, so that a rejected sweep creates nothing.
func checkFace(m *topo.Model, op string, f topo.ID) error {
	face, err := m.Require(op, f, topo.KindPlane, topo.KindRuled)
	if err != nil {
		return err
	}
	for _, u := range face.Used {
		if err := checkLoop(m, u.Ref); err != nil {
			return fmt.Errorf("%s %d: %w", op, f, err)
		}
	}
	return nil
}

func (p *pass) face(f topo.ID) (Extruded, error) {
	src, err := p.m.Require("extrude face", f, topo.KindPlane, topo.KindRuled)
	if err != nil {
		return Extruded{}, err
	}
	end := p.m.NewFace(src.Kind, 0)
	shell := p.m.NewShell()
	p.m.AddUse(shell, topo.Reverse, f)
	p.m.AddUse(shell, topo.Forward, end)
	for _, u := range src.Used {
		endLoop, err := p.loop(u.Ref, shell, u.Dir)
		if err != nil {
			return Extruded{}, err
		}
		p.m.AddUse(end, u.Dir, endLoop)
	}
	volume := p.m.NewVolume(shell)

	for _, emb := range src.Embedded {
		var ext Extruded
		switch k := p.m.Kind(emb); {
		case k == topo.KindPoint:
			ext, err = p.point(emb)
		case k.IsEdge():
			ext, err = p.edge(emb)
		default:
			topo.Logger().Debug("not sweeping embedded entity", "face", f, "entity", emb, "kind", k)
			continue
		}
		if err != nil {
			return Extruded{}, err
		}
		p.m.Embed(volume, ext.Middle)
		p.m.Embed(end, ext.End)
	}
	return Extruded{Middle: volume, End: end}, nil
}

// FaceGroup sweeps every face of a group in one pass, so that edges shared
// between faces are swept once and the resulting volumes meet without
// gaps. Middle is a group of the volumes and End a group of the transformed
// faces, both in the group's order.
func FaceGroup(m *topo.Model, g topo.ID, tr geom.Transform) (Extruded, error) {
	group, err := m.Require("extrude face group", g, topo.KindGroup)
	if err != nil {
		return Extruded{}, err
	}
	for _, u := range group.Used {
		if err := checkFace(m, "extrude face group", u.Ref); err != nil {
			return Extruded{}, err
		}
	}
	p := newPass(m, tr)
	if err := p.seed(m.Closure(g, false, true)); err != nil {
		return Extruded{}, err
	}
	exts := make([]Extruded, 0, len(group.Used))
	for _, u := range group.Used {
		ext, err := p.face(u.Ref)
		if err != nil {
			return Extruded{}, err
		}
		exts = append(exts, ext)
	}
	volumes := m.NewGroup()
	ends := m.NewGroup()
	for _, ext := range exts {
		m.AddToGroup(volumes, ext.Middle)
		m.AddToGroup(ends, ext.End)
	}
	topo.Logger().Debug("extruded face group", "group", g, "faces", len(exts), "points", len(p.points), "edges", len(p.edges))
	return Extruded{Middle: volumes, End: ends}, nil
}
