package topo

import "fmt"

// ---------------------------------------------------------------------------
// Curves
// ---------------------------------------------------------------------------

// NewLine creates a straight edge from start to end.
func (m *Model) NewLine(start, end ID) ID {
	l := m.NewEntity(KindLine)
	m.AddUse(l, Forward, start)
	m.AddUse(l, Forward, end)
	return l
}

// NewArc creates a circular arc from start to end about center.
func (m *Model) NewArc(start, center, end ID) ID {
	a := m.NewEntity(KindArc)
	m.AddUse(a, Forward, start)
	m.AddHelper(a, center)
	m.AddUse(a, Forward, end)
	return a
}

// NewEllipseArc creates a quarter ellipse arc from start to end. major is
// any point on the major axis other than center.
func (m *Model) NewEllipseArc(start, center, major, end ID) ID {
	e := m.NewEntity(KindEllipse)
	m.AddUse(e, Forward, start)
	m.AddHelper(e, center)
	m.AddHelper(e, major)
	m.AddUse(e, Forward, end)
	return e
}

// NewSpline creates a spline through pts. The first and last points bound
// the curve; the interior points become helpers.
func (m *Model) NewSpline(pts []ID) (ID, error) {
	if len(pts) < 2 {
		return 0, fmt.Errorf("spline: need at least 2 points, got %d: %w", len(pts), ErrPrecondition)
	}
	s := m.NewEntity(KindSpline)
	m.AddUse(s, Forward, pts[0])
	for _, h := range pts[1 : len(pts)-1] {
		m.AddHelper(s, h)
	}
	m.AddUse(s, Forward, pts[len(pts)-1])
	return s, nil
}

// ---------------------------------------------------------------------------
// Aggregates, faces and volumes
// ---------------------------------------------------------------------------

// NewLoop creates an empty loop.
func (m *Model) NewLoop() ID { return m.NewEntity(KindLoop) }

// NewShell creates an empty shell.
func (m *Model) NewShell() ID { return m.NewEntity(KindShell) }

// NewGroup creates an empty group.
func (m *Model) NewGroup() ID { return m.NewEntity(KindGroup) }

// AddToGroup appends member to group.
func (m *Model) AddToGroup(group, member ID) {
	m.AddUse(group, Forward, member)
}

// NewFace creates a face of the given kind bounded by loop. A zero loop
// leaves the face without boundaries so they can be added later.
func (m *Model) NewFace(kind Kind, loop ID) ID {
	f := m.NewEntity(kind)
	if !loop.IsZero() {
		m.AddUse(f, Forward, loop)
	}
	return f
}

// NewPlane creates a planar face bounded by loop.
func (m *Model) NewPlane(loop ID) ID { return m.NewFace(KindPlane, loop) }

// NewRuled creates a ruled face bounded by loop.
func (m *Model) NewRuled(loop ID) ID { return m.NewFace(KindRuled, loop) }

// NewVolume creates a volume bounded by shell.
func (m *Model) NewVolume(shell ID) ID {
	v := m.NewEntity(KindVolume)
	m.AddUse(v, Forward, shell)
	return v
}

// AddHoleToFace cuts the region bounded by loop out of face.
func (m *Model) AddHoleToFace(face, loop ID) {
	m.AddUse(face, Reverse, loop)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// EdgePoint returns the i-th endpoint (0 = start, 1 = end) of an edge.
func (m *Model) EdgePoint(edge ID, i int) ID {
	e := m.MustEntity(edge)
	if len(e.Used) != 2 || i < 0 || i > 1 {
		panic(fmt.Sprintf("topo: edge %d (%s) has %d endpoints, asked for %d", edge, e.Kind, len(e.Used), i))
	}
	return e.Used[i].Ref
}

// ArcCenter returns the centre point of an arc.
func (m *Model) ArcCenter(arc ID) ID {
	return m.helper(arc, 0)
}

// EllipseCenter returns the centre point of an ellipse arc.
func (m *Model) EllipseCenter(e ID) ID {
	return m.helper(e, 0)
}

// EllipseMajor returns the major-axis point of an ellipse arc.
func (m *Model) EllipseMajor(e ID) ID {
	return m.helper(e, 1)
}

func (m *Model) helper(id ID, i int) ID {
	e := m.MustEntity(id)
	if i >= len(e.Helpers) {
		panic(fmt.Sprintf("topo: %s %d has %d helpers, asked for %d", e.Kind, id, len(e.Helpers), i))
	}
	return e.Helpers[i]
}

// FaceLoop returns the outer boundary loop of a face.
func (m *Model) FaceLoop(face ID) ID {
	return m.firstUsed(face)
}

// VolumeShell returns the outer boundary shell of a volume.
func (m *Model) VolumeShell(v ID) ID {
	return m.firstUsed(v)
}

func (m *Model) firstUsed(id ID) ID {
	e := m.MustEntity(id)
	if len(e.Used) == 0 {
		panic(fmt.Sprintf("topo: %s %d has no boundary", e.Kind, id))
	}
	return e.Used[0].Ref
}

// LoopPoints returns the start point of every edge as the loop traverses
// it, in loop order.
func (m *Model) LoopPoints(loop ID) []ID {
	e := m.MustEntity(loop)
	pts := make([]ID, 0, len(e.Used))
	for _, u := range e.Used {
		pts = append(pts, m.EdgePoint(u.Ref, int(u.Dir)))
	}
	return pts
}

// UsedRefs returns the referenced IDs of user's uses, in order.
func (m *Model) UsedRefs(user ID) []ID {
	e := m.MustEntity(user)
	refs := make([]ID, len(e.Used))
	for i, u := range e.Used {
		refs[i] = u.Ref
	}
	return refs
}

// UsedDir returns the direction with which user first uses used.
func (m *Model) UsedDir(user, used ID) (Direction, error) {
	e, err := m.lookup("used dir", user)
	if err != nil {
		return 0, err
	}
	for _, u := range e.Used {
		if u.Ref == used {
			return u.Dir, nil
		}
	}
	return 0, fmt.Errorf("used dir: %s %d does not use entity %d: %w", e.Kind, user, used, ErrPrecondition)
}
