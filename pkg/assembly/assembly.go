// Package assembly welds separately built parts of a topology model into
// one watertight boundary.
//
// The outer boundary of a group of faces or volumes is found by counting how
// often each edge or face bounds a member: anything bounding two members is
// interior. Welding operations then cut that boundary into a containing face
// or volume and merge the part's faces with their orientation corrected.
package assembly

import (
	"fmt"

	"github.com/chazu/brep/pkg/topo"
)

// memberDim returns the common dimension of the members of a group, which
// must all be faces or all be volumes, each with a boundary.
func memberDim(m *topo.Model, group topo.ID) (int, error) {
	g, err := m.Require("collect boundary", group, topo.KindGroup)
	if err != nil {
		return 0, err
	}
	if len(g.Used) == 0 {
		return 0, fmt.Errorf("collect boundary: group %d is empty: %w", group, topo.ErrPrecondition)
	}
	dim := -1
	for _, u := range g.Used {
		member, err := m.Require("collect boundary", u.Ref, topo.KindPlane, topo.KindRuled, topo.KindVolume)
		if err != nil {
			return 0, err
		}
		d := member.Kind.Dim()
		if dim == -1 {
			dim = d
		} else if d != dim {
			return 0, fmt.Errorf("collect boundary: group %d mixes dimension %d and %d: %w", group, dim, d, topo.ErrPrecondition)
		}
		if len(member.Used) == 0 {
			return 0, fmt.Errorf("collect boundary: %s %d has no boundary: %w", member.Kind, u.Ref, topo.ErrPrecondition)
		}
	}
	return dim, nil
}

// CollectBoundary returns a new loop (for a group of faces) or shell (for a
// group of volumes) holding the uses of the members' outer boundaries that
// bound exactly one member. Uses keep the order in which they were met, so a
// collected loop usually needs UnscrambleLoop before it is traversable.
func CollectBoundary(m *topo.Model, group topo.ID) (topo.ID, error) {
	kind, kept, err := boundaryUses(m, group)
	if err != nil {
		return 0, err
	}
	boundary := m.NewEntity(kind)
	m.SetUses(boundary, kept)
	topo.Logger().Debug("collected assembly boundary", "group", group, "boundary", boundary, "kind", kind, "kept", len(kept))
	return boundary, nil
}

// boundaryUses returns the boundary kind of a group and the uses that bound
// exactly one of its members, in encounter order.
func boundaryUses(m *topo.Model, group topo.ID) (topo.Kind, []topo.Use, error) {
	dim, err := memberDim(m, group)
	if err != nil {
		return 0, nil, err
	}
	var uses []topo.Use
	for _, u := range m.Entity(group).Used {
		boundary := m.Entity(u.Ref).Used[0].Ref
		uses = append(uses, m.Entity(boundary).Used...)
	}
	count := make(map[topo.ID]int, len(uses))
	for _, u := range uses {
		count[u.Ref]++
	}

	kind, _ := topo.BoundaryKind(dim)
	var kept []topo.Use
	for _, u := range uses {
		if count[u.Ref] == 1 {
			kept = append(kept, u)
		}
	}
	return kind, kept, nil
}

// InsertInto cuts other out of into. A face's outer loop becomes a hole of
// the face into, a volume's outer shell becomes a void of the volume into,
// and the collected boundary of a group becomes a hole or void depending on
// the group's dimension, which must match into.
func InsertInto(m *topo.Model, into, other topo.ID) error {
	target, err := m.Require("insert", into, topo.KindPlane, topo.KindRuled, topo.KindVolume)
	if err != nil {
		return err
	}
	src, err := m.Require("insert", other, topo.KindPlane, topo.KindRuled, topo.KindVolume, topo.KindGroup)
	if err != nil {
		return err
	}
	if src.Kind != topo.KindGroup && len(src.Used) == 0 {
		return fmt.Errorf("insert: %s %d has no boundary: %w", src.Kind, other, topo.ErrPrecondition)
	}

	switch {
	case src.Kind.IsFace():
		if !target.Kind.IsFace() {
			return fmt.Errorf("insert: cannot cut face %d into %s %d: %w", other, target.Kind, into, topo.ErrPrecondition)
		}
		m.AddUse(into, topo.Reverse, m.FaceLoop(other))

	case src.Kind == topo.KindVolume:
		if target.Kind != topo.KindVolume {
			return fmt.Errorf("insert: cannot cut volume %d into %s %d: %w", other, target.Kind, into, topo.ErrPrecondition)
		}
		m.AddUse(into, topo.Reverse, m.VolumeShell(other))

	default:
		dim, err := memberDim(m, other)
		if err != nil {
			return err
		}
		if dim != target.Kind.Dim() {
			return fmt.Errorf("insert: group %d of dimension %d does not fit %s %d: %w", other, dim, target.Kind, into, topo.ErrPrecondition)
		}
		boundary, err := CollectBoundary(m, other)
		if err != nil {
			return err
		}
		m.AddUse(into, topo.Reverse, boundary)
	}
	return nil
}

// weldDir returns the direction smallFace must take in bigVol's shell: the
// opposite of its direction in smallVol's shell.
func weldDir(m *topo.Model, bigVol, smallVol, smallFace topo.ID) (topo.Direction, error) {
	if _, err := m.Require("weld", bigVol, topo.KindVolume); err != nil {
		return 0, err
	}
	if _, err := m.Require("weld", smallVol, topo.KindVolume); err != nil {
		return 0, err
	}
	dir, err := m.UsedDir(m.VolumeShell(smallVol), smallFace)
	if err != nil {
		return 0, fmt.Errorf("weld: %w", err)
	}
	return dir.Flip(), nil
}

// WeldVolumeFace makes smallFace a hole of bigFace and adds it to bigVol's
// shell facing the other way than it does in smallVol's shell, since the
// face now bounds both volumes from opposite sides.
func WeldVolumeFace(m *topo.Model, bigVol, smallVol, bigFace, smallFace topo.ID) error {
	dir, err := weldDir(m, bigVol, smallVol, smallFace)
	if err != nil {
		return err
	}
	if err := InsertInto(m, bigFace, smallFace); err != nil {
		return err
	}
	m.AddUse(m.VolumeShell(bigVol), dir, smallFace)
	return nil
}

// WeldPlaneWithHoles is WeldVolumeFace for a smallFace that has holes of its
// own. Each hole loop is capped with a new plane added to bigVol's shell
// with the same direction as smallFace.
func WeldPlaneWithHoles(m *topo.Model, bigVol, smallVol, bigFace, smallFace topo.ID) error {
	dir, err := weldDir(m, bigVol, smallVol, smallFace)
	if err != nil {
		return err
	}
	if err := InsertInto(m, bigFace, smallFace); err != nil {
		return err
	}
	shell := m.VolumeShell(bigVol)
	m.AddUse(shell, dir, smallFace)
	for _, hole := range m.Entity(smallFace).Used[1:] {
		m.AddUse(shell, dir, m.NewPlane(hole.Ref))
	}
	return nil
}

// UnscrambleLoop reorders the uses of a loop into one connected cycle,
// starting from its first use. Directions of the other uses are derived from
// which endpoint continues the cycle. The loop is left unchanged and
// ErrMalformedLoop returned when its edges do not form a single simple
// cycle.
func UnscrambleLoop(m *topo.Model, loop topo.ID) error {
	l, err := m.Require("unscramble", loop, topo.KindLoop)
	if err != nil {
		return err
	}
	ordered, err := cycleOrder(m, fmt.Sprintf("loop %d", loop), l.Used)
	if err != nil {
		return err
	}
	if ordered != nil {
		m.SetUses(loop, ordered)
	}
	return nil
}

// cycleOrder returns uses reordered into one connected cycle starting from
// uses[0]. It creates nothing, so callers can check a boundary before
// building a loop from it. what names the uses' owner in errors.
func cycleOrder(m *topo.Model, what string, uses []topo.Use) ([]topo.Use, error) {
	if len(uses) == 0 {
		return nil, nil
	}

	byPoint := make(map[topo.ID][]topo.Use)
	for _, u := range uses {
		e, err := m.Require("unscramble", u.Ref, topo.KindLine, topo.KindArc, topo.KindEllipse, topo.KindSpline)
		if err != nil {
			return nil, err
		}
		if len(e.Used) != 2 {
			return nil, fmt.Errorf("unscramble: %s %d has %d endpoints: %w", e.Kind, u.Ref, len(e.Used), topo.ErrPrecondition)
		}
		byPoint[e.Used[0].Ref] = append(byPoint[e.Used[0].Ref], topo.Use{Dir: topo.Forward, Ref: u.Ref})
		byPoint[e.Used[1].Ref] = append(byPoint[e.Used[1].Ref], topo.Use{Dir: topo.Reverse, Ref: u.Ref})
	}

	ordered := make([]topo.Use, 0, len(uses))
	ordered = append(ordered, uses[0])
	placed := map[topo.ID]bool{uses[0].Ref: true}
	for len(ordered) < len(uses) {
		cur := ordered[len(ordered)-1]
		pt := m.EdgePoint(cur.Ref, int(cur.Dir.Flip()))
		var next []topo.Use
		for _, u := range byPoint[pt] {
			if u.Ref != cur.Ref {
				next = append(next, u)
			}
		}
		switch {
		case len(next) == 0:
			return nil, fmt.Errorf("unscramble: %s ends at point %d: %w", what, pt, topo.ErrMalformedLoop)
		case len(next) > 1:
			return nil, fmt.Errorf("unscramble: %s branches at point %d: %w", what, pt, topo.ErrMalformedLoop)
		case placed[next[0].Ref]:
			return nil, fmt.Errorf("unscramble: %s closes after %d of %d uses: %w", what, len(ordered), len(uses), topo.ErrMalformedLoop)
		}
		ordered = append(ordered, next[0])
		placed[next[0].Ref] = true
	}

	last := ordered[len(ordered)-1]
	first := ordered[0]
	if m.EdgePoint(last.Ref, int(last.Dir.Flip())) != m.EdgePoint(first.Ref, int(first.Dir)) {
		return nil, fmt.Errorf("unscramble: %s does not close: %w", what, topo.ErrMalformedLoop)
	}
	return ordered, nil
}

// WeldHalfShellOnto attaches an open group of faces to a volume: the
// group's boundary loop is collected, put in cycle order and cut into
// bigFace as a hole, then every face of the group joins the volume's shell
// with its group direction composed with dir.
func WeldHalfShellOnto(m *topo.Model, volume, bigFace, halfShell topo.ID, dir topo.Direction) error {
	if _, err := m.Require("weld half shell", volume, topo.KindVolume); err != nil {
		return err
	}
	if _, err := m.Require("weld half shell", bigFace, topo.KindPlane, topo.KindRuled); err != nil {
		return err
	}
	dim, err := memberDim(m, halfShell)
	if err != nil {
		return err
	}
	if dim != 2 {
		return fmt.Errorf("weld half shell: group %d holds volumes, want faces: %w", halfShell, topo.ErrPrecondition)
	}
	_, kept, err := boundaryUses(m, halfShell)
	if err != nil {
		return err
	}
	ordered, err := cycleOrder(m, fmt.Sprintf("boundary of group %d", halfShell), kept)
	if err != nil {
		return fmt.Errorf("weld half shell: %w", err)
	}
	loop := m.NewLoop()
	m.SetUses(loop, ordered)
	m.AddUse(bigFace, topo.Reverse, loop)
	shell := m.VolumeShell(volume)
	for _, u := range m.Entity(halfShell).Used {
		m.AddUse(shell, u.Dir.Xor(dir), u.Ref)
	}
	return nil
}
