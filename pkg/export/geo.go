package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chazu/brep/pkg/topo"
)

// geoNames are the .geo statement names of kinds written as a plain list
// of used entities.
var geoNames = map[topo.Kind]string{
	topo.KindLine:   "Line",
	topo.KindPlane:  "Plane Surface",
	topo.KindRuled:  "Ruled Surface",
	topo.KindVolume: "Volume",
	topo.KindLoop:   "Line Loop",
	topo.KindShell:  "Surface Loop",
}

// dimNames name cells of each dimension in embedding and physical
// statements.
var dimNames = [4]string{"Point", "Line", "Surface", "Volume"}

// WriteGeo writes the closure of root (helpers and embedded entities
// included) as a Gmsh .geo script, dependencies first. Reverse uses inside
// line and surface loops are written as negated IDs.
func WriteGeo(w io.Writer, m *topo.Model, root topo.ID, opts GeoOptions) error {
	if err := checkRoot(m, root); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, id := range m.Closure(root, true, true) {
		if err := writeGeoEntity(bw, m, m.Entity(id)); err != nil {
			return err
		}
	}
	if opts.Physical {
		for _, id := range m.Closure(root, false, true) {
			k := m.Kind(id)
			if !k.IsCell() {
				continue
			}
			fmt.Fprintf(bw, "Physical %s(%d) = {%d};\n", dimNames[k.Dim()], id, id)
		}
	}
	return bw.Flush()
}

func writeGeoEntity(w *bufio.Writer, m *topo.Model, e *topo.Entity) error {
	switch e.Kind {
	case topo.KindPoint:
		pd, _ := m.Point(e.ID)
		fmt.Fprintf(w, "Point(%d) = {%f,%f,%f,%f};\n", e.ID, pd.Pos.X, pd.Pos.Y, pd.Pos.Z, pd.Size)

	case topo.KindArc:
		s, end, err := edgeEnds(m, e)
		if err != nil {
			return err
		}
		if len(e.Helpers) != 1 {
			return fmt.Errorf("export: arc %d has %d helpers: %w", e.ID, len(e.Helpers), topo.ErrPrecondition)
		}
		fmt.Fprintf(w, "Circle(%d) = {%d,%d,%d};\n", e.ID, s, e.Helpers[0], end)

	case topo.KindEllipse:
		s, end, err := edgeEnds(m, e)
		if err != nil {
			return err
		}
		if len(e.Helpers) != 2 {
			return fmt.Errorf("export: ellipse %d has %d helpers: %w", e.ID, len(e.Helpers), topo.ErrPrecondition)
		}
		fmt.Fprintf(w, "Ellipse(%d) = {%d,%d,%d,%d};\n", e.ID, s, e.Helpers[0], e.Helpers[1], end)

	case topo.KindSpline:
		s, end, err := edgeEnds(m, e)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Spline(%d) = {%d,", e.ID, s)
		for _, h := range e.Helpers {
			fmt.Fprintf(w, "%d,", h)
		}
		fmt.Fprintf(w, "%d};\n", end)

	case topo.KindGroup:
		// Groups are an assembly device with no .geo counterpart.

	default:
		return writeGeoList(w, m, e)
	}
	return nil
}

// writeGeoList writes an entity as its list of used entities, followed by
// one embedding statement per embedded entity.
func writeGeoList(w *bufio.Writer, m *topo.Model, e *topo.Entity) error {
	name, ok := geoNames[e.Kind]
	if !ok {
		return fmt.Errorf("export: cannot write %s %d: %w", e.Kind, e.ID, topo.ErrPrecondition)
	}
	fmt.Fprintf(w, "%s(%d) = {", name, e.ID)
	for i, u := range e.Used {
		if i > 0 {
			w.WriteByte(',')
		}
		if e.Kind.IsBoundary() && u.Dir == topo.Reverse {
			fmt.Fprintf(w, "%d", -int(u.Ref))
		} else {
			fmt.Fprintf(w, "%d", u.Ref)
		}
	}
	w.WriteString("};\n")

	for _, emb := range e.Embedded {
		ed, od := m.Kind(emb).Dim(), e.Kind.Dim()
		if ed < 0 || od < 0 {
			return fmt.Errorf("export: cannot embed %s %d in %s %d: %w", m.Kind(emb), emb, e.Kind, e.ID, topo.ErrPrecondition)
		}
		fmt.Fprintf(w, "%s{%d} In %s{%d};\n", dimNames[ed], emb, dimNames[od], e.ID)
	}
	return nil
}
