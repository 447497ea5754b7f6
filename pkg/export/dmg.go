package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chazu/brep/pkg/topo"
)

// WriteDmg writes the closure of root (embedded entities included, helpers
// excluded) as a discrete model file: a header of cell counts from volumes
// down to points, then the cells by increasing dimension. Faces and volumes
// list their boundaries; a boundary member is flagged 1 when used Forward
// and 0 when used Reverse.
func WriteDmg(w io.Writer, m *topo.Model, root topo.ID) error {
	if err := checkRoot(m, root); err != nil {
		return err
	}
	closure := m.Closure(root, false, true)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %d\n",
		m.CountOfDim(closure, 3), m.CountOfDim(closure, 2),
		m.CountOfDim(closure, 1), m.CountOfDim(closure, 0))
	bw.WriteString("0 0 0\n0 0 0\n")

	for d := 0; d <= 3; d++ {
		for _, id := range m.FilterByDim(closure, d) {
			if err := writeDmgEntity(bw, m, m.Entity(id)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeDmgEntity(w *bufio.Writer, m *topo.Model, e *topo.Entity) error {
	switch {
	case e.Kind == topo.KindPoint:
		pd, _ := m.Point(e.ID)
		fmt.Fprintf(w, "%d %f %f %f\n", e.ID, pd.Pos.X, pd.Pos.Y, pd.Pos.Z)

	case e.Kind.IsEdge():
		s, end, err := edgeEnds(m, e)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d %d %d\n", e.ID, s, end)

	default:
		fmt.Fprintf(w, "%d %d\n", e.ID, len(e.Used))
		for _, u := range e.Used {
			bnd := m.Entity(u.Ref)
			fmt.Fprintf(w, " %d\n", len(bnd.Used))
			for _, bu := range bnd.Used {
				fmt.Fprintf(w, "  %d %d\n", bu.Ref, 1-int(bu.Dir))
			}
		}
	}
	return nil
}
