package topo

import "github.com/chazu/brep/pkg/geom"

// TransformClosure moves every point reachable from root (through uses,
// helpers and embedded references) by tr. Points shared with entities
// outside the closure move as well.
func (m *Model) TransformClosure(root ID, tr geom.Transform) {
	for _, id := range m.Closure(root, true, true) {
		if p, ok := m.points[id]; ok {
			p.Pos = tr(p.Pos)
		}
	}
}

// CopyClosure duplicates every entity reachable from root, rewiring the
// copies' uses, helpers and embedded references to each other, and returns
// the copy of root. Directions are preserved. Copies are created in closure
// order and wired afterwards, so references resolve even where the closure
// order lists a user before something it references.
func (m *Model) CopyClosure(root ID) ID {
	closure := m.Closure(root, true, true)
	copies := make(map[ID]ID, len(closure))
	for _, id := range closure {
		if p, ok := m.points[id]; ok {
			copies[id] = m.NewPoint(p.Pos, p.Size)
		} else {
			copies[id] = m.NewEntity(m.Kind(id))
		}
	}
	for _, id := range closure {
		src, dst := m.MustEntity(id), copies[id]
		for _, h := range src.Helpers {
			m.AddHelper(dst, copies[h])
		}
		for _, u := range src.Used {
			m.AddUse(dst, u.Dir, copies[u.Ref])
		}
		for _, emb := range src.Embedded {
			m.Embed(dst, copies[emb])
		}
	}
	return copies[root]
}
