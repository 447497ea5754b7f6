package topo

import "slices"

// Closure returns every entity reachable from root through used references,
// and through helper and embedded references when the corresponding flag is
// set. The result is the breadth-first visitation order reversed, so each
// entity appears after everything it depends on and root comes last. For a
// given graph, root and flags the order is deterministic.
func (m *Model) Closure(root ID, includeHelpers, includeEmbedded bool) []ID {
	m.MustEntity(root)

	visited := map[ID]struct{}{root: {}}
	queue := []ID{root}
	enqueue := func(id ID) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		queue = append(queue, id)
	}

	for first := 0; first < len(queue); first++ {
		e := m.MustEntity(queue[first])
		for _, u := range e.Used {
			enqueue(u.Ref)
		}
		if includeHelpers {
			for _, h := range e.Helpers {
				enqueue(h)
			}
		}
		if includeEmbedded {
			for _, emb := range e.Embedded {
				enqueue(emb)
			}
		}
	}

	slices.Reverse(queue)
	return queue
}

// FilterByDim returns the entities of ids whose kind has dimension d,
// preserving order.
func (m *Model) FilterByDim(ids []ID, d int) []ID {
	var out []ID
	for _, id := range ids {
		if m.Kind(id).Dim() == d {
			out = append(out, id)
		}
	}
	return out
}

// FilterPoints returns the points of ids, preserving order.
func (m *Model) FilterPoints(ids []ID) []ID {
	return m.FilterByDim(ids, 0)
}

// CountOfKind counts the entities of ids with the given kind.
func (m *Model) CountOfKind(ids []ID, k Kind) int {
	n := 0
	for _, id := range ids {
		if m.Kind(id) == k {
			n++
		}
	}
	return n
}

// CountOfDim counts the cells of ids with dimension d. Aggregates are never
// counted.
func (m *Model) CountOfDim(ids []ID, d int) int {
	n := 0
	for _, id := range ids {
		k := m.Kind(id)
		if k.IsCell() && k.Dim() == d {
			n++
		}
	}
	return n
}
