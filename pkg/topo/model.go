package topo

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
)

// DefaultMeshSize is the mesh size given to points created without one.
const DefaultMeshSize = 0.1

// Model is the arena holding every entity of one topology graph. Entities
// are addressed by ID; point payloads live in a side table.
//
// A Model is not safe for concurrent mutation. Read-only traversals may run
// concurrently as long as nothing appends to the model.
type Model struct {
	entities []*Entity // indexed by ID; slot 0 is unused
	points   map[ID]*PointData

	// DefaultSize is the mesh size used by NewPointDefault.
	DefaultSize float64
}

// New creates an empty Model.
func New() *Model {
	return &Model{
		entities:    make([]*Entity, 1, 64),
		points:      make(map[ID]*PointData),
		DefaultSize: DefaultMeshSize,
	}
}

// NewEntity allocates an entity of the given kind with empty reference
// lists and returns its ID.
func (m *Model) NewEntity(kind Kind) ID {
	id := ID(len(m.entities))
	m.entities = append(m.entities, &Entity{ID: id, Kind: kind})
	return id
}

// Len returns the number of entities in the model.
func (m *Model) Len() int {
	return len(m.entities) - 1
}

// Has reports whether id names an entity of this model.
func (m *Model) Has(id ID) bool {
	return id > 0 && int(id) < len(m.entities)
}

// Entity returns the entity with the given ID, or nil.
func (m *Model) Entity(id ID) *Entity {
	if !m.Has(id) {
		return nil
	}
	return m.entities[id]
}

// MustEntity returns the entity with the given ID, or panics.
func (m *Model) MustEntity(id ID) *Entity {
	e := m.Entity(id)
	if e == nil {
		panic(fmt.Sprintf("topo: no entity %d", id))
	}
	return e
}

// Kind returns the kind of the entity with the given ID. It panics if the
// entity does not exist.
func (m *Model) Kind(id ID) Kind {
	return m.MustEntity(id).Kind
}

// IDs returns every entity ID in creation order.
func (m *Model) IDs() []ID {
	ids := make([]ID, 0, m.Len())
	for i := 1; i < len(m.entities); i++ {
		ids = append(ids, ID(i))
	}
	return ids
}

// lookup returns the entity or an ErrNotFound error naming the caller.
func (m *Model) lookup(op string, id ID) (*Entity, error) {
	e := m.Entity(id)
	if e == nil {
		return nil, fmt.Errorf("%s: entity %d: %w", op, id, ErrNotFound)
	}
	return e, nil
}

// Require returns the entity when it exists and has one of the given kinds,
// and an ErrPrecondition error otherwise.
func (m *Model) Require(op string, id ID, kinds ...Kind) (*Entity, error) {
	e, err := m.lookup(op, id)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if e.Kind == k {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: entity %d is a %s, want one of %v: %w", op, id, e.Kind, kinds, ErrPrecondition)
}

// ---------------------------------------------------------------------------
// Reference lists
// ---------------------------------------------------------------------------

// AddUse appends (dir, target) to owner's used list.
func (m *Model) AddUse(owner ID, dir Direction, target ID) {
	e := m.MustEntity(owner)
	e.Used = append(e.Used, Use{Dir: dir, Ref: target})
}

// AddHelper appends target to owner's helper list.
func (m *Model) AddHelper(owner, target ID) {
	e := m.MustEntity(owner)
	e.Helpers = append(e.Helpers, target)
}

// Embed records that target must coincide with into for mesh conformity.
func (m *Model) Embed(into, target ID) {
	e := m.MustEntity(into)
	e.Embedded = append(e.Embedded, target)
}

// SetUses replaces owner's used list. It exists for operations that
// reorder an aggregate in place.
func (m *Model) SetUses(owner ID, uses []Use) {
	m.MustEntity(owner).Used = uses
}

// ---------------------------------------------------------------------------
// Points
// ---------------------------------------------------------------------------

// NewPoint creates a point at pos with the given mesh size.
func (m *Model) NewPoint(pos geom.Vec, size float64) ID {
	id := m.NewEntity(KindPoint)
	m.points[id] = &PointData{Pos: pos, Size: size}
	return id
}

// NewPointDefault creates a point at pos with the model's default size.
func (m *Model) NewPointDefault(pos geom.Vec) ID {
	return m.NewPoint(pos, m.DefaultSize)
}

// NewPoints creates one default-size point per position.
func (m *Model) NewPoints(vs []geom.Vec) []ID {
	ids := make([]ID, len(vs))
	for i, v := range vs {
		ids[i] = m.NewPointDefault(v)
	}
	return ids
}

// Point returns the payload of a point entity.
func (m *Model) Point(id ID) (PointData, bool) {
	p, ok := m.points[id]
	if !ok {
		return PointData{}, false
	}
	return *p, true
}

// Pos returns the position of a point entity. It panics if id is not a
// point.
func (m *Model) Pos(id ID) geom.Vec {
	p, ok := m.points[id]
	if !ok {
		panic(fmt.Sprintf("topo: entity %d is not a point", id))
	}
	return p.Pos
}

// SetPointPos moves a point. Whole-model transforms are the only
// sanctioned users.
func (m *Model) SetPointPos(id ID, pos geom.Vec) {
	p, ok := m.points[id]
	if !ok {
		panic(fmt.Sprintf("topo: entity %d is not a point", id))
	}
	p.Pos = pos
}
