package topo

import (
	"strconv"

	"github.com/chazu/brep/pkg/geom"
)

// ID identifies an entity within its Model. IDs are assigned in creation
// order starting at 1 and are never reused. The zero ID means "no entity".
type ID int

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id == 0
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Direction records whether a use agrees with the intrinsic orientation of
// the entity it references.
type Direction uint8

const (
	Forward Direction = 0
	Reverse Direction = 1
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	return d ^ 1
}

// Xor composes two directions: traversing a Reverse aggregate flips every
// use inside it.
func (d Direction) Xor(o Direction) Direction {
	return d ^ o
}

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Use is a directed reference from one entity to another.
type Use struct {
	Dir Direction
	Ref ID
}

// Entity is a node of the topology graph.
//
// Used holds the boundary references in order. Helpers are auxiliary
// geometric references (an arc's centre, a spline's interior control
// points). Embedded entities must coincide with, but do not bound, this one.
type Entity struct {
	ID       ID
	Kind     Kind
	Used     []Use
	Helpers  []ID
	Embedded []ID
}

// PointData is the payload carried by KindPoint entities.
type PointData struct {
	Pos  geom.Vec
	Size float64 // target local mesh size
}
