package topo

// Kind enumerates the entity kinds of the topology graph. The set is closed.
type Kind int

const (
	KindPoint   Kind = iota // 0-cell
	KindLine                // straight edge
	KindArc                 // circular arc, centre as helper
	KindEllipse             // quarter ellipse arc, centre and major point as helpers
	KindSpline              // spline, interior control points as helpers
	KindPlane               // planar face
	KindRuled               // ruled face
	KindVolume              // 3-cell
	KindLoop                // boundary of a face
	KindShell               // boundary of a volume
	KindGroup               // collection of same-dimension cells
)

// NumKinds is the number of entity kinds.
const NumKinds = int(KindGroup) + 1

var kindNames = [NumKinds]string{
	KindPoint:   "point",
	KindLine:    "line",
	KindArc:     "arc",
	KindEllipse: "ellipse",
	KindSpline:  "spline",
	KindPlane:   "plane",
	KindRuled:   "ruled",
	KindVolume:  "volume",
	KindLoop:    "loop",
	KindShell:   "shell",
	KindGroup:   "group",
}

var kindDims = [NumKinds]int{
	KindPoint:   0,
	KindLine:    1,
	KindArc:     1,
	KindEllipse: 1,
	KindSpline:  1,
	KindPlane:   2,
	KindRuled:   2,
	KindVolume:  3,
	KindLoop:    -1,
	KindShell:   -1,
	KindGroup:   -1,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < NumKinds
}

// Dim returns the topological dimension of k, or -1 for aggregates
// (loops, shells, groups).
func (k Kind) Dim() int {
	if !k.Valid() {
		return -1
	}
	return kindDims[k]
}

// IsCell reports whether k is a point, curve, surface or volume.
func (k Kind) IsCell() bool {
	return k.Valid() && k <= KindVolume
}

// IsEdge reports whether k is a curve kind.
func (k Kind) IsEdge() bool {
	return k.Dim() == 1
}

// IsFace reports whether k is a surface kind.
func (k Kind) IsFace() bool {
	return k == KindPlane || k == KindRuled
}

// IsBoundary reports whether k is a loop or shell.
func (k Kind) IsBoundary() bool {
	return k == KindLoop || k == KindShell
}

// BoundaryKind returns the aggregate kind bounding cells of the given
// dimension: Shell for volumes, Loop for faces.
func BoundaryKind(dim int) (Kind, bool) {
	switch dim {
	case 3:
		return KindShell, true
	case 2:
		return KindLoop, true
	default:
		return 0, false
	}
}
