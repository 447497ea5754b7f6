package topo

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/brep/pkg/geom"
)

// GeometryTolerance is the absolute length below which geometry is treated
// as degenerate by the geometric validation tier.
const GeometryTolerance = 1e-9

// ---------------------------------------------------------------------------
// Geometric tier (warnings only)
// ---------------------------------------------------------------------------

// validateGeometry runs the geometric checks. It assumes the structural
// checks passed.
func validateGeometry(m *Model) []ValidationError {
	var warnings []ValidationError
	warnings = append(warnings, validateMeshSizes(m)...)
	warnings = append(warnings, validateEdgeLengths(m)...)
	warnings = append(warnings, validateArcRadii(m)...)
	warnings = append(warnings, validatePlaneNormals(m)...)
	return warnings
}

// validateMeshSizes warns about points whose target mesh size is not
// positive.
func validateMeshSizes(m *Model) []ValidationError {
	var warnings []ValidationError
	for _, id := range m.IDs() {
		p, ok := m.points[id]
		if !ok {
			continue
		}
		if p.Size <= 0 {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  fmt.Sprintf("point mesh size is %.4g, must be positive", p.Size),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// validateEdgeLengths warns about edges whose endpoints coincide.
func validateEdgeLengths(m *Model) []ValidationError {
	var warnings []ValidationError
	for _, id := range m.IDs() {
		e := m.entities[id]
		if !e.Kind.IsEdge() {
			continue
		}
		a, b := m.Pos(e.Used[0].Ref), m.Pos(e.Used[1].Ref)
		if e.Kind == KindLine && geom.Near(a, b, GeometryTolerance) {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  "line has zero length",
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// validateArcRadii warns about arcs whose endpoints are not equidistant
// from the centre or do not span a plane with it.
func validateArcRadii(m *Model) []ValidationError {
	var warnings []ValidationError
	for _, id := range m.IDs() {
		e := m.entities[id]
		if e.Kind != KindArc {
			continue
		}
		c := m.Pos(e.Helpers[0])
		ra := geom.Norm(m.Pos(e.Used[0].Ref).Sub(c))
		rb := geom.Norm(m.Pos(e.Used[1].Ref).Sub(c))
		if ra < GeometryTolerance || rb < GeometryTolerance {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  "arc endpoint coincides with its centre",
				Severity: SeverityWarning,
			})
			continue
		}
		if geom.Norm(m.Pos(e.Used[0].Ref).Sub(c).Cross(m.Pos(e.Used[1].Ref).Sub(c))) < GeometryTolerance*ra*rb {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  "arc endpoints are collinear with its centre",
				Severity: SeverityWarning,
			})
			continue
		}
		if math.Abs(ra-rb) > 1e-6*math.Max(ra, rb) {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  fmt.Sprintf("arc radii differ: %.6g at start, %.6g at end", ra, rb),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// validatePlaneNormals warns about planar faces whose outer loop does not
// span a plane.
func validatePlaneNormals(m *Model) []ValidationError {
	var warnings []ValidationError
	for _, id := range m.IDs() {
		if m.entities[id].Kind != KindPlane {
			continue
		}
		if _, err := m.PlaneNormal(id, GeometryTolerance); errors.Is(err, ErrDegenerate) {
			warnings = append(warnings, ValidationError{
				ID:       id,
				Message:  "plane boundary does not span a plane",
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}
