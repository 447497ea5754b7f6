package topo

import "fmt"

// ValidationSeverity indicates whether a validation finding marks broken
// topology or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant violated
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ID       ID                 // offending entity (zero if model-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] entity %d: %s", e.Severity, e.ID, e.Message)
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no error-severity finding was produced.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks over every entity of the model and
// returns the findings. It never mutates the model.
func Validate(m *Model) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateReferences(m)...)
	errs = append(errs, validateDAG(m)...)
	errs = append(errs, validateDimensions(m)...)
	errs = append(errs, validateLoops(m)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and splits the
// findings by severity.
func ValidateAll(m *Model) ValidationResult {
	var result ValidationResult
	findings := Validate(m)
	// Geometric checks dereference edges and loops, so they only run on
	// structurally sound models.
	structural := false
	for _, f := range findings {
		if f.Severity == SeverityError {
			structural = true
			break
		}
	}
	if !structural {
		findings = append(findings, validateGeometry(m)...)
	}
	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}
	return result
}

// validateReferences checks that every used, helper and embedded reference
// names an existing entity.
func validateReferences(m *Model) []ValidationError {
	var errs []ValidationError
	for _, id := range m.IDs() {
		e := m.entities[id]
		for _, u := range e.Used {
			if !m.Has(u.Ref) {
				errs = append(errs, ValidationError{
					ID:       id,
					Message:  fmt.Sprintf("used reference %d does not exist", u.Ref),
					Severity: SeverityError,
				})
			}
		}
		for _, h := range e.Helpers {
			if !m.Has(h) {
				errs = append(errs, ValidationError{
					ID:       id,
					Message:  fmt.Sprintf("helper reference %d does not exist", h),
					Severity: SeverityError,
				})
			}
		}
		for _, emb := range e.Embedded {
			if !m.Has(emb) {
				errs = append(errs, ValidationError{
					ID:       id,
					Message:  fmt.Sprintf("embedded reference %d does not exist", emb),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateDAG checks for cycles through used, helper and embedded edges
// using DFS with 3-color marking. White (0) = unvisited, gray (1) = on the
// current DFS path, black (2) = fully explored.
func validateDAG(m *Model) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ID]int)
	var errs []ValidationError

	var visit func(id ID) bool // returns true if a cycle was found
	visit = func(id ID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				ID:       id,
				Message:  fmt.Sprintf("cycle detected: entity %d reaches itself", id),
				Severity: SeverityError,
			})
			return true
		}
		e := m.Entity(id)
		if e == nil {
			// Dangling; reported by validateReferences.
			color[id] = black
			return false
		}

		color[id] = gray
		for _, u := range e.Used {
			if visit(u.Ref) {
				return true
			}
		}
		for _, h := range e.Helpers {
			if visit(h) {
				return true
			}
		}
		for _, emb := range e.Embedded {
			if visit(emb) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range m.IDs() {
		if color[id] == white && visit(id) {
			// One cycle is enough.
			break
		}
	}
	return errs
}

// kindOf returns the kind of id, or false when it is dangling.
func (m *Model) kindOf(id ID) (Kind, bool) {
	e := m.Entity(id)
	if e == nil {
		return 0, false
	}
	return e.Kind, true
}

// edgeHelperArity is the exact helper count of edge kinds that have one.
// Splines carry any number of interior control points.
var edgeHelperArity = map[Kind]int{KindLine: 0, KindArc: 1, KindEllipse: 2}

// validateDimensions enforces the dimension discipline: cells use entities
// one dimension lower (through loops and shells for faces and volumes),
// loops hold edges, shells hold faces, and groups hold cells of a single
// dimension.
func validateDimensions(m *Model) []ValidationError {
	var errs []ValidationError
	report := func(id ID, format string, args ...any) {
		errs = append(errs, ValidationError{
			ID:       id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, id := range m.IDs() {
		e := m.entities[id]
		switch e.Kind {
		case KindPoint:
			if len(e.Used) != 0 {
				report(id, "point uses %d entities", len(e.Used))
			}
			if _, ok := m.points[id]; !ok {
				report(id, "point has no position")
			}

		case KindLine, KindArc, KindEllipse, KindSpline:
			if len(e.Used) != 2 {
				report(id, "%s has %d endpoints, want 2", e.Kind, len(e.Used))
			}
			for _, u := range e.Used {
				if k, ok := m.kindOf(u.Ref); ok && k != KindPoint {
					report(id, "%s endpoint %d is a %s", e.Kind, u.Ref, k)
				}
			}
			if n, fixed := edgeHelperArity[e.Kind]; fixed && len(e.Helpers) != n {
				report(id, "%s has %d helpers, want %d", e.Kind, len(e.Helpers), n)
			}
			for _, h := range e.Helpers {
				if k, ok := m.kindOf(h); ok && k != KindPoint {
					report(id, "%s helper %d is a %s", e.Kind, h, k)
				}
			}

		case KindPlane, KindRuled:
			errs = append(errs, requireUses(m, e, KindLoop)...)

		case KindVolume:
			errs = append(errs, requireUses(m, e, KindShell)...)

		case KindLoop:
			for _, u := range e.Used {
				if k, ok := m.kindOf(u.Ref); ok && !k.IsEdge() {
					report(id, "loop uses %d which is a %s, not an edge", u.Ref, k)
				}
			}

		case KindShell:
			for _, u := range e.Used {
				if k, ok := m.kindOf(u.Ref); ok && !k.IsFace() {
					report(id, "shell uses %d which is a %s, not a face", u.Ref, k)
				}
			}

		case KindGroup:
			dim := -2
			for _, u := range e.Used {
				k, ok := m.kindOf(u.Ref)
				if !ok {
					continue
				}
				if !k.IsCell() {
					report(id, "group member %d is a %s, not a cell", u.Ref, k)
					continue
				}
				if dim == -2 {
					dim = k.Dim()
				} else if k.Dim() != dim {
					report(id, "group mixes dimension %d and %d", dim, k.Dim())
				}
			}

		default:
			report(id, "unknown kind %d", int(e.Kind))
		}
	}
	return errs
}

// requireUses checks that a face or volume has at least one boundary and
// that every boundary is of the given aggregate kind.
func requireUses(m *Model, e *Entity, want Kind) []ValidationError {
	var errs []ValidationError
	if len(e.Used) == 0 {
		errs = append(errs, ValidationError{
			ID:       e.ID,
			Message:  fmt.Sprintf("%s has no boundary %s", e.Kind, want),
			Severity: SeverityError,
		})
	}
	for _, u := range e.Used {
		if k, ok := m.kindOf(u.Ref); ok && k != want {
			errs = append(errs, ValidationError{
				ID:       e.ID,
				Message:  fmt.Sprintf("%s uses %d which is a %s, not a %s", e.Kind, u.Ref, k, want),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateLoops warns about loops whose consecutive uses do not chain
// end-to-start. Boundary extraction leaves loops in this state until they
// are unscrambled.
func validateLoops(m *Model) []ValidationError {
	var warnings []ValidationError
	for _, id := range m.IDs() {
		e := m.entities[id]
		if e.Kind != KindLoop || len(e.Used) == 0 || !m.wellFormedEdges(e.Used) {
			continue
		}
		for i, u := range e.Used {
			next := e.Used[(i+1)%len(e.Used)]
			tail := m.EdgePoint(u.Ref, int(u.Dir.Flip()))
			head := m.EdgePoint(next.Ref, int(next.Dir))
			if tail != head {
				warnings = append(warnings, ValidationError{
					ID:       id,
					Message:  fmt.Sprintf("loop is not connected between uses %d and %d", i, (i+1)%len(e.Used)),
					Severity: SeverityWarning,
				})
				break
			}
		}
	}
	return warnings
}

// wellFormedEdges reports whether every use targets an existing edge with
// two endpoints.
func (m *Model) wellFormedEdges(uses []Use) bool {
	for _, u := range uses {
		e := m.Entity(u.Ref)
		if e == nil || !e.Kind.IsEdge() || len(e.Used) != 2 {
			return false
		}
	}
	return true
}
