package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/brep/pkg/extrude"
	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a position or direction.
type sexpVec3 struct {
	vec geom.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpEntity references an entity of the model under construction.
type sexpEntity struct {
	id   topo.ID
	kind topo.Kind
}

func (e *sexpEntity) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d)", e.kind, e.id)
}
func (e *sexpEntity) Type() *zygo.RegisteredType { return nil }

// sexpSweep is the pair returned by extrude.
type sexpSweep struct {
	ext extrude.Extruded
}

func (s *sexpSweep) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sweep :middle %d :end %d)", s.ext.Middle, s.ext.End)
}
func (s *sexpSweep) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// vec returns the vector keyword name, or def when it is absent.
func (a kwArgs) vec(name string, def geom.Vec) (geom.Vec, error) {
	s, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	v, err := toVec3(s)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// float returns the number keyword name, or def when it is absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	s, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// transform reads a sweep or move: :by v translates, :angle a (degrees)
// revolves about :axis (default z) through :origin (default the origin).
func (a kwArgs) transform() (geom.Transform, error) {
	if _, ok := a.kw["angle"]; ok {
		deg, err := a.float("angle", 0)
		if err != nil {
			return nil, err
		}
		axis, err := a.vec("axis", geom.V(0, 0, 1))
		if err != nil {
			return nil, err
		}
		origin, err := a.vec("origin", geom.Vec{})
		if err != nil {
			return nil, err
		}
		if geom.Norm(axis) == 0 {
			return nil, fmt.Errorf("axis: zero vector")
		}
		return geom.Revolve(origin, axis, deg*math.Pi/180), nil
	}
	if _, ok := a.kw["by"]; !ok {
		return nil, fmt.Errorf("expected :by vector or :angle")
	}
	by, err := a.vec("by", geom.Vec{})
	if err != nil {
		return nil, err
	}
	return geom.Translate(by), nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toEntity extracts an entity reference from a sexpEntity.
func toEntity(s zygo.Sexp) (*sexpEntity, error) {
	if e, ok := s.(*sexpEntity); ok {
		return e, nil
	}
	return nil, fmt.Errorf("expected entity, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// spread lets variadic builtins take their items either inline or as one
// list or array.
func spread(args []zygo.Sexp) []zygo.Sexp {
	if len(args) != 1 {
		return args
	}
	if items, err := sexpListToSlice(args[0]); err == nil {
		return items
	}
	return args
}
