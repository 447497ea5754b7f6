// Package engine evaluates brep scripts. A script is a zygomys Lisp program
// run in a sandbox with builtins that build a topology model; the entities
// it emits become the roots handed to the exporters.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/brep/pkg/topo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, a kernel error
// raised by a builtin, or a structural defect in the finished model.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a validation warning about the finished model.
type EvalWarning struct {
	ID      topo.ID
	Message string
}

func (w EvalWarning) String() string {
	if w.ID.IsZero() {
		return w.Message
	}
	return fmt.Sprintf("entity %d: %s", w.ID, w.Message)
}

// Result is the output of a successful evaluation.
type Result struct {
	Model *topo.Model
	// Roots are the entities passed to emit, in call order.
	Roots []topo.ID
	// Root is the entity to export: the single emitted root, or a group of
	// all of them. It is zero when nothing was emitted.
	Root     topo.ID
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandbox and a fresh model.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout  time.Duration
	meshSize float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMeshSize sets the mesh size of points created without one.
func WithMeshSize(h float64) Option {
	return func(e *Engine) {
		if h > 0 {
			e.meshSize = h
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, meshSize: topo.DefaultMeshSize}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs a script and returns the model it built.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval/structural failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	m := topo.New()
	m.DefaultSize = e.meshSize
	res := &Result{Model: m}

	// Empty source is a valid program that builds an empty model.
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, &builder{m: m, res: res})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return finish(res)
}

// finish picks the export root and validates the model.
func finish(res *Result) (*Result, []EvalError, error) {
	m := res.Model
	switch len(res.Roots) {
	case 0:
	case 1:
		res.Root = res.Roots[0]
	default:
		dim := m.Kind(res.Roots[0]).Dim()
		for _, r := range res.Roots[1:] {
			if m.Kind(r).Dim() != dim || dim < 0 {
				return nil, []EvalError{{Message: fmt.Sprintf(
					"emit: roots %d and %d cannot share a group (%s and %s)",
					res.Roots[0], r, m.Kind(res.Roots[0]), m.Kind(r))}}, nil
			}
		}
		res.Root = m.NewGroup()
		for _, r := range res.Roots {
			m.AddToGroup(res.Root, r)
		}
	}

	vr := topo.ValidateAll(m)
	if !vr.OK() {
		errs := make([]EvalError, 0, len(vr.Errors))
		for _, f := range vr.Errors {
			errs = append(errs, EvalError{Message: f.Error()})
		}
		return nil, errs, nil
	}
	log := topo.Logger()
	for _, f := range vr.Warnings {
		w := EvalWarning{ID: f.ID, Message: f.Message}
		log.Warn("model warning", "id", f.ID, "msg", f.Message)
		res.Warnings = append(res.Warnings, w)
	}
	log.Debug("evaluated script", "entities", m.Len(), "roots", len(res.Roots))
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
