package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/brep/pkg/assembly"
	"github.com/chazu/brep/pkg/extrude"
	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/shapes"
	"github.com/chazu/brep/pkg/topo"
)

// builder is the state shared by the builtins of one evaluation.
type builder struct {
	m   *topo.Model
	res *Result
}

type builtinFunc func(b *builder, args []zygo.Sexp) (zygo.Sexp, error)

// builtins maps script names to implementations. Names are written here as
// scripts spell them; registerBuiltins converts kebab-case the way
// preprocessSource does.
var builtins = map[string]builtinFunc{
	// values and cells
	"vec3":    (*builder).vec3,
	"point":   (*builder).point,
	"line":    (*builder).line,
	"arc":     (*builder).arc,
	"ellipse": (*builder).ellipse,
	"spline":  (*builder).spline,
	"loop":    (*builder).loop,
	"plane":   (*builder).plane,

	// primitives
	"polygon":   (*builder).polygon,
	"square":    (*builder).square,
	"circle":    (*builder).circle,
	"disk":      (*builder).disk,
	"cube":      (*builder).cube,
	"cube-face": (*builder).cubeFace,
	"ball":      (*builder).ball,

	// sweeping
	"extrude":      (*builder).extrude,
	"sweep-middle": (*builder).sweepMiddle,
	"sweep-end":    (*builder).sweepEnd,

	// assembly
	"assembly":   (*builder).assembly,
	"add-hole":   (*builder).addHole,
	"insert":     (*builder).insert,
	"embed-in":   (*builder).embedIn,
	"boundary":   (*builder).boundary,
	"unscramble": (*builder).unscramble,
	"weld-face":  (*builder).weldFace,

	// placement and output
	"translate": (*builder).translate,
	"rotate":    (*builder).rotate,
	"duplicate": (*builder).duplicate,
	"emit":      (*builder).emit,
}

// registerBuiltins installs the builtins into a zygomys environment. They
// operate on b's model, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	for name, fn := range builtins {
		fn := fn
		env.AddFunction(strings.ReplaceAll(name, "-", "_"), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(b, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return out, nil
		})
	}
}

func (b *builder) ref(id topo.ID) *sexpEntity {
	return &sexpEntity{id: id, kind: b.m.Kind(id)}
}

// entity checks that s references an entity of one of kinds (any kind when
// none are given).
func (b *builder) entity(op string, s zygo.Sexp, kinds ...topo.Kind) (topo.ID, error) {
	e, err := toEntity(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(kinds) == 0 {
		if !b.m.Has(e.id) {
			return 0, fmt.Errorf("%s: entity %d: %w", op, e.id, topo.ErrNotFound)
		}
		return e.id, nil
	}
	if _, err := b.m.Require(op, e.id, kinds...); err != nil {
		return 0, err
	}
	return e.id, nil
}

// toPoint accepts a point entity or a vec3, creating a point for the
// latter.
func (b *builder) toPoint(op string, s zygo.Sexp) (topo.ID, error) {
	if v, ok := s.(*sexpVec3); ok {
		return b.m.NewPointDefault(v.vec), nil
	}
	return b.entity(op, s, topo.KindPoint)
}

// toPos accepts a vec3 or a point entity and returns the position.
func (b *builder) toPos(op string, s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	id, err := b.entity(op, s, topo.KindPoint)
	if err != nil {
		return geom.Vec{}, err
	}
	return b.m.Pos(id), nil
}

// points converts exactly n arguments (or at least n when n is negative)
// with toPoint.
func (b *builder) points(op string, args []zygo.Sexp, n int) ([]topo.ID, error) {
	if (n >= 0 && len(args) != n) || (n < 0 && len(args) < -n) {
		want := fmt.Sprintf("%d", n)
		if n < 0 {
			want = fmt.Sprintf("at least %d", -n)
		}
		return nil, fmt.Errorf("%s requires %s points, got %d", op, want, len(args))
	}
	ids := make([]topo.ID, len(args))
	for i, a := range args {
		id, err := b.toPoint(op, a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func one(op string, args []zygo.Sexp) error {
	if len(args) != 1 {
		return fmt.Errorf("%s requires exactly 1 argument, got %d", op, len(args))
	}
	return nil
}

// ---------------------------------------------------------------------------
// (vec3 1 2 3), (point (vec3 0 0 0) :size 0.05)
// ---------------------------------------------------------------------------

func (b *builder) vec3(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: geom.V(c[0], c[1], c[2])}, nil
}

func (b *builder) point(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := one("point", pa.positional); err != nil {
		return nil, err
	}
	pos, err := toVec3(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("point: %w", err)
	}
	size, err := pa.float("size", b.m.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("point: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("point: size must be positive, got %g", size)
	}
	return b.ref(b.m.NewPoint(pos, size)), nil
}

// ---------------------------------------------------------------------------
// Edges: (line a b), (arc start center end), (ellipse start center major end),
// (spline p1 p2 ...). Points may be given as vec3s.
// ---------------------------------------------------------------------------

func (b *builder) line(args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := b.points("line", args, 2)
	if err != nil {
		return nil, err
	}
	return b.ref(b.m.NewLine(pts[0], pts[1])), nil
}

func (b *builder) arc(args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := b.points("arc", args, 3)
	if err != nil {
		return nil, err
	}
	return b.ref(b.m.NewArc(pts[0], pts[1], pts[2])), nil
}

func (b *builder) ellipse(args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := b.points("ellipse", args, 4)
	if err != nil {
		return nil, err
	}
	return b.ref(b.m.NewEllipseArc(pts[0], pts[1], pts[2], pts[3])), nil
}

func (b *builder) spline(args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := b.points("spline", spread(args), -2)
	if err != nil {
		return nil, err
	}
	s, err := b.m.NewSpline(pts)
	if err != nil {
		return nil, err
	}
	return b.ref(s), nil
}

// ---------------------------------------------------------------------------
// (loop e1 e2 ...) uses every edge Forward; (unscramble l) fixes the order.
// (plane outer-loop hole-loop ...)
// ---------------------------------------------------------------------------

func (b *builder) loop(args []zygo.Sexp) (zygo.Sexp, error) {
	items := spread(args)
	edges := make([]topo.ID, len(items))
	for i, a := range items {
		id, err := b.entity("loop", a, topo.KindLine, topo.KindArc, topo.KindEllipse, topo.KindSpline)
		if err != nil {
			return nil, err
		}
		edges[i] = id
	}
	l := b.m.NewLoop()
	for _, e := range edges {
		b.m.AddUse(l, topo.Forward, e)
	}
	return b.ref(l), nil
}

func (b *builder) plane(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("plane requires an outer loop")
	}
	loops := make([]topo.ID, len(args))
	for i, a := range args {
		id, err := b.entity("plane", a, topo.KindLoop)
		if err != nil {
			return nil, err
		}
		loops[i] = id
	}
	f := b.m.NewPlane(loops[0])
	for _, h := range loops[1:] {
		b.m.AddHoleToFace(f, h)
	}
	return b.ref(f), nil
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

var (
	unitX = geom.V(1, 0, 0)
	unitY = geom.V(0, 1, 0)
	unitZ = geom.V(0, 0, 1)
)

// frame reads the keyword vectors names with their defaults.
func frame(op string, pa kwArgs, names []string, defs []geom.Vec) ([]geom.Vec, error) {
	out := make([]geom.Vec, len(names))
	for i, n := range names {
		v, err := pa.vec(n, defs[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[i] = v
	}
	return out, nil
}

// (polygon v1 v2 v3 ...)
func (b *builder) polygon(args []zygo.Sexp) (zygo.Sexp, error) {
	items := spread(args)
	if len(items) < 3 {
		return nil, fmt.Errorf("polygon requires at least 3 vertices, got %d", len(items))
	}
	vs := make([]geom.Vec, len(items))
	for i, a := range items {
		v, err := b.toPos("polygon", a)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return b.ref(shapes.Polygon(b.m, vs)), nil
}

// (square :origin o :x u :y v)
func (b *builder) square(args []zygo.Sexp) (zygo.Sexp, error) {
	f, err := frame("square", parseArgs(args), []string{"origin", "x", "y"}, []geom.Vec{{}, unitX, unitY})
	if err != nil {
		return nil, err
	}
	return b.ref(shapes.Square(b.m, f[0], f[1], f[2])), nil
}

// (circle :center c :normal n :x r) returns a loop; disk returns its plane.
func (b *builder) circle(args []zygo.Sexp) (zygo.Sexp, error) {
	f, err := frame("circle", parseArgs(args), []string{"center", "normal", "x"}, []geom.Vec{{}, unitZ, unitX})
	if err != nil {
		return nil, err
	}
	if !geom.ArePerpendicular(f[1], f[2]) {
		return nil, fmt.Errorf("circle: x must be perpendicular to normal: %w", topo.ErrPrecondition)
	}
	return b.ref(shapes.Circle(b.m, f[0], f[1], f[2])), nil
}

func (b *builder) disk(args []zygo.Sexp) (zygo.Sexp, error) {
	c, err := b.circle(args)
	if err != nil {
		return nil, fmt.Errorf("disk: %w", err)
	}
	return b.ref(b.m.NewPlane(c.(*sexpEntity).id)), nil
}

// (cube :origin o :x u :y v :z w)
func (b *builder) cube(args []zygo.Sexp) (zygo.Sexp, error) {
	f, err := frame("cube", parseArgs(args), []string{"origin", "x", "y", "z"}, []geom.Vec{{}, unitX, unitY, unitZ})
	if err != nil {
		return nil, err
	}
	return b.ref(shapes.Cube(b.m, f[0], f[1], f[2], f[3])), nil
}

// (cube-face c :top)
func (b *builder) cubeFace(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("cube-face requires a cube and a side, got %d arguments", len(args))
	}
	c, err := b.entity("cube-face", args[0], topo.KindVolume)
	if err != nil {
		return nil, err
	}
	name, err := toKeywordString(args[1])
	if err != nil {
		return nil, fmt.Errorf("cube-face: side: %w", err)
	}
	side, ok := shapes.ParseCubeSide(name)
	if !ok {
		return nil, fmt.Errorf("cube-face: invalid side %q, expected bottom/top/front/right/back/left", name)
	}
	f, err := shapes.CubeFace(b.m, c, side)
	if err != nil {
		return nil, err
	}
	return b.ref(f), nil
}

// (ball :center c :radius r)
func (b *builder) ball(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	center, err := pa.vec("center", geom.Vec{})
	if err != nil {
		return nil, fmt.Errorf("ball: %w", err)
	}
	r, err := pa.float("radius", 1)
	if err != nil {
		return nil, fmt.Errorf("ball: %w", err)
	}
	if r <= 0 {
		return nil, fmt.Errorf("ball: radius must be positive, got %g", r)
	}
	return b.ref(shapes.Ball(b.m, center, unitZ, unitX.MulScalar(r))), nil
}

// ---------------------------------------------------------------------------
// (extrude e :by v) or (extrude e :angle deg :axis a :origin o)
// ---------------------------------------------------------------------------

func (b *builder) extrude(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := one("extrude", pa.positional); err != nil {
		return nil, err
	}
	id, err := b.entity("extrude", pa.positional[0])
	if err != nil {
		return nil, err
	}
	tr, err := pa.transform()
	if err != nil {
		return nil, fmt.Errorf("extrude: %w", err)
	}

	var ext extrude.Extruded
	switch k := b.m.Kind(id); {
	case k == topo.KindPoint:
		ext, err = extrude.Point(b.m, id, tr)
	case k.IsEdge():
		ext, err = extrude.EdgeBy(b.m, id, tr)
	case k == topo.KindLoop:
		ext, err = extrude.Loop(b.m, id, tr)
	case k.IsFace():
		ext, err = extrude.Face(b.m, id, tr)
	case k == topo.KindGroup:
		ext, err = extrude.FaceGroup(b.m, id, tr)
	default:
		return nil, fmt.Errorf("extrude: cannot sweep %s %d: %w", k, id, topo.ErrPrecondition)
	}
	if err != nil {
		return nil, err
	}
	return &sexpSweep{ext: ext}, nil
}

func toSweep(op string, args []zygo.Sexp) (extrude.Extruded, error) {
	if err := one(op, args); err != nil {
		return extrude.Extruded{}, err
	}
	s, ok := args[0].(*sexpSweep)
	if !ok {
		return extrude.Extruded{}, fmt.Errorf("%s: expected extrude result, got %T (%s)", op, args[0], args[0].SexpString(nil))
	}
	return s.ext, nil
}

func (b *builder) sweepMiddle(args []zygo.Sexp) (zygo.Sexp, error) {
	ext, err := toSweep("sweep-middle", args)
	if err != nil {
		return nil, err
	}
	return b.ref(ext.Middle), nil
}

func (b *builder) sweepEnd(args []zygo.Sexp) (zygo.Sexp, error) {
	ext, err := toSweep("sweep-end", args)
	if err != nil {
		return nil, err
	}
	return b.ref(ext.End), nil
}

// ---------------------------------------------------------------------------
// Assembly
// ---------------------------------------------------------------------------

// (assembly e1 e2 ...) groups cells of one dimension.
func (b *builder) assembly(args []zygo.Sexp) (zygo.Sexp, error) {
	items := spread(args)
	if len(items) == 0 {
		return nil, fmt.Errorf("assembly requires at least one member")
	}
	members := make([]topo.ID, len(items))
	dim := -1
	for i, a := range items {
		id, err := b.entity("assembly", a)
		if err != nil {
			return nil, err
		}
		d := b.m.Kind(id).Dim()
		if d < 0 || (i > 0 && d != dim) {
			return nil, fmt.Errorf("assembly: member %d is a %s; members must be cells of one dimension: %w", id, b.m.Kind(id), topo.ErrPrecondition)
		}
		dim = d
		members[i] = id
	}
	g := b.m.NewGroup()
	for _, id := range members {
		b.m.AddToGroup(g, id)
	}
	return b.ref(g), nil
}

// (add-hole face loop)
func (b *builder) addHole(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("add-hole requires a face and a loop, got %d arguments", len(args))
	}
	f, err := b.entity("add-hole", args[0], topo.KindPlane, topo.KindRuled)
	if err != nil {
		return nil, err
	}
	l, err := b.entity("add-hole", args[1], topo.KindLoop)
	if err != nil {
		return nil, err
	}
	b.m.AddHoleToFace(f, l)
	return b.ref(f), nil
}

// (insert into other) cuts a face, volume or assembly out of into.
func (b *builder) insert(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("insert requires a target and an inserted entity, got %d arguments", len(args))
	}
	into, err := b.entity("insert", args[0])
	if err != nil {
		return nil, err
	}
	other, err := b.entity("insert", args[1])
	if err != nil {
		return nil, err
	}
	if err := assembly.InsertInto(b.m, into, other); err != nil {
		return nil, err
	}
	return b.ref(into), nil
}

// (embed-in into target)
func (b *builder) embedIn(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("embed-in requires a host and an embedded entity, got %d arguments", len(args))
	}
	into, err := b.entity("embed-in", args[0], topo.KindLine, topo.KindArc, topo.KindEllipse, topo.KindSpline,
		topo.KindPlane, topo.KindRuled, topo.KindVolume)
	if err != nil {
		return nil, err
	}
	target, err := b.entity("embed-in", args[1], topo.KindPoint, topo.KindLine, topo.KindArc, topo.KindEllipse,
		topo.KindSpline, topo.KindPlane, topo.KindRuled)
	if err != nil {
		return nil, err
	}
	if b.m.Kind(target).Dim() >= b.m.Kind(into).Dim() {
		return nil, fmt.Errorf("embed-in: %s %d cannot hold %s %d: %w", b.m.Kind(into), into, b.m.Kind(target), target, topo.ErrPrecondition)
	}
	b.m.Embed(into, target)
	return b.ref(into), nil
}

// (boundary group)
func (b *builder) boundary(args []zygo.Sexp) (zygo.Sexp, error) {
	if err := one("boundary", args); err != nil {
		return nil, err
	}
	g, err := b.entity("boundary", args[0], topo.KindGroup)
	if err != nil {
		return nil, err
	}
	bnd, err := assembly.CollectBoundary(b.m, g)
	if err != nil {
		return nil, err
	}
	return b.ref(bnd), nil
}

// (unscramble loop)
func (b *builder) unscramble(args []zygo.Sexp) (zygo.Sexp, error) {
	if err := one("unscramble", args); err != nil {
		return nil, err
	}
	l, err := b.entity("unscramble", args[0], topo.KindLoop)
	if err != nil {
		return nil, err
	}
	if err := assembly.UnscrambleLoop(b.m, l); err != nil {
		return nil, err
	}
	return b.ref(l), nil
}

// (weld-face big-volume small-volume big-face small-face)
func (b *builder) weldFace(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("weld-face requires two volumes and two faces, got %d arguments", len(args))
	}
	ids := make([]topo.ID, 4)
	for i, a := range args {
		id, err := b.entity("weld-face", a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	if err := assembly.WeldVolumeFace(b.m, ids[0], ids[1], ids[2], ids[3]); err != nil {
		return nil, err
	}
	return b.ref(ids[0]), nil
}

// ---------------------------------------------------------------------------
// Placement and output
// ---------------------------------------------------------------------------

// (translate e v) moves every point of e's closure in place.
func (b *builder) translate(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("translate requires an entity and a vector, got %d arguments", len(args))
	}
	id, err := b.entity("translate", args[0])
	if err != nil {
		return nil, err
	}
	v, err := toVec3(args[1])
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	b.m.TransformClosure(id, geom.Translate(v))
	return b.ref(id), nil
}

// (rotate e :angle deg :axis a :origin o) turns e's closure in place.
func (b *builder) rotate(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := one("rotate", pa.positional); err != nil {
		return nil, err
	}
	id, err := b.entity("rotate", pa.positional[0])
	if err != nil {
		return nil, err
	}
	if _, ok := pa.kw["angle"]; !ok {
		return nil, fmt.Errorf("rotate: expected :angle")
	}
	tr, err := pa.transform()
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	b.m.TransformClosure(id, tr)
	return b.ref(id), nil
}

// (duplicate e) copies e's closure.
func (b *builder) duplicate(args []zygo.Sexp) (zygo.Sexp, error) {
	if err := one("duplicate", args); err != nil {
		return nil, err
	}
	id, err := b.entity("duplicate", args[0])
	if err != nil {
		return nil, err
	}
	return b.ref(b.m.CopyClosure(id)), nil
}

// (emit e) marks e for export.
func (b *builder) emit(args []zygo.Sexp) (zygo.Sexp, error) {
	if err := one("emit", args); err != nil {
		return nil, err
	}
	id, err := b.entity("emit", args[0])
	if err != nil {
		return nil, err
	}
	for _, r := range b.res.Roots {
		if r == id {
			return nil, fmt.Errorf("emit: entity %d already emitted", id)
		}
	}
	b.res.Roots = append(b.res.Roots, id)
	return b.ref(id), nil
}
