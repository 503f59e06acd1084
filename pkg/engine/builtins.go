package engine

import (
	"fmt"
	"maps"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/render"
	"github.com/chazu/sdfkit/pkg/scene"
)

// ---------------------------------------------------------------------------
// Go values passed through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a field node built by a shape builtin.
type sexpNode struct {
	node *field.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %s)", n.node)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpMaterial struct {
	mat render.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	d := m.mat.Diffuse
	return fmt.Sprintf("(material :diffuse (vec3 %g %g %g) :hardness %g)", d.X, d.Y, d.Z, m.mat.Hardness)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toNode(s zygo.Sexp) (*field.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3OrScalar accepts a vec3 or a number used on every axis.
func toVec3OrScalar(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("expected vec3 or number, got %T (%s)", s, s.SexpString(nil))
	}
	return v3.Vec{X: f, Y: f, Z: f}, nil
}

func toMaterial(s zygo.Sexp) (render.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.mat, nil
	}
	return render.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toNodes converts every argument to a shape, flattening lists.
func toNodes(fn string, args []zygo.Sexp) ([]*field.Node, error) {
	var nodes []*field.Node
	for i, a := range args {
		switch v := a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(v)
			if err != nil {
				return nil, fmt.Errorf("%s: child %d: %w", fn, i, err)
			}
			sub, err := toNodes(fn, items)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
		default:
			n, err := toNode(a)
			if err != nil {
				return nil, fmt.Errorf("%s: child %d: %w", fn, i, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

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

// floatKW reads an optional numeric keyword into dst.
func floatKW(fn string, pa kwArgs, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// vecKW reads an optional vec3 keyword into dst.
func vecKW(fn string, pa kwArgs, key string, dst *v3.Vec) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	vec, err := toVec3OrScalar(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = vec
	return nil
}

// wrapper parses (name VEC SHAPE...) where several shapes are unioned.
func wrapper(fn string, args []zygo.Sexp) (v3.Vec, *field.Node, error) {
	if len(args) < 2 {
		return v3.Vec{}, nil, fmt.Errorf("%s requires a vector and a shape", fn)
	}
	vec, err := toVec3OrScalar(args[0])
	if err != nil {
		return v3.Vec{}, nil, fmt.Errorf("%s: %w", fn, err)
	}
	child, err := single(fn, args[1:])
	return vec, child, err
}

// single returns the only shape in args or the union of several.
func single(fn string, args []zygo.Sexp) (*field.Node, error) {
	nodes, err := toNodes(fn, args)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%s requires a shape", fn)
	case 1:
		return nodes[0], nil
	}
	return field.Union(nodes...), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the shape builtins into env. Parts declared by
// the script are added to sc; parts without explicit bounds use region.
//
// Source must go through preprocessSource first so keywords are
// recognizable.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene, region kernel.Region) {
	node := func(n *field.Node) (zygo.Sexp, error) { return &sexpNode{node: n}, nil }

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (sphere 2) or (sphere :radius 2)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("sphere", "radius"); err != nil {
			return zygo.SexpNull, err
		}
		r := 1.0
		if len(pa.positional) > 0 {
			f, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			r = f
		}
		if err := floatKW("sphere", pa, "radius", &r); err != nil {
			return zygo.SexpNull, err
		}
		if r < 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: negative radius %g", r)
		}
		return node(field.Sphere(r))
	})

	// (box 2), (box :size (vec3 2 1 1)) or (box :half (vec3 1 0.5 0.5))
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("box", "size", "half"); err != nil {
			return zygo.SexpNull, err
		}
		size := v3.Vec{X: 1, Y: 1, Z: 1}
		if len(pa.positional) > 0 {
			v, err := toVec3OrScalar(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = v
		}
		if err := vecKW("box", pa, "size", &size); err != nil {
			return zygo.SexpNull, err
		}
		if _, ok := pa.kw["half"]; ok {
			var half v3.Vec
			if err := vecKW("box", pa, "half", &half); err != nil {
				return zygo.SexpNull, err
			}
			size = half.MulScalar(2)
		}
		if size.X < 0 || size.Y < 0 || size.Z < 0 {
			return zygo.SexpNull, fmt.Errorf("box: negative size %v", size)
		}
		return node(field.BoxLengths(size))
	})

	// (plane) is the xy-plane; (plane :normal (vec3 0 1 0) :offset 2)
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("plane", "normal", "offset"); err != nil {
			return zygo.SexpNull, err
		}
		normal := v3.Vec{Z: 1}
		offset := 0.0
		if err := vecKW("plane", pa, "normal", &normal); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW("plane", pa, "offset", &offset); err != nil {
			return zygo.SexpNull, err
		}
		if normal.Length() == 0 {
			return zygo.SexpNull, fmt.Errorf("plane: zero normal")
		}
		return node(field.Plane(normal, offset))
	})

	// (union a b ...), (intersection a b ...), (difference a b ...)
	for _, op := range []struct {
		name string
		make func(...*field.Node) *field.Node
	}{
		{"union", field.Union},
		{"intersection", field.Intersection},
		{"difference", field.Difference},
	} {
		env.AddFunction(op.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			nodes, err := toNodes(op.name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			if len(nodes) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", op.name)
			}
			return node(op.make(nodes...))
		})
	}

	// (translate (vec3 1 0 0) shape)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		t, child, err := wrapper("translate", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return node(field.Translate(t, child))
	})

	// (rotate (vec3 0 0 90) shape), angles in degrees applied X, then Y, then Z
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		deg, child, err := wrapper("rotate", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return node(field.Rotate(deg, child))
	})

	// (repeat (vec3 5 5 0) shape); a zero cell size disables that axis
	env.AddFunction("repeat", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		cells, child, err := wrapper("repeat", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		inf := field.NoRepetition()
		if cells.X == 0 {
			cells.X = inf.X
		}
		if cells.Y == 0 {
			cells.Y = inf.Y
		}
		if cells.Z == 0 {
			cells.Z = inf.Z
		}
		if cells.X < 0 || cells.Y < 0 || cells.Z < 0 {
			return zygo.SexpNull, fmt.Errorf("repeat: negative cell size %v", cells)
		}
		return node(field.Repeat(cells, child))
	})

	// (offset 0.1 shape) grows a shape; negative values shrink it
	env.AddFunction("offset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("offset requires a distance and a shape")
		}
		d, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset: %w", err)
		}
		child, err := single("offset", args[1:])
		if err != nil {
			return zygo.SexpNull, err
		}
		return node(field.Offset(-d, child))
	})

	// (material :diffuse (vec3 0.8 0.1 0.1) :specular 1 :hardness 64)
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("material", "ambient", "diffuse", "specular", "hardness"); err != nil {
			return zygo.SexpNull, err
		}
		m := render.DefaultMaterial()
		for key, dst := range map[string]*v3.Vec{"ambient": &m.Ambient, "diffuse": &m.Diffuse, "specular": &m.Specular} {
			if err := vecKW("material", pa, key, dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := floatKW("material", pa, "hardness", &m.Hardness); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMaterial{mat: m}, nil
	})

	// (attach shape :name "lid" :material steel) returns a tagged copy of
	// shape. A material also reaches every leaf below that has none.
	env.AddFunction("attach", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("attach", "name", "material"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("attach requires exactly one shape")
		}
		n, err := toNode(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attach: %w", err)
		}
		n = field.Clone(n)
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("attach: name: %w", err)
			}
			n.Attach(field.AttachName, s)
		}
		if v, ok := pa.kw["material"]; ok {
			m, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("attach: material: %w", err)
			}
			n.Attach(field.AttachMaterial, m)
			field.Walk(n, func(c *field.Node) bool {
				if _, ok := c.Attachment(field.AttachMaterial); !ok && c.Kind.IsLeaf() {
					c.Attach(field.AttachMaterial, m)
				}
				return true
			})
		}
		return node(n)
	})

	// (part "name" shape :bounds 2 :resolution 0.05) declares a part;
	// (part "name") returns the shape of an earlier one.
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("part", "bounds", "lower", "upper", "resolution"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		if len(pa.positional) == 1 && len(pa.kw) == 0 {
			p := sc.Lookup(partName)
			if p == nil {
				return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
			}
			return node(p.Root)
		}

		root, err := single("part", pa.positional[1:])
		if err != nil {
			return zygo.SexpNull, err
		}
		r := region
		if v, ok := pa.kw["bounds"]; ok {
			half, err := toVec3OrScalar(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part: bounds: %w", err)
			}
			r.Lower, r.Upper = half.MulScalar(-1), half
		}
		if err := vecKW("part", pa, "lower", &r.Lower); err != nil {
			return zygo.SexpNull, err
		}
		if err := vecKW("part", pa, "upper", &r.Upper); err != nil {
			return zygo.SexpNull, err
		}
		if err := vecKW("part", pa, "resolution", &r.Resolution); err != nil {
			return zygo.SexpNull, err
		}
		if err := r.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}
		if root.Name() == "" {
			root = renamed(root, partName)
		}
		if err := sc.Add(&scene.Part{Name: partName, Root: root, Region: r}); err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		return node(root)
	})
}

// renamed returns a copy of n carrying name. Children are shared.
func renamed(n *field.Node, name string) *field.Node {
	c := *n
	c.Attachments = maps.Clone(n.Attachments)
	return c.Attach(field.AttachName, name)
}
