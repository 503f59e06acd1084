package field

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultEpsilon is the central difference step used by Gradient and Normal.
const DefaultEpsilon = 1e-4

// Result is the outcome of evaluating a field at a point.
type Result struct {
	// Node is the leaf closest to the query point. It is a reference into
	// the evaluated graph, never a copy.
	Node *Node
	// Distance is the signed distance at the query point.
	Distance float64
}

// Evaluate returns the signed distance at p together with the closest leaf.
// It fails with ErrNoChildren if a group or wrapper without children is
// reached and with ErrNilNode if a nil child is reached.
func (n *Node) Evaluate(p v3.Vec) (res Result, err error) {
	if n == nil {
		return Result{}, ErrNilNode
	}
	defer recoverNodeError(&err)
	return n.eval(p), nil
}

// MustEvaluate is like Evaluate but panics with a *NodeError on malformed
// graphs.
func (n *Node) MustEvaluate(p v3.Vec) Result {
	if n == nil {
		panic(&NodeError{Kind: -1, Err: ErrNilNode})
	}
	return n.eval(p)
}

// Distance returns the signed distance at p. It panics with a *NodeError on
// malformed graphs; run Validate first when the graph comes from untrusted
// construction code.
func (n *Node) Distance(p v3.Vec) float64 {
	return n.MustEvaluate(p).Distance
}

// Gradient approximates the field gradient at p by central differences with
// step eps. The gradient points in the direction of increasing distance.
func (n *Node) Gradient(p v3.Vec, eps float64) v3.Vec {
	inv := 1 / (2 * eps)
	dx := v3.Vec{X: eps}
	dy := v3.Vec{Y: eps}
	dz := v3.Vec{Z: eps}
	return v3.Vec{
		X: (n.Distance(p.Add(dx)) - n.Distance(p.Sub(dx))) * inv,
		Y: (n.Distance(p.Add(dy)) - n.Distance(p.Sub(dy))) * inv,
		Z: (n.Distance(p.Add(dz)) - n.Distance(p.Sub(dz))) * inv,
	}
}

// Normal returns the unit gradient at p. Where the gradient vanishes the
// zero vector is returned instead of dividing by zero.
func (n *Node) Normal(p v3.Vec, eps float64) v3.Vec {
	g := n.Gradient(p, eps)
	l2 := g.Dot(g)
	if l2 > 0 {
		return g.MulScalar(1 / math.Sqrt(l2))
	}
	return v3.Vec{}
}

func (n *Node) eval(p v3.Vec) Result {
	switch n.Kind {
	case KindSphere:
		d := n.Data.(SphereData)
		return Result{Node: n, Distance: p.Length() - d.Radius}

	case KindPlane:
		d := n.Data.(PlaneData)
		return Result{Node: n, Distance: p.Dot(d.Normal) + d.Offset}

	case KindBox:
		d := n.Data.(BoxData)
		return Result{Node: n, Distance: boxDistance(p, d.HalfExtents)}

	case KindUnion:
		return n.evalUnion(p)

	case KindIntersection:
		return n.evalIntersection(p)

	case KindDifference:
		return n.evalDifference(p)

	case KindTransform:
		d := n.Data.(TransformData)
		return n.evalUnion(d.WorldToLocal.MulPosition(p))

	case KindRepetition:
		d := n.Data.(RepetitionData)
		return n.evalUnion(fold(p, d.CellSizes))

	case KindDisplacement:
		r := n.evalUnion(p)
		if d := n.Data.(DisplacementData); d.Fn != nil {
			r.Distance += d.Fn(p)
		}
		return r

	default:
		panic(&NodeError{Kind: n.Kind, Err: fmt.Errorf("%w: unknown node kind", ErrInvalidParameter)})
	}
}

// child evaluates the i-th child, panicking on a nil entry.
func (n *Node) child(i int, p v3.Vec) Result {
	c := n.Children[i]
	if c == nil {
		panic(&NodeError{Kind: n.Kind, Err: ErrNilNode})
	}
	return c.eval(p)
}

func (n *Node) requireChildren() {
	if len(n.Children) == 0 {
		panic(&NodeError{Kind: n.Kind, Err: ErrNoChildren})
	}
}

// evalUnion keeps the first child reaching the smallest distance.
func (n *Node) evalUnion(p v3.Vec) Result {
	n.requireChildren()
	best := n.child(0, p)
	for i := 1; i < len(n.Children); i++ {
		if r := n.child(i, p); r.Distance < best.Distance {
			best = r
		}
	}
	return best
}

// evalIntersection keeps the first child reaching the largest distance.
func (n *Node) evalIntersection(p v3.Vec) Result {
	n.requireChildren()
	best := n.child(0, p)
	for i := 1; i < len(n.Children); i++ {
		if r := n.child(i, p); r.Distance > best.Distance {
			best = r
		}
	}
	return best
}

// evalDifference reports the first child's leaf even where a subtracted
// child defines the surface.
func (n *Node) evalDifference(p v3.Vec) Result {
	n.requireChildren()
	r := n.child(0, p)
	for i := 1; i < len(n.Children); i++ {
		o := -n.child(i, p).Distance
		if o > r.Distance {
			r.Distance = o
		}
	}
	return r
}

func boxDistance(p, halfExtents v3.Vec) float64 {
	d := p.Abs().Sub(halfExtents)
	inside := math.Min(math.Max(d.X, math.Max(d.Y, d.Z)), 0)
	outside := v3.Vec{
		X: math.Max(d.X, 0),
		Y: math.Max(d.Y, 0),
		Z: math.Max(d.Z, 0),
	}
	return inside + outside.Length()
}

// fold maps p into the cell centered at the origin. The absolute coordinate
// is folded, which mirrors space at the origin.
func fold(p, cells v3.Vec) v3.Vec {
	return v3.Vec{
		X: foldAxis(p.X, cells.X),
		Y: foldAxis(p.Y, cells.Y),
		Z: foldAxis(p.Z, cells.Z),
	}
}

func foldAxis(x, cell float64) float64 {
	if math.IsInf(cell, 0) {
		return x
	}
	half := cell / 2
	return math.Mod(math.Abs(x)+half, cell) - half
}
