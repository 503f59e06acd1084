package field

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ValidationError describes a single problem found in a node graph.
type ValidationError struct {
	Path string // slash-separated child indices from the root, "/" for the root
	Kind Kind
	Err  error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("field: %s at %s: %v", e.Kind, e.Path, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that a graph can be evaluated: no nil nodes, no cycles,
// every group and wrapper has children, wrappers have exactly one child where
// required and parameters are finite and in range. An empty slice means the
// graph is valid. Validate never mutates the graph.
func Validate(root *Node) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*Node]int)
	var errs []ValidationError

	var visit func(n *Node, path string, parent Kind)
	visit = func(n *Node, path string, parent Kind) {
		if n == nil {
			errs = append(errs, ValidationError{Path: path, Kind: parent, Err: ErrNilNode})
			return
		}
		switch color[n] {
		case black:
			return
		case gray:
			errs = append(errs, ValidationError{Path: path, Kind: n.Kind, Err: ErrCycle})
			return
		}
		color[n] = gray

		for _, err := range validateNode(n) {
			errs = append(errs, ValidationError{Path: path, Kind: n.Kind, Err: err})
		}
		for i, c := range n.Children {
			visit(c, childPath(path, i), n.Kind)
		}

		color[n] = black
	}

	visit(root, "/", -1)
	return errs
}

// Check runs Validate and joins all findings into one error.
func Check(root *Node) error {
	verrs := Validate(root)
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i, e := range verrs {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func childPath(path string, i int) string {
	if path == "/" {
		return fmt.Sprintf("/%d", i)
	}
	return fmt.Sprintf("%s/%d", path, i)
}

// validateNode checks a single node without descending into its children.
func validateNode(n *Node) []error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...))
	}

	switch {
	case n.Kind.IsLeaf():
		if len(n.Children) > 0 {
			invalid("primitive has %d children", len(n.Children))
		}
	case len(n.Children) == 0:
		errs = append(errs, ErrNoChildren)
	case n.Kind.IsUnary() && len(n.Children) != 1:
		invalid("wrapper has %d children, want 1", len(n.Children))
	}

	switch n.Kind {
	case KindSphere:
		d, ok := n.Data.(SphereData)
		if !ok {
			invalid("data is %T", n.Data)
			break
		}
		if !finite(d.Radius) || d.Radius < 0 {
			invalid("radius %g", d.Radius)
		}
	case KindPlane:
		d, ok := n.Data.(PlaneData)
		if !ok {
			invalid("data is %T", n.Data)
			break
		}
		if !finiteVec(d.Normal) || math.Abs(d.Normal.Length()-1) > 1e-6 {
			invalid("plane normal %v is not a unit vector", d.Normal)
		}
		if !finite(d.Offset) {
			invalid("plane offset %g", d.Offset)
		}
	case KindBox:
		d, ok := n.Data.(BoxData)
		if !ok {
			invalid("data is %T", n.Data)
			break
		}
		h := d.HalfExtents
		if !finiteVec(h) || h.X < 0 || h.Y < 0 || h.Z < 0 {
			invalid("half extents %v", h)
		}
	case KindUnion, KindIntersection, KindDifference:
		if _, ok := n.Data.(GroupData); !ok {
			invalid("data is %T", n.Data)
		}
	case KindTransform:
		if _, ok := n.Data.(TransformData); !ok {
			invalid("data is %T", n.Data)
		}
	case KindRepetition:
		d, ok := n.Data.(RepetitionData)
		if !ok {
			invalid("data is %T", n.Data)
			break
		}
		for _, c := range []float64{d.CellSizes.X, d.CellSizes.Y, d.CellSizes.Z} {
			if math.IsNaN(c) || c <= 0 {
				invalid("cell size %g", c)
			}
		}
	case KindDisplacement:
		if _, ok := n.Data.(DisplacementData); !ok {
			invalid("data is %T", n.Data)
		}
	default:
		invalid("unknown node kind")
	}
	return errs
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v v3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
