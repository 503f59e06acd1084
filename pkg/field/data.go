package field

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// SphereData is a sphere of the given radius centered at the origin.
type SphereData struct {
	Radius float64
}

func (SphereData) nodeData() {}

// PlaneData is the half-space dot(p, Normal) + Offset <= 0.
// Normal is expected to have unit length.
type PlaneData struct {
	Normal v3.Vec
	Offset float64
}

func (PlaneData) nodeData() {}

// BoxData is an axis-aligned box centered at the origin.
type BoxData struct {
	HalfExtents v3.Vec
}

func (BoxData) nodeData() {}

// ---------------------------------------------------------------------------
// Groups
// ---------------------------------------------------------------------------

// GroupData carries no parameters; union, intersection and difference are
// fully described by their kind and children.
type GroupData struct{}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Wrappers
// ---------------------------------------------------------------------------

// TransformData holds the world-to-local transform applied to the query point
// before the child is evaluated. Only rigid transforms preserve distances.
type TransformData struct {
	WorldToLocal sdf.M44
}

func (TransformData) nodeData() {}

// LocalToWorld returns the inverse of the stored transform.
func (d TransformData) LocalToWorld() sdf.M44 {
	return d.WorldToLocal.Inverse()
}

// RepetitionData holds per-axis cell sizes. An infinite cell size disables
// folding along that axis.
type RepetitionData struct {
	CellSizes v3.Vec
}

func (RepetitionData) nodeData() {}

// NoRepetition returns cell sizes that leave every axis unfolded.
func NoRepetition() v3.Vec {
	inf := math.Inf(1)
	return v3.Vec{X: inf, Y: inf, Z: inf}
}

// DisplacementFunc returns a scalar offset for a world-space position.
//
// The offset is added to the distance of the wrapped children. Unless the
// function is itself 1-Lipschitz the resulting field may overestimate the
// true distance, which sphere tracing and dual contouring assume it never
// does. Keeping the offset conservative is the caller's responsibility.
type DisplacementFunc func(p v3.Vec) float64

// DisplacementData holds the offset function of a displacement node. A nil
// function adds nothing.
type DisplacementData struct {
	Fn DisplacementFunc
}

func (DisplacementData) nodeData() {}

// Constant returns a displacement function with a fixed offset.
func Constant(d float64) DisplacementFunc {
	return func(v3.Vec) float64 { return d }
}
