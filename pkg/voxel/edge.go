package voxel

import (
	"fmt"
	"iter"
)

// Edge is a directed pair of grid corners.
type Edge struct {
	From, To Voxel
}

// E returns the edge from a to b.
func E(a, b Voxel) Edge {
	return Edge{From: a, To: b}
}

// Reverse returns the edge with its endpoints swapped.
func (e Edge) Reverse() Edge {
	return Edge{From: e.To, To: e.From}
}

// Canonical returns the undirected form of e: the endpoint that sorts first
// becomes From. For axis-aligned edges this makes the direction positive.
func (e Edge) Canonical() Edge {
	if e.To.Less(e.From) {
		return e.Reverse()
	}
	return e
}

// IsCanonical reports whether e equals its canonical form.
func (e Edge) IsCanonical() bool {
	return !e.To.Less(e.From)
}

// Delta returns To - From.
func (e Edge) Delta() Voxel {
	return e.To.Sub(e.From)
}

// Axis returns the dominant axis of the edge and the sign of the edge's
// direction along it. Ties go to the lower axis.
func (e Edge) Axis() (axis, sign int) {
	d := e.Delta()
	best := 0
	for k := 1; k < 3; k++ {
		if abs(d.Axis(k)) > abs(d.Axis(best)) {
			best = k
		}
	}
	if d.Axis(best) < 0 {
		return best, -1
	}
	return best, 1
}

// Voxels returns the four voxels sharing a unit edge, wound counter-clockwise
// when looking against the edge's direction. With axis k the ring lies in
// the plane spanned by u = (k+1)%3 and w = (k+2)%3 and starts at the voxel
// whose minimum corner is the edge's lower endpoint. Reversing the edge
// reverses the winding.
func (e Edge) Voxels() [4]Voxel {
	k, s := e.Axis()
	m := Min(e.From, e.To)
	du := Unit[(k+1)%3]
	dw := Unit[(k+2)%3]
	if s > 0 {
		return [4]Voxel{m, m.Sub(du), m.Sub(du).Sub(dw), m.Sub(dw)}
	}
	return [4]Voxel{m, m.Sub(dw), m.Sub(du).Sub(dw), m.Sub(du)}
}

func (e Edge) String() string {
	return fmt.Sprintf("%v->%v", e.From, e.To)
}

// CubeEdges returns the 12 canonical edges of the unit cube whose minimum
// corner is the origin, grouped by axis.
func CubeEdges() [12]Edge {
	var edges [12]Edge
	i := 0
	for k := 0; k < 3; k++ {
		du := Unit[(k+1)%3]
		dw := Unit[(k+2)%3]
		for _, off := range [4]Voxel{{}, du, du.Add(dw), dw} {
			edges[i] = Edge{From: off, To: off.Add(Unit[k])}
			i++
		}
	}
	return edges
}

// VoxelEdges returns the 12 canonical edges bounding voxel v.
func VoxelEdges(v Voxel) [12]Edge {
	edges := CubeEdges()
	for i := range edges {
		edges[i].From = edges[i].From.Add(v)
		edges[i].To = edges[i].To.Add(v)
	}
	return edges
}

// Edges yields every canonical edge leaving a voxel in the inclusive range
// [lo, hi] along +X, +Y and +Z. Each edge is yielded exactly once; edges on
// the far faces reach at most one unit past hi.
func Edges(lo, hi Voxel) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for z := lo.Z; z <= hi.Z; z++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for x := lo.X; x <= hi.X; x++ {
					v := Voxel{x, y, z}
					for _, u := range Unit {
						if !yield(Edge{From: v, To: v.Add(u)}) {
							return
						}
					}
				}
			}
		}
	}
}

// CountEdges returns the number of edges Edges(lo, hi) yields.
func CountEdges(lo, hi Voxel) int {
	n := 1
	for k := 0; k < 3; k++ {
		d := hi.Axis(k) - lo.Axis(k) + 1
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return 3 * n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
