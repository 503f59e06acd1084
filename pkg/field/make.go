package field

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sphere returns a sphere of radius r centered at the origin.
func Sphere(r float64) *Node {
	return &Node{Kind: KindSphere, Data: SphereData{Radius: r}}
}

// Plane returns the half-space below the plane dot(p, normal) + offset = 0.
// The normal is normalized; a zero normal is kept as is and rejected by
// Validate.
func Plane(normal v3.Vec, offset float64) *Node {
	if l := normal.Length(); l > 0 {
		normal = normal.MulScalar(1 / l)
	}
	return &Node{Kind: KindPlane, Data: PlaneData{Normal: normal, Offset: offset}}
}

// XYPlane returns the plane z = 0 with its normal along +Z.
func XYPlane() *Node {
	return Plane(v3.Vec{Z: 1}, 0)
}

// Box returns an axis-aligned box with the given half extents.
func Box(halfExtents v3.Vec) *Node {
	return &Node{Kind: KindBox, Data: BoxData{HalfExtents: halfExtents}}
}

// BoxLengths returns an axis-aligned box with the given edge lengths.
func BoxLengths(lengths v3.Vec) *Node {
	return Box(lengths.MulScalar(0.5))
}

// UnitBox returns the box with half extents 0.5 on every axis.
func UnitBox() *Node {
	return Box(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
}

// Union returns a group evaluating to the smallest child distance.
func Union(children ...*Node) *Node {
	return &Node{Kind: KindUnion, Data: GroupData{}, Children: children}
}

// Intersection returns a group evaluating to the largest child distance.
func Intersection(children ...*Node) *Node {
	return &Node{Kind: KindIntersection, Data: GroupData{}, Children: children}
}

// Difference returns a group that carves the union of children[1:] out of
// children[0].
func Difference(children ...*Node) *Node {
	return &Node{Kind: KindDifference, Data: GroupData{}, Children: children}
}

// Transform places child in the world using the rigid localToWorld matrix.
// The inverse is stored so that evaluation maps query points into the
// child's frame.
func Transform(localToWorld sdf.M44, child *Node) *Node {
	return WorldToLocal(localToWorld.Inverse(), child)
}

// WorldToLocal wraps child with an already inverted transform.
func WorldToLocal(worldToLocal sdf.M44, child *Node) *Node {
	n := &Node{Kind: KindTransform, Data: TransformData{WorldToLocal: worldToLocal}}
	if child != nil {
		n.Children = []*Node{child}
	}
	return n
}

// Translate moves child by t.
func Translate(t v3.Vec, child *Node) *Node {
	return Transform(sdf.Translate3d(t), child)
}

// Rotate rotates child by Euler angles in degrees, applied X then Y then Z.
func Rotate(degrees v3.Vec, child *Node) *Node {
	rx := degrees.X * math.Pi / 180
	ry := degrees.Y * math.Pi / 180
	rz := degrees.Z * math.Pi / 180
	m := sdf.RotateZ(rz).Mul(sdf.RotateY(ry)).Mul(sdf.RotateX(rx))
	return Transform(m, child)
}

// Repeat folds space around the origin with the given per-axis cell sizes.
// Use math.Inf(1) on an axis to leave it unfolded.
func Repeat(cellSizes v3.Vec, child *Node) *Node {
	n := &Node{Kind: KindRepetition, Data: RepetitionData{CellSizes: cellSizes}}
	if child != nil {
		n.Children = []*Node{child}
	}
	return n
}

// Displace adds fn to the union of children.
func Displace(fn DisplacementFunc, children ...*Node) *Node {
	return &Node{Kind: KindDisplacement, Data: DisplacementData{Fn: fn}, Children: children}
}

// Offset adds a constant d to the distance of child: d > 0 shrinks it and
// d < 0 grows it.
func Offset(d float64, child *Node) *Node {
	return Displace(Constant(d), child)
}
