// Package voxel provides integer identities for the cells and edges of an
// unbounded uniform grid, and the sparse containers keyed by them.
//
// A Voxel is identified by its minimum corner. An Edge is an ordered pair of
// voxel corners; an edge and its reverse are distinct keys unless they are
// explicitly canonicalized.
package voxel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Voxel is an integer grid coordinate.
type Voxel struct {
	X, Y, Z int
}

// Unit holds the unit step along each axis.
var Unit = [3]Voxel{{X: 1}, {Y: 1}, {Z: 1}}

func (v Voxel) Add(o Voxel) Voxel {
	return Voxel{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Voxel) Sub(o Voxel) Voxel {
	return Voxel{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Axis returns the component along axis k (0, 1 or 2).
func (v Voxel) Axis(k int) int {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("voxel: axis %d out of range", k))
}

// Vec converts the coordinate to a floating point vector in grid space.
func (v Voxel) Vec() v3.Vec {
	return v3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Less orders voxels lexicographically by X, then Y, then Z.
func (v Voxel) Less(o Voxel) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

func (v Voxel) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Min returns the componentwise minimum of a and b.
func Min(a, b Voxel) Voxel {
	return Voxel{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the componentwise maximum of a and b.
func Max(a, b Voxel) Voxel {
	return Voxel{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}
