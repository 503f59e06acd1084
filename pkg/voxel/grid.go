package voxel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Grid maps world space onto integer voxel coordinates. Voxel (0,0,0) has its
// minimum corner at Origin and every voxel spans Resolution.
type Grid struct {
	Origin     v3.Vec
	Resolution v3.Vec
}

// NewGrid returns the grid anchored at origin with per-axis cell sizes.
func NewGrid(origin, resolution v3.Vec) Grid {
	return Grid{Origin: origin, Resolution: resolution}
}

// Transform returns the world-to-grid matrix: translate by -Origin, then
// scale by 1/Resolution.
func (g Grid) Transform() sdf.M44 {
	inv := v3.Vec{X: 1 / g.Resolution.X, Y: 1 / g.Resolution.Y, Z: 1 / g.Resolution.Z}
	return sdf.Scale3d(inv).Mul(sdf.Translate3d(g.Origin.MulScalar(-1)))
}

// ToLocal maps a world point into continuous grid coordinates.
func (g Grid) ToLocal(p v3.Vec) v3.Vec {
	d := p.Sub(g.Origin)
	return v3.Vec{X: d.X / g.Resolution.X, Y: d.Y / g.Resolution.Y, Z: d.Z / g.Resolution.Z}
}

// ToWorld maps continuous grid coordinates back into world space.
func (g Grid) ToWorld(l v3.Vec) v3.Vec {
	return v3.Vec{
		X: g.Origin.X + l.X*g.Resolution.X,
		Y: g.Origin.Y + l.Y*g.Resolution.Y,
		Z: g.Origin.Z + l.Z*g.Resolution.Z,
	}
}

// VoxelAt returns the voxel containing world point p.
func (g Grid) VoxelAt(p v3.Vec) Voxel {
	l := g.ToLocal(p)
	return Voxel{int(math.Floor(l.X)), int(math.Floor(l.Y)), int(math.Floor(l.Z))}
}

// Corner returns the world position of v's minimum corner.
func (g Grid) Corner(v Voxel) v3.Vec {
	return g.ToWorld(v.Vec())
}

// Center returns the world position of v's center.
func (g Grid) Center(v Voxel) v3.Vec {
	return g.ToWorld(v.Vec().Add(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
}
