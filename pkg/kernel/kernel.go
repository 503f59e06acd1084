// Package kernel defines the meshing kernel interface. Implementations
// (dual contouring, sdfx marching cubes) turn a field graph inside a region
// into a render-ready triangle mesh. The kernel abstraction allows swapping
// backends without changing the rest of the system.
package kernel

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
)

// Region is the axis-aligned box a kernel samples, with the cell size to
// sample it at.
type Region struct {
	Lower      v3.Vec `json:"lower" yaml:"lower"`
	Upper      v3.Vec `json:"upper" yaml:"upper"`
	Resolution v3.Vec `json:"resolution" yaml:"resolution"`
}

// Cube returns the region [-half, half]^3 sampled at res on every axis.
func Cube(half, res float64) Region {
	return Region{
		Lower:      v3.Vec{X: -half, Y: -half, Z: -half},
		Upper:      v3.Vec{X: half, Y: half, Z: half},
		Resolution: v3.Vec{X: res, Y: res, Z: res},
	}
}

// Size returns Upper - Lower.
func (r Region) Size() v3.Vec {
	return r.Upper.Sub(r.Lower)
}

// Cells returns the number of cells along the longest axis, at least 1.
func (r Region) Cells() int {
	size := r.Size()
	n := 1.0
	for _, c := range [][2]float64{{size.X, r.Resolution.X}, {size.Y, r.Resolution.Y}, {size.Z, r.Resolution.Z}} {
		if c[1] > 0 {
			n = math.Max(n, math.Ceil(c[0]/c[1]))
		}
	}
	return int(n)
}

// Validate reports an empty box or a non-positive resolution.
func (r Region) Validate() error {
	lo := [3]float64{r.Lower.X, r.Lower.Y, r.Lower.Z}
	hi := [3]float64{r.Upper.X, r.Upper.Y, r.Upper.Z}
	res := [3]float64{r.Resolution.X, r.Resolution.Y, r.Resolution.Z}
	for k := 0; k < 3; k++ {
		if !(lo[k] < hi[k]) {
			return fmt.Errorf("kernel: region axis %d: lower %g not below upper %g", k, lo[k], hi[k])
		}
		if !(res[k] > 0) || math.IsInf(res[k], 0) {
			return fmt.Errorf("kernel: region axis %d: resolution %g", k, res[k])
		}
	}
	return nil
}

// Kernel is the abstract meshing interface.
type Kernel interface {
	// Name identifies the backend, e.g. "dc" or "sdfx".
	Name() string
	// ToMesh meshes the surface of root inside region.
	ToMesh(root *field.Node, region Region) (*Mesh, error)
}
