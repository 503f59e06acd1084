// Package sdfx implements the kernel.Kernel interface using the marching
// cubes renderer of the github.com/deadsy/sdfx SDF-based CAD library. It
// serves as a fast preview and as a baseline for the dual contouring
// kernel.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*SdfxKernel)(nil)
	_ sdf.SDF3      = (*fieldSDF)(nil)
)

// fieldSDF adapts a field graph to sdf.SDF3, bounded by a region.
type fieldSDF struct {
	root *field.Node
	bb   sdf.Box3
}

// Evaluate returns the signed distance at p.
func (s *fieldSDF) Evaluate(p v3.Vec) float64 {
	return s.root.Distance(p)
}

// BoundingBox returns the region the field is sampled in.
func (s *fieldSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// SDF3 wraps a validated field graph as an sdf.SDF3 whose bounding box is
// the region. The graph must stay unmodified while the result is in use.
func SDF3(root *field.Node, region kernel.Region) (sdf.SDF3, error) {
	if err := field.Check(root); err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	if err := region.Validate(); err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	return &fieldSDF{root: root, bb: sdf.Box3{Min: region.Lower, Max: region.Upper}}, nil
}

// SdfxKernel implements kernel.Kernel using sdfx marching cubes.
//
// Every ToMesh call leaves runtime.NumCPU() goroutines of the sdfx renderer
// (render.evalRoutines) blocked on a package-level channel for the life of
// the process. Long-running callers such as the workbench accumulate them.
type SdfxKernel struct {
	// MaxCells caps the cell count along the longest region axis.
	// Zero means no cap.
	MaxCells int
	// Iso selects the level set to mesh, f(p) = Iso.
	Iso float64
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func (k *SdfxKernel) Name() string { return "sdfx" }

// cells returns the marching cubes resolution for region.
func (k *SdfxKernel) cells(region kernel.Region) int {
	n := region.Cells()
	if k.MaxCells > 0 && n > k.MaxCells {
		n = k.MaxCells
	}
	return n
}

// ToMesh converts a field graph to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(root *field.Node, region kernel.Region) (*kernel.Mesh, error) {
	if k.Iso != 0 && root != nil {
		root = field.Offset(-k.Iso, root)
	}
	s, err := SDF3(root, region)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells(region))
	triangles := render.ToTriangles(s, renderer)

	tris := make([][3]v3.Vec, len(triangles))
	for i, tri := range triangles {
		tris[i] = [3]v3.Vec{tri[0], tri[1], tri[2]}
	}
	return kernel.FlatMesh(tris), nil
}
