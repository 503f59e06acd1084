// Package dc implements the kernel.Kernel interface with the dual
// contouring extractor.
package dc

import (
	"fmt"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/surface"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel meshes field graphs by dual contouring. Options other than the
// bounds and resolution are taken from the template passed to New.
type Kernel struct {
	template surface.Options
}

// New returns a kernel using opts for placement, crossing, iso level and
// logging. Bounds and resolution come from each ToMesh region.
func New(opts surface.Options) *Kernel {
	return &Kernel{template: opts}
}

// Default returns a kernel with surface.DefaultOptions.
func Default() *Kernel {
	return New(surface.DefaultOptions())
}

func (k *Kernel) Name() string { return "dc" }

// Extract runs the extractor over region and returns the raw surface.
func (k *Kernel) Extract(root *field.Node, region kernel.Region) (*surface.IndexedSurface, error) {
	opts := k.template
	opts.Lower = region.Lower
	opts.Upper = region.Upper
	opts.Resolution = region.Resolution
	// Meshes are always triangulated; quads are an export concern.
	opts.Faces = surface.FacesTriangles
	s, err := surface.Extract(root, opts)
	if err != nil {
		return nil, fmt.Errorf("dc: %w", err)
	}
	return s, nil
}

// ToMesh extracts the surface and converts it to a smooth-shaded mesh.
func (k *Kernel) ToMesh(root *field.Node, region kernel.Region) (*kernel.Mesh, error) {
	s, err := k.Extract(root, region)
	if err != nil {
		return nil, err
	}
	return kernel.IndexedMesh(s.Vertices, s.Triangles()), nil
}
