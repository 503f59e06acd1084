package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/sdfkit/pkg/surface"
)

// STL writes a binary STL file. Quads are split into two triangles.
type STL struct{}

// Export writes s to path.
func (STL) Export(path string, s *surface.IndexedSurface) error {
	if err := render.SaveSTL(path, Triangles(s)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Triangles converts s into sdfx triangles.
func Triangles(s *surface.IndexedSurface) []*sdf.Triangle3 {
	tris := s.Triangles()
	out := make([]*sdf.Triangle3, len(tris))
	for i, t := range tris {
		out[i] = &sdf.Triangle3{s.Vertices[t[0]], s.Vertices[t[1]], s.Vertices[t[2]]}
	}
	return out
}
