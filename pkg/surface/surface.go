// Package surface extracts indexed polygon surfaces from field graphs using
// dual contouring on a uniform grid.
//
// Extraction runs in three phases. The edge scan evaluates the field at both
// ends of every grid edge inside the bounds and stores a Hermite sample, a
// crossing point with its surface normal, for every edge whose end signs
// differ. Vertex placement puts one vertex into every voxel touching such an
// edge, either by minimizing the quadric error of the voxel's samples or at
// the voxel center. Topology then connects the four voxels around every
// sign-changing edge into a quad, emitted as two triangles or one quad.
package surface

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a polygon given by vertex indices in counter-clockwise order when
// seen from outside. Faces have 3 or 4 indices.
type Face []int

// IndexedSurface is a polygon surface sharing vertices between faces.
type IndexedSurface struct {
	Vertices []v3.Vec
	Faces    []Face
}

// FaceSize returns the number of indices per face, or 0 for an empty surface.
func (s *IndexedSurface) FaceSize() int {
	if len(s.Faces) == 0 {
		return 0
	}
	return len(s.Faces[0])
}

// Bounds returns the componentwise minimum and maximum of all vertices.
func (s *IndexedSurface) Bounds() (lo, hi v3.Vec) {
	if len(s.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = s.Vertices[0], s.Vertices[0]
	for _, v := range s.Vertices[1:] {
		lo = v3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = v3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}

// Triangles returns the faces as triangles, splitting quads into
// (v0,v1,v2) and (v0,v2,v3).
func (s *IndexedSurface) Triangles() [][3]int {
	tris := make([][3]int, 0, len(s.Faces))
	for _, f := range s.Faces {
		switch len(f) {
		case 3:
			tris = append(tris, [3]int{f[0], f[1], f[2]})
		case 4:
			tris = append(tris, [3]int{f[0], f[1], f[2]}, [3]int{f[0], f[2], f[3]})
		}
	}
	return tris
}

// Hermite is a surface crossing on a grid edge.
type Hermite struct {
	Point  v3.Vec
	Normal v3.Vec
	// Flip is set when the field decreases along the canonical edge, so the
	// edge had to be reversed to point from inside to outside.
	Flip bool
}
