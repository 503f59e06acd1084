package kernel

import (
	"github.com/chewxy/math32"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) [3]float32 {
	return [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Bounds returns the componentwise minimum and maximum vertex.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if m.IsEmpty() {
		return lo, hi
	}
	lo, hi = m.Vertex(0), m.Vertex(0)
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			lo[k] = math32.Min(lo[k], v[k])
			hi[k] = math32.Max(hi[k], v[k])
		}
	}
	return lo, hi
}

// IndexedMesh builds a mesh from shared vertices and triangles. Normals are
// smoothed: each vertex gets the normalized sum of the area-weighted normals
// of the triangles using it.
func IndexedMesh(vertices []v3.Vec, triangles [][3]int) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 3*len(vertices)),
		Indices:  make([]uint32, 0, 3*len(triangles)),
	}
	for _, v := range vertices {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, t := range triangles {
		m.Indices = append(m.Indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}
	m.ComputeNormals()
	return m
}

// ComputeNormals replaces Normals with smoothed per-vertex normals derived
// from the triangles. Vertices used by no triangle, or only by degenerate
// ones, get a zero normal.
func (m *Mesh) ComputeNormals() {
	n := make([]float32, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		va, vb, vc := m.Vertex(int(a)), m.Vertex(int(b)), m.Vertex(int(c))
		fn := cross(sub(vb, va), sub(vc, va))
		for _, i := range [3]uint32{a, b, c} {
			n[3*i] += fn[0]
			n[3*i+1] += fn[1]
			n[3*i+2] += fn[2]
		}
	}
	for i := 0; i+2 < len(n); i += 3 {
		l := math32.Sqrt(n[i]*n[i] + n[i+1]*n[i+1] + n[i+2]*n[i+2])
		if l > 0 {
			n[i] /= l
			n[i+1] /= l
			n[i+2] /= l
		}
	}
	m.Normals = n
}

// FlatMesh builds a mesh with three unshared vertices per triangle, all
// carrying the triangle's face normal.
func FlatMesh(triangles [][3]v3.Vec) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 9*len(triangles)),
		Normals:  make([]float32, 0, 9*len(triangles)),
		Indices:  make([]uint32, 0, 3*len(triangles)),
	}
	for i, tri := range triangles {
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
		}
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
