package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
)

func TestSphere(t *testing.T) {
	k := New()
	mesh, err := k.ToMesh(field.Sphere(1), kernel.Cube(1.5, 0.05))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	for i := 0; i < mesh.VertexCount(); i++ {
		v := mesh.Vertex(i)
		r := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
		if math.Abs(r-1) > 0.05 {
			t.Fatalf("vertex %d at radius %f, expected ~1", i, r)
		}
	}
	t.Logf("sphere triangle count: %d", mesh.TriangleCount())
}

func TestIsoShiftsSurface(t *testing.T) {
	k := &SdfxKernel{Iso: 0.2}
	mesh, err := k.ToMesh(field.Sphere(1), kernel.Cube(1.5, 0.05))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	lo, hi := mesh.Bounds()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(lo[i])+1.2) > 0.05 || math.Abs(float64(hi[i])-1.2) > 0.05 {
			t.Errorf("axis %d extent [%f, %f], want about [-1.2, 1.2]", i, lo[i], hi[i])
		}
	}
}

func TestDifference(t *testing.T) {
	k := New()
	region := kernel.Cube(1, 0.05)

	box := field.Box(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	boxMesh, err := k.ToMesh(box, region)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	hole := field.Box(v3.Vec{X: 0.2, Y: 0.2, Z: 0.8})
	diffMesh, err := k.ToMesh(field.Difference(box, hole), region)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	region := kernel.Region{
		Lower:      v3.Vec{X: 0, Y: 1, Z: 2},
		Upper:      v3.Vec{X: 2, Y: 3, Z: 4},
		Resolution: v3.Vec{X: 0.05, Y: 0.05, Z: 0.05},
	}
	moved := field.Translate(v3.Vec{X: 1, Y: 2, Z: 3}, field.Box(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	mesh, err := k.ToMesh(moved, region)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	lo, hi := mesh.Bounds()
	expectMin := [3]float32{0.5, 1.5, 2.5}
	expectMax := [3]float32{1.5, 2.5, 3.5}
	const tol = 0.06
	for i := 0; i < 3; i++ {
		if math.Abs(float64(lo[i]-expectMin[i])) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, lo[i], expectMin[i])
		}
		if math.Abs(float64(hi[i]-expectMax[i])) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, hi[i], expectMax[i])
		}
	}
}

// The field primitives agree with the sdfx primitives they mirror.
func TestPrimitivesMatchSdfx(t *testing.T) {
	sphere, err := sdf.Sphere3D(1.5)
	if err != nil {
		t.Fatal(err)
	}
	box, err := sdf.Box3D(v3.Vec{X: 2, Y: 4, Z: 6}, 0)
	if err != nil {
		t.Fatal(err)
	}
	fs := field.Sphere(1.5)
	fb := field.BoxLengths(v3.Vec{X: 2, Y: 4, Z: 6})

	for _, p := range []v3.Vec{{}, {X: 3}, {X: 0.5, Y: -1, Z: 2}, {X: -4, Y: 5, Z: 6}, {Y: 1.9}} {
		if got, want := fs.Distance(p), sphere.Evaluate(p); math.Abs(got-want) > 1e-9 {
			t.Errorf("sphere at %v: %f, sdfx %f", p, got, want)
		}
		if got, want := fb.Distance(p), box.Evaluate(p); math.Abs(got-want) > 1e-9 {
			t.Errorf("box at %v: %f, sdfx %f", p, got, want)
		}
	}
}

func TestSDF3BoundingBox(t *testing.T) {
	region := kernel.Cube(2, 0.1)
	s, err := SDF3(field.Sphere(1), region)
	if err != nil {
		t.Fatalf("SDF3 failed: %v", err)
	}
	bb := s.BoundingBox()
	if bb.Min != region.Lower || bb.Max != region.Upper {
		t.Errorf("bounding box = %v, want %v..%v", bb, region.Lower, region.Upper)
	}
	if d := s.Evaluate(v3.Vec{X: 2}); math.Abs(d-1) > 1e-12 {
		t.Errorf("Evaluate = %f, want 1", d)
	}
}

func TestErrors(t *testing.T) {
	k := New()
	if _, err := k.ToMesh(field.Difference(), kernel.Cube(1, 0.1)); !errors.Is(err, field.ErrNoChildren) {
		t.Errorf("childless difference: got %v", err)
	}
	if _, err := k.ToMesh(field.Sphere(1), kernel.Region{}); err == nil {
		t.Error("expected error for empty region")
	}
}

func TestMaxCells(t *testing.T) {
	k := &SdfxKernel{MaxCells: 10}
	if n := k.cells(kernel.Cube(1, 0.01)); n != 10 {
		t.Errorf("cells = %d, want 10", n)
	}
	if n := New().cells(kernel.Cube(1, 0.5)); n != 4 {
		t.Errorf("cells = %d, want 4", n)
	}
}
