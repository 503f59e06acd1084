package export

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/surface"
)

func quad() *surface.IndexedSurface {
	return &surface.IndexedSurface{
		Vertices: []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Faces:    []surface.Face{{0, 1, 2, 3}},
	}
}

func TestWriteOFFQuad(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOFF(&buf, quad()); err != nil {
		t.Fatalf("WriteOFF: %v", err)
	}
	want := `OFF 4 1 0
0.000000 0.000000 0.000000
1.000000 0.000000 0.000000
1.000000 1.000000 0.000000
0.000000 1.000000 0.000000
4 0 1 2 3
`
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestWriteOFFRejectsBadFace(t *testing.T) {
	s := quad()
	s.Faces = append(s.Faces, surface.Face{0, 1})
	if err := WriteOFF(&bytes.Buffer{}, s); err == nil {
		t.Fatal("expected error for two-index face")
	}
}

// TestOFFHeaderCounts checks that the header of an exported surface matches
// the vertex and face lines that follow it.
func TestOFFHeaderCounts(t *testing.T) {
	opts := surface.DefaultOptions()
	s, err := surface.Extract(field.Sphere(0.5), opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sphere.off")
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("empty file")
	}
	var nv, nf, ne int
	if _, err := fmt.Sscanf(sc.Text(), "OFF %d %d %d", &nv, &nf, &ne); err != nil {
		t.Fatalf("bad header %q: %v", sc.Text(), err)
	}
	if nv != len(s.Vertices) || nf != len(s.Faces) || ne != 0 {
		t.Errorf("header = %d %d %d, want %d %d 0", nv, nf, ne, len(s.Vertices), len(s.Faces))
	}

	var vertexLines, faceLines int
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		switch {
		case len(fields) == 3 && vertexLines < nv:
			vertexLines++
		case len(fields) == 4 && fields[0] == "3":
			faceLines++
		default:
			t.Fatalf("unexpected line %q", sc.Text())
		}
	}
	if vertexLines != nv || faceLines != nf {
		t.Errorf("found %d vertices and %d faces, header says %d and %d", vertexLines, faceLines, nv, nf)
	}
}

func TestSTLExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.stl")
	if err := Save(path, quad()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// 80 byte header, triangle count, 50 bytes per triangle.
	if want := int64(84 + 2*50); fi.Size() != want {
		t.Errorf("size = %d, want %d", fi.Size(), want)
	}
}

func TestTriangles(t *testing.T) {
	tris := Triangles(quad())
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	if tris[1][2] != (v3.Vec{X: 0, Y: 1}) {
		t.Errorf("second triangle = %v", *tris[1])
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"a.off", false},
		{"b.STL", false},
		{"c.obj", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
