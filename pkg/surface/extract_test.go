package surface

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chazu/sdfkit/pkg/field"
)

func sphereOptions() Options {
	opts := DefaultOptions()
	opts.Lower = v3.Vec{X: -2, Y: -2, Z: -2}
	opts.Upper = v3.Vec{X: 2, Y: 2, Z: 2}
	opts.Resolution = v3.Vec{X: 0.1, Y: 0.1, Z: 0.1}
	return opts
}

func assertBounds(t *testing.T, s *IndexedSurface, want, tol float64) {
	t.Helper()
	lo, hi := s.Bounds()
	for _, c := range []float64{lo.X, lo.Y, lo.Z} {
		assert.InDelta(t, -want, c, tol)
	}
	for _, c := range []float64{hi.X, hi.Y, hi.Z} {
		assert.InDelta(t, want, c, tol)
	}
}

// assertOutward checks that every non-degenerate face of a surface centered
// at the origin points along the radial direction.
func assertOutward(t *testing.T, s *IndexedSurface) {
	t.Helper()
	var n int
	for _, tri := range s.Triangles() {
		a := s.Vertices[tri[1]].Sub(s.Vertices[tri[0]])
		b := s.Vertices[tri[2]].Sub(s.Vertices[tri[0]])
		normal := a.Cross(b)
		if normal.Length() < 1e-6 {
			continue
		}
		normal = normal.MulScalar(1 / normal.Length())
		c := s.Vertices[tri[0]].Add(s.Vertices[tri[1]]).Add(s.Vertices[tri[2]]).MulScalar(1.0 / 3)
		c = c.MulScalar(1 / c.Length())
		if cos := normal.Dot(c); math.Abs(cos-1) >= 0.01 {
			t.Errorf("triangle %v is not facing outward (cos %g)", tri, cos)
		}
		n++
	}
	require.Positive(t, n)
}

func TestExtractSphere(t *testing.T) {
	s, err := Extract(field.Sphere(1), sphereOptions())
	require.NoError(t, err)
	require.NotEmpty(t, s.Vertices)
	require.NotEmpty(t, s.Faces)
	assert.Equal(t, 3, s.FaceSize())

	assertBounds(t, s, 1, 0.01)
	assertOutward(t, s)

	for _, v := range s.Vertices {
		assert.InDelta(t, 1, v.Length(), 0.02, "vertex %v off the sphere", v)
	}
}

func TestExtractSphereIsoOffset(t *testing.T) {
	opts := sphereOptions()
	opts.Iso = 0.1
	s, err := Extract(field.Sphere(1), opts)
	require.NoError(t, err)
	assertBounds(t, s, 1.1, 0.01)
	assertOutward(t, s)
}

func TestExtractSphereBrent(t *testing.T) {
	opts := sphereOptions()
	opts.Crossing = CrossingBrent
	s, err := Extract(field.Sphere(1), opts)
	require.NoError(t, err)
	assertBounds(t, s, 1, 0.01)
	assertOutward(t, s)
}

func TestExtractSphereMidpoint(t *testing.T) {
	opts := sphereOptions()
	opts.Placement = PlaceMidpoint
	s, err := Extract(field.Sphere(1), opts)
	require.NoError(t, err)

	// Every vertex is a voxel center.
	for _, v := range s.Vertices {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			cell := (c + 2) / 0.1
			assert.InDelta(t, 0.5, cell-math.Floor(cell), 1e-6, "vertex %v is not a voxel center", v)
		}
	}
	assertBounds(t, s, 1, 0.1)
}

func TestExtractQuads(t *testing.T) {
	tris, err := Extract(field.Sphere(1), sphereOptions())
	require.NoError(t, err)

	opts := sphereOptions()
	opts.Faces = FacesQuads
	quads, err := Extract(field.Sphere(1), opts)
	require.NoError(t, err)

	assert.Equal(t, 4, quads.FaceSize())
	assert.Equal(t, tris.Vertices, quads.Vertices)
	assert.Equal(t, 2*len(quads.Faces), len(tris.Faces))
	assert.Equal(t, tris.Triangles(), quads.Triangles())
}

func TestExtractDeterministic(t *testing.T) {
	scene := field.Difference(field.Box(v3.Vec{X: 0.8, Y: 0.8, Z: 0.8}), field.Sphere(1))
	opts := DefaultOptions()
	opts.Lower = v3.Vec{X: -1.03, Y: -1.03, Z: -1.03}
	opts.Upper = v3.Vec{X: 1.03, Y: 1.03, Z: 1.03}
	a, err := Extract(scene, opts)
	require.NoError(t, err)
	b, err := Extract(scene, opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractBoxSharpCorners(t *testing.T) {
	opts := DefaultOptions()
	opts.Lower = v3.Vec{X: -1.01, Y: -1.01, Z: -1.01}
	opts.Upper = v3.Vec{X: 1, Y: 1, Z: 1}
	s, err := Extract(field.Box(v3.Vec{X: 0.53, Y: 0.53, Z: 0.53}), opts)
	require.NoError(t, err)
	assertBounds(t, s, 0.53, 0.01)
}

func TestExtractFacesReferenceVertices(t *testing.T) {
	s, err := Extract(field.Translate(v3.Vec{X: 0.3}, field.Sphere(0.6)), DefaultOptions())
	require.NoError(t, err)
	for _, f := range s.Faces {
		require.Len(t, f, 3)
		for _, i := range f {
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, len(s.Vertices))
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	// The sphere lies entirely outside the bounds.
	opts := DefaultOptions()
	s, err := Extract(field.Translate(v3.Vec{X: 10}, field.Sphere(1)), opts)
	require.NoError(t, err)
	assert.Empty(t, s.Vertices)
	assert.Empty(t, s.Faces)
	assert.Equal(t, 0, s.FaceSize())
}

func TestExtractPlaneThroughCorners(t *testing.T) {
	opts := DefaultOptions()
	opts.Resolution = v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	s, err := Extract(field.XYPlane(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, s.Faces)

	// z = 0 lies on grid corners, so every crossing is exact and must be
	// sampled once, by the edge leaving the corner.
	for _, v := range s.Vertices {
		assert.InDelta(t, 0, v.Z, 1e-6, "vertex %v off the plane", v)
	}
	lo, hi := s.Bounds()
	assert.InDelta(t, -1, lo.X, 1e-6)
	assert.InDelta(t, -1, lo.Y, 1e-6)
	assert.InDelta(t, 1, hi.X, 1e-6)
	assert.InDelta(t, 1, hi.Y, 1e-6)

	seen := make(map[[3]int]bool)
	for _, tri := range s.Triangles() {
		key := [3]int{tri[0], tri[1], tri[2]}
		for key[0] > key[1] || key[0] > key[2] {
			key = [3]int{key[1], key[2], key[0]}
		}
		assert.False(t, seen[key], "duplicate triangle %v", tri)
		seen[key] = true
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name   string
		root   *field.Node
		modify func(*Options)
		want   error
	}{
		{"lower equals upper", field.Sphere(1), func(o *Options) { o.Upper.Y = o.Lower.Y }, ErrInvalidBounds},
		{"lower above upper", field.Sphere(1), func(o *Options) { o.Lower.Z = 5 }, ErrInvalidBounds},
		{"nan bound", field.Sphere(1), func(o *Options) { o.Lower.X = math.NaN() }, ErrInvalidBounds},
		{"zero resolution", field.Sphere(1), func(o *Options) { o.Resolution.X = 0 }, ErrInvalidResolution},
		{"negative resolution", field.Sphere(1), func(o *Options) { o.Resolution.Z = -0.1 }, ErrInvalidResolution},
		{"infinite resolution", field.Sphere(1), func(o *Options) { o.Resolution.Y = math.Inf(1) }, ErrInvalidResolution},
		{"too many corners", field.Sphere(1), func(o *Options) { o.Resolution = v3.Vec{X: 1e-4, Y: 1e-4, Z: 1e-4} }, ErrInvalidResolution},
		{"childless union", field.Union(), func(*Options) {}, field.ErrNoChildren},
		{"nested childless", field.Union(field.Sphere(1), field.Intersection()), func(*Options) {}, field.ErrNoChildren},
		{"nil root", nil, func(*Options) {}, field.ErrNilNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			s, err := Extract(tt.root, opts)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}

func TestExtractLogsPhases(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	_, err := Extract(field.Sphere(0.5), opts)
	require.NoError(t, err)

	for _, msg := range []string{"edges done", "vertices done", "faces done"} {
		assert.Equal(t, 1, logs.FilterMessage(msg).Len(), msg)
	}
	entry := logs.FilterMessage("edges done").All()[0]
	assert.Positive(t, entry.ContextMap()["samples"])
}

func TestParseNames(t *testing.T) {
	for _, p := range []Placement{PlaceQEF, PlaceMidpoint} {
		got, err := ParsePlacement(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	for _, c := range []Crossing{CrossingLinear, CrossingBrent} {
		got, err := ParseCrossing(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	for _, m := range []FaceMode{FacesTriangles, FacesQuads} {
		got, err := ParseFaceMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParsePlacement("dense")
	assert.Error(t, err)
}
