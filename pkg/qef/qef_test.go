package qef

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got v3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestSolveCorner(t *testing.T) {
	// Three orthogonal planes meeting at (1,2,3).
	var s Solver
	s.Add(Plane{Point: v3.Vec{X: 1, Y: 0, Z: 0}, Normal: v3.Vec{X: 1}})
	s.Add(Plane{Point: v3.Vec{X: 0, Y: 2, Z: 0}, Normal: v3.Vec{Y: 1}})
	s.Add(Plane{Point: v3.Vec{X: 0, Y: 0, Z: 3}, Normal: v3.Vec{Z: 1}})

	sol, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 3, sol.Rank)
	assertVec(t, v3.Vec{X: 1, Y: 2, Z: 3}, sol.Point, 1e-9)
	assertVec(t, v3.Vec{X: 1.0 / 3, Y: 2.0 / 3, Z: 1}, sol.MassPoint, 1e-9)
}

func TestSolveSinglePlaneStaysNearMassPoint(t *testing.T) {
	// One plane constrains only its normal direction.
	var s Solver
	s.Add(Plane{Point: v3.Vec{X: 0.3, Y: 0.7, Z: 0.5}, Normal: v3.Vec{Z: 1}})
	sol, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Rank)
	assertVec(t, v3.Vec{X: 0.3, Y: 0.7, Z: 0.5}, sol.Point, 1e-9)
}

func TestSolveCoplanarPoints(t *testing.T) {
	var s Solver
	for _, p := range []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}} {
		p.Z = 2
		s.Add(Plane{Point: p, Normal: v3.Vec{Z: 1}})
	}
	sol, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Rank)
	assertVec(t, v3.Vec{X: 0.5, Y: 0.5, Z: 2}, sol.Point, 1e-9)
}

func TestSolveNearlyParallelPlanesTruncated(t *testing.T) {
	// Two almost identical normals would place the vertex far away without
	// truncation.
	var s Solver
	s.Add(Plane{Point: v3.Vec{X: 0, Y: 0, Z: 0}, Normal: v3.Vec{X: 1}})
	n := v3.Vec{X: 1, Y: 0.001}
	s.Add(Plane{Point: v3.Vec{X: 0.01, Y: 1, Z: 0}, Normal: n.MulScalar(1 / n.Length())})
	sol, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Rank)
	assert.Less(t, sol.Point.Sub(sol.MassPoint).Length(), 0.1)
}

func TestSolveZeroNormals(t *testing.T) {
	var s Solver
	s.Add(Plane{Point: v3.Vec{X: 1}})
	s.Add(Plane{Point: v3.Vec{X: 3}})
	sol, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 0, sol.Rank)
	assertVec(t, v3.Vec{X: 2}, sol.Point, 1e-12)
}

func TestSolveEmpty(t *testing.T) {
	var s Solver
	_, err := s.Solve()
	assert.ErrorIs(t, err, ErrNoPlanes)
}

func TestReset(t *testing.T) {
	var s Solver
	s.Add(Plane{Point: v3.Vec{X: 1}, Normal: v3.Vec{X: 1}})
	s.Reset()
	assert.Equal(t, 0, s.Len())
	s.Add(Plane{Point: v3.Vec{Y: 4}, Normal: v3.Vec{Y: 1}})
	sol, err := s.Solve()
	require.NoError(t, err)
	assertVec(t, v3.Vec{Y: 4}, sol.Point, 1e-9)
}
