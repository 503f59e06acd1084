package field

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceSphereHit(t *testing.T) {
	s := Sphere(1)
	tr, err := s.Trace(v3.Vec{X: 2}, v3.Vec{X: -1}, DefaultTraceOptions())
	require.NoError(t, err)
	assert.True(t, tr.Hit)
	assert.InDelta(t, 1, tr.T, 1e-3)
	assert.Same(t, s, tr.Node)
	assert.Less(t, math.Abs(tr.SDF), 0.001)
}

func TestTraceUnnormalizedDirection(t *testing.T) {
	// t is measured in multiples of dir. With |dir| = 2 a step factor of 0.5
	// makes each step exact.
	s := Sphere(1)
	opts := DefaultTraceOptions()
	opts.StepFactor = 0.5
	tr, err := s.Trace(v3.Vec{X: 3}, v3.Vec{X: -2}, opts)
	require.NoError(t, err)
	assert.True(t, tr.Hit)
	assert.InDelta(t, 1, tr.T, 1e-3)
}

func TestTraceMiss(t *testing.T) {
	s := Sphere(1)
	opts := DefaultTraceOptions()
	opts.MaxT = 10
	tr, err := s.Trace(v3.Vec{X: 2, Y: 2}, v3.Vec{X: 1}, opts)
	require.NoError(t, err)
	assert.False(t, tr.Hit)
	assert.GreaterOrEqual(t, tr.T, 10.0)
}

func TestTraceIterationLimit(t *testing.T) {
	s := Sphere(1)
	opts := DefaultTraceOptions()
	opts.StepFactor = 0.01
	opts.MaxIterations = 5
	tr, err := s.Trace(v3.Vec{X: 5}, v3.Vec{X: -1}, opts)
	require.NoError(t, err)
	assert.False(t, tr.Hit)
	assert.Equal(t, 5, tr.Iterations)
}

func TestTraceStartsAtMinT(t *testing.T) {
	s := Sphere(1)
	opts := DefaultTraceOptions()
	opts.MinT = 1
	tr, err := s.Trace(v3.Vec{X: 2}, v3.Vec{X: -1}, opts)
	require.NoError(t, err)
	assert.True(t, tr.Hit)
	assert.Equal(t, 0, tr.Iterations)
	assert.Equal(t, 1.0, tr.T)
}

func TestTraceIdempotent(t *testing.T) {
	scene := Union(
		Difference(Box(v3.Vec{X: 1, Y: 1, Z: 1}), Sphere(1.2)),
		Translate(v3.Vec{Y: -2}, XYPlane()),
	)
	origin := v3.Vec{X: 3, Y: 2.5, Z: 4}
	dir := v3.Vec{X: -0.5, Y: -0.4, Z: -0.7}
	a, err := scene.Trace(origin, dir, DefaultTraceOptions())
	require.NoError(t, err)
	b, err := scene.Trace(origin, dir, DefaultTraceOptions())
	require.NoError(t, err)
	assert.Equal(t, a.T, b.T)
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Equal(t, a.Hit, b.Hit)
}

func TestTraceMalformedGraph(t *testing.T) {
	_, err := Union().Trace(v3.Vec{}, v3.Vec{X: 1}, DefaultTraceOptions())
	assert.ErrorIs(t, err, ErrNoChildren)
}
