// Package qef places a point that best satisfies a set of tangent plane
// constraints, the quadric error function of dual contouring.
package qef

import (
	"errors"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold truncates singular values below 10% of the largest one.
const DefaultThreshold = 0.1

// ErrNoPlanes is returned when solving a system without constraints.
var ErrNoPlanes = errors.New("qef: no planes")

// Plane is a tangent plane through Point with normal Normal.
type Plane struct {
	Point  v3.Vec
	Normal v3.Vec
}

// Solution is the result of a solve.
type Solution struct {
	// Point minimizes the sum of squared plane distances, biased towards the
	// mass point along poorly constrained directions.
	Point v3.Vec
	// MassPoint is the mean of all plane points.
	MassPoint v3.Vec
	// Rank is the number of singular values kept.
	Rank int
}

// Solver accumulates planes and solves for the best fitting point.
// The zero value is ready to use with DefaultThreshold.
type Solver struct {
	// Threshold is the singular value cutoff relative to the largest
	// singular value. Zero means DefaultThreshold.
	Threshold float64

	planes []Plane
}

// Add appends a plane constraint. A zero normal contributes an empty row.
func (s *Solver) Add(p Plane) {
	s.planes = append(s.planes, p)
}

// Reset removes all planes, keeping the allocated storage.
func (s *Solver) Reset() {
	s.planes = s.planes[:0]
}

// Len returns the number of planes added.
func (s *Solver) Len() int {
	return len(s.planes)
}

// MassPoint returns the mean of all plane points.
func (s *Solver) MassPoint() v3.Vec {
	var m v3.Vec
	if len(s.planes) == 0 {
		return m
	}
	for _, p := range s.planes {
		m = m.Add(p.Point)
	}
	return m.MulScalar(1 / float64(len(s.planes)))
}

// Solve minimizes sum((n_i . (x - p_i))^2) over x. The system is solved
// relative to the mass point m: each plane contributes the row
// n_i . (x - m) = n_i . (p_i - m). Singular values below Threshold times the
// largest are dropped, so directions the planes do not constrain keep x at
// the mass point. A system of rank zero yields the mass point itself.
func (s *Solver) Solve() (Solution, error) {
	if len(s.planes) == 0 {
		return Solution{}, ErrNoPlanes
	}
	mass := s.MassPoint()
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	rows := len(s.planes)
	a := mat.NewDense(max(rows, 3), 3, nil)
	b := mat.NewVecDense(max(rows, 3), nil)
	for i, p := range s.planes {
		a.Set(i, 0, p.Normal.X)
		a.Set(i, 1, p.Normal.Y)
		a.Set(i, 2, p.Normal.Z)
		b.SetVec(i, p.Normal.Dot(p.Point.Sub(mass)))
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return Solution{Point: mass, MassPoint: mass}, nil
	}
	rank := svd.Rank(threshold)
	if rank == 0 {
		return Solution{Point: mass, MassPoint: mass}, nil
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, b, rank)
	off := v3.Vec{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	return Solution{Point: mass.Add(off), MassPoint: mass, Rank: rank}, nil
}
