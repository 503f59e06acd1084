package field

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TraceOptions bound a sphere tracing run.
type TraceOptions struct {
	MinT          float64 // ray parameter to start at
	MaxT          float64 // ray parameter at which to give up
	StepFactor    float64 // fraction of the distance to advance per step
	SDFThreshold  float64 // |distance| below which the ray counts as a hit
	MaxIterations int     // maximum number of steps
}

// DefaultTraceOptions returns options suitable for unit-scale scenes.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		MinT:          0,
		MaxT:          math.MaxFloat64,
		StepFactor:    1,
		SDFThreshold:  0.001,
		MaxIterations: 500,
	}
}

// TraceResult describes where and how a trace stopped.
type TraceResult struct {
	T          float64 // ray parameter reached
	Iterations int     // number of steps taken
	SDF        float64 // distance at the final position
	Node       *Node   // closest leaf at the final position
	Hit        bool    // |SDF| < SDFThreshold
}

// Trace sphere-traces the ray origin + t*dir. The direction need not have
// unit length; t is measured in multiples of dir.
//
// Each step advances t by the distance at the current position scaled by
// StepFactor. This converges only if the field never overestimates the true
// distance. Running out of iterations or passing MaxT is a miss, not an
// error; errors are reserved for malformed graphs.
func (n *Node) Trace(origin, dir v3.Vec, opts TraceOptions) (tr TraceResult, err error) {
	if n == nil {
		return TraceResult{}, ErrNilNode
	}
	defer recoverNodeError(&err)

	t := opts.MinT
	iter := 0
	var r Result
	for {
		r = n.eval(origin.Add(dir.MulScalar(t)))
		if math.Abs(r.Distance) < opts.SDFThreshold || t >= opts.MaxT || iter >= opts.MaxIterations {
			break
		}
		t += r.Distance * opts.StepFactor
		iter++
	}

	return TraceResult{
		T:          t,
		Iterations: iter,
		SDF:        r.Distance,
		Node:       r.Node,
		Hit:        math.Abs(r.Distance) < opts.SDFThreshold,
	}, nil
}
