package surface

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/qef"
)

var (
	// ErrInvalidBounds is returned when lower >= upper on some axis.
	ErrInvalidBounds = errors.New("surface: invalid bounds")
	// ErrInvalidResolution is returned for non-positive or non-finite
	// cell sizes.
	ErrInvalidResolution = errors.New("surface: invalid resolution")
)

// MaxCorners caps the number of grid corners sampled by one extraction.
// The corner field is stored densely, so finer grids are rejected with
// ErrInvalidResolution.
const MaxCorners = 1 << 27

// Placement selects how a voxel's vertex is positioned.
type Placement int

const (
	// PlaceQEF minimizes the quadric error of the voxel's Hermite samples.
	PlaceQEF Placement = iota
	// PlaceMidpoint puts the vertex at the voxel center.
	PlaceMidpoint
)

func (p Placement) String() string {
	switch p {
	case PlaceQEF:
		return "qef"
	case PlaceMidpoint:
		return "midpoint"
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

// ParsePlacement converts a name produced by Placement.String.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "qef":
		return PlaceQEF, nil
	case "midpoint":
		return PlaceMidpoint, nil
	}
	return 0, fmt.Errorf("surface: unknown placement %q", s)
}

// Crossing selects how the crossing point on a sign-changing edge is found.
type Crossing int

const (
	// CrossingLinear takes a single secant step between the edge ends.
	CrossingLinear Crossing = iota
	// CrossingBrent refines the crossing with Brent's method and falls back
	// to the linear estimate if the refinement fails.
	CrossingBrent
)

func (c Crossing) String() string {
	switch c {
	case CrossingLinear:
		return "linear"
	case CrossingBrent:
		return "brent"
	}
	return fmt.Sprintf("Crossing(%d)", int(c))
}

// ParseCrossing converts a name produced by Crossing.String.
func ParseCrossing(s string) (Crossing, error) {
	switch s {
	case "linear":
		return CrossingLinear, nil
	case "brent":
		return CrossingBrent, nil
	}
	return 0, fmt.Errorf("surface: unknown crossing %q", s)
}

// FaceMode selects the output face shape.
type FaceMode int

const (
	FacesTriangles FaceMode = iota
	FacesQuads
)

func (m FaceMode) String() string {
	switch m {
	case FacesTriangles:
		return "triangles"
	case FacesQuads:
		return "quads"
	}
	return fmt.Sprintf("FaceMode(%d)", int(m))
}

// ParseFaceMode converts a name produced by FaceMode.String.
func ParseFaceMode(s string) (FaceMode, error) {
	switch s {
	case "triangles":
		return FacesTriangles, nil
	case "quads":
		return FacesQuads, nil
	}
	return 0, fmt.Errorf("surface: unknown face mode %q", s)
}

// Options configure an extraction.
type Options struct {
	Lower, Upper v3.Vec // world space bounds
	Resolution   v3.Vec // cell size per axis
	Iso          float64
	Placement    Placement
	Crossing     Crossing
	Faces        FaceMode

	// SVDThreshold is the relative singular value cutoff of the QEF solve.
	SVDThreshold float64
	// NormalEpsilon is the central difference step for sample normals.
	NormalEpsilon float64
	// Logger receives phase statistics at debug level. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options extracting [-1,1]^3 at resolution 0.1.
func DefaultOptions() Options {
	return Options{
		Lower:         v3.Vec{X: -1, Y: -1, Z: -1},
		Upper:         v3.Vec{X: 1, Y: 1, Z: 1},
		Resolution:    v3.Vec{X: 0.1, Y: 0.1, Z: 0.1},
		Placement:     PlaceQEF,
		Crossing:      CrossingLinear,
		Faces:         FacesTriangles,
		SVDThreshold:  qef.DefaultThreshold,
		NormalEpsilon: field.DefaultEpsilon,
	}
}

// Validate reports bounds or resolution errors.
func (o Options) Validate() error {
	lo := [3]float64{o.Lower.X, o.Lower.Y, o.Lower.Z}
	hi := [3]float64{o.Upper.X, o.Upper.Y, o.Upper.Z}
	res := [3]float64{o.Resolution.X, o.Resolution.Y, o.Resolution.Z}
	for k := 0; k < 3; k++ {
		if math.IsNaN(lo[k]) || math.IsNaN(hi[k]) || math.IsInf(lo[k], 0) || math.IsInf(hi[k], 0) || lo[k] >= hi[k] {
			return fmt.Errorf("%w: axis %d: lower %g, upper %g", ErrInvalidBounds, k, lo[k], hi[k])
		}
		if math.IsNaN(res[k]) || math.IsInf(res[k], 0) || res[k] <= 0 {
			return fmt.Errorf("%w: axis %d: %g", ErrInvalidResolution, k, res[k])
		}
	}
	corners := 1.0
	for k := 0; k < 3; k++ {
		corners *= math.Floor((hi[k]-lo[k])/res[k]) + 2
	}
	if corners > MaxCorners {
		return fmt.Errorf("%w: %.0f grid corners exceed %d", ErrInvalidResolution, corners, MaxCorners)
	}
	switch o.Placement {
	case PlaceQEF, PlaceMidpoint:
	default:
		return fmt.Errorf("surface: unknown placement %v", o.Placement)
	}
	switch o.Crossing {
	case CrossingLinear, CrossingBrent:
	default:
		return fmt.Errorf("surface: unknown crossing %v", o.Crossing)
	}
	switch o.Faces {
	case FacesTriangles, FacesQuads:
	default:
		return fmt.Errorf("surface: unknown face mode %v", o.Faces)
	}
	return nil
}
