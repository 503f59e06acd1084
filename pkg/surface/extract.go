package surface

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/mathx"
	"github.com/chazu/sdfkit/pkg/qef"
	"github.com/chazu/sdfkit/pkg/voxel"
)

// Brent refinement parameters, in units of the edge parameter.
const (
	brentTolerance = 1e-6
	brentMaxIter   = 50
)

// Extractor runs dual contouring with fixed options. It keeps no state
// between calls, so one Extractor may serve concurrent extractions.
type Extractor struct {
	opts Options
	log  *zap.Logger
}

// New returns an extractor using opts. Zero SVDThreshold and NormalEpsilon
// take their defaults.
func New(opts Options) *Extractor {
	if opts.SVDThreshold <= 0 {
		opts.SVDThreshold = qef.DefaultThreshold
	}
	if opts.NormalEpsilon <= 0 {
		opts.NormalEpsilon = field.DefaultEpsilon
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{opts: opts, log: log}
}

// Options returns the extractor's effective options.
func (x *Extractor) Options() Options {
	return x.opts
}

// Extract is shorthand for New(opts).Extract(root).
func Extract(root *field.Node, opts Options) (*IndexedSurface, error) {
	return New(opts).Extract(root)
}

// extraction is the scratch state of a single Extract call.
type extraction struct {
	opts    Options
	scene   *field.Node
	grid    voxel.Grid
	lo, hi  voxel.Voxel
	corners []float64 // field values at the corners of [lo, hi+1]
	samples *voxel.EdgeMap[Hermite]
	voxels  *voxel.Set
}

// Extract computes the surface of root within the configured bounds. The
// graph is validated first; configuration and graph errors are returned
// before any sampling starts and no partial surface is ever returned.
func (x *Extractor) Extract(root *field.Node) (*IndexedSurface, error) {
	if err := x.opts.Validate(); err != nil {
		return nil, err
	}
	if err := field.Check(root); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}

	scene := root
	if x.opts.Iso != 0 {
		scene = field.Offset(-x.opts.Iso, root)
	}

	grid := voxel.NewGrid(x.opts.Lower, x.opts.Resolution)
	e := &extraction{
		opts:    x.opts,
		scene:   scene,
		grid:    grid,
		lo:      grid.VoxelAt(x.opts.Lower),
		hi:      grid.VoxelAt(x.opts.Upper),
		samples: voxel.NewEdgeMap(Hermite{}),
		voxels:  voxel.NewSet(),
	}
	e.sampleCorners()

	edges := e.scanEdges()
	x.log.Debug("edges done",
		zap.Int("edges", edges),
		zap.Int("samples", e.samples.Len()),
		zap.Int("voxels", e.voxels.Len()))

	s := &IndexedSurface{}
	if err := e.placeVertices(s); err != nil {
		return nil, err
	}
	x.log.Debug("vertices done", zap.Int("vertices", len(s.Vertices)), zap.Stringer("placement", x.opts.Placement))

	e.buildFaces(s)
	x.log.Debug("faces done", zap.Int("faces", len(s.Faces)), zap.Stringer("mode", x.opts.Faces))
	return s, nil
}

// sampleCorners evaluates the field once per grid corner touched by the
// edge scan.
func (e *extraction) sampleCorners() {
	nx, ny, nz := e.hi.X-e.lo.X+2, e.hi.Y-e.lo.Y+2, e.hi.Z-e.lo.Z+2
	e.corners = make([]float64, nx*ny*nz)
	i := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				c := e.grid.Corner(voxel.Voxel{X: e.lo.X + x, Y: e.lo.Y + y, Z: e.lo.Z + z})
				e.corners[i] = e.scene.Distance(c)
				i++
			}
		}
	}
}

func (e *extraction) corner(v voxel.Voxel) float64 {
	nx, ny := e.hi.X-e.lo.X+2, e.hi.Y-e.lo.Y+2
	x, y, z := v.X-e.lo.X, v.Y-e.lo.Y, v.Z-e.lo.Z
	return e.corners[(z*ny+y)*nx+x]
}

// scanEdges stores a Hermite sample for every sign-changing edge and marks
// the voxels around it. It returns the number of edges visited.
func (e *extraction) scanEdges() int {
	n := 0
	for edge := range voxel.Edges(e.lo, e.hi) {
		n++
		from, to := edge.From, edge.To
		d0, d1 := e.corner(from), e.corner(to)
		s0, s1 := mathx.Sign(d0), mathx.Sign(d1)
		if s0 == s1 {
			continue
		}

		// Orient from inside to outside.
		flip := s0 > s1
		if flip {
			from, to = to, from
			d0, d1 = d1, d0
		}

		t := 1 - d1/(d1-d0)
		if t == 1 {
			// The crossing sits on the far corner and belongs to the edges
			// leaving it.
			continue
		}

		p0, p1 := e.grid.Corner(from), e.grid.Corner(to)
		if e.opts.Crossing == CrossingBrent {
			t = e.refine(p0, p1, t)
		}
		p := p0.Add(p1.Sub(p0).MulScalar(t))

		e.samples.Set(edge, Hermite{
			Point:  p,
			Normal: e.scene.Normal(p, e.opts.NormalEpsilon),
			Flip:   flip,
		})
		for _, v := range voxel.E(from, to).Voxels() {
			e.voxels.Add(v)
		}
	}
	return n
}

// refine locates the root of the field along p0->p1 with Brent's method,
// returning the linear estimate t if the search fails.
func (e *extraction) refine(p0, p1 v3.Vec, t float64) float64 {
	d := p1.Sub(p0)
	f := func(s float64) float64 {
		return e.scene.Distance(p0.Add(d.MulScalar(s)))
	}
	r, err := mathx.Brent(f, 0, 1, brentTolerance, brentMaxIter)
	if err != nil || r < 0 || r > 1 {
		return t
	}
	return r
}

// placeVertices assigns one vertex to every marked voxel, indexed by the
// voxel's position in the set.
func (e *extraction) placeVertices(s *IndexedSurface) error {
	s.Vertices = make([]v3.Vec, e.voxels.Len())
	solver := qef.Solver{Threshold: e.opts.SVDThreshold}
	for i, v := range e.voxels.All() {
		if e.opts.Placement == PlaceMidpoint {
			s.Vertices[i] = e.grid.Center(v)
			continue
		}

		solver.Reset()
		for _, edge := range voxel.VoxelEdges(v) {
			if h, ok := e.samples.Get(edge); ok {
				solver.Add(qef.Plane{Point: h.Point, Normal: h.Normal})
			}
		}
		sol, err := solver.Solve()
		if err != nil {
			return fmt.Errorf("surface: voxel %v: %w", v, err)
		}
		s.Vertices[i] = sol.Point
	}
	return nil
}

// buildFaces connects the four voxels around every sampled edge.
func (e *extraction) buildFaces(s *IndexedSurface) {
	per := 2
	if e.opts.Faces == FacesQuads {
		per = 1
	}
	s.Faces = make([]Face, 0, per*e.samples.Len())

	for edge, h := range e.samples.All() {
		if h.Flip {
			edge = edge.Reverse()
		}
		ring := edge.Voxels()
		var idx [4]int
		for k, v := range ring {
			idx[k], _ = e.voxels.Index(v)
		}
		if e.opts.Faces == FacesQuads {
			s.Faces = append(s.Faces, Face{idx[0], idx[1], idx[2], idx[3]})
			continue
		}
		s.Faces = append(s.Faces,
			Face{idx[0], idx[1], idx[2]},
			Face{idx[0], idx[2], idx[3]})
	}
}
