package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/sdfkit/pkg/field"
)

// ErrInvalidImageSize is returned for non-positive image dimensions.
var ErrInvalidImageSize = errors.New("render: invalid image size")

// Frame describes the render in progress. Generators receive it once before
// any row is traced.
type Frame struct {
	Width, Height int
	Camera        *Camera
	Root          *field.Node
	Trace         field.TraceOptions
	Lights        []Light
}

// Row is one traced image row. Directions are unit world-space vectors.
type Row struct {
	Index      int
	Origin     v3.Vec
	Directions []v3.Vec
	Results    []field.TraceResult
}

// Point returns the world position reached by the trace in column col.
func (r *Row) Point(col int) v3.Vec {
	return r.Origin.Add(r.Directions[col].MulScalar(r.Results[col].T))
}

// Generator consumes trace results and builds an image.
//
// Begin is called once, then Row once per image row, then End. Row is
// called concurrently for distinct rows and must only write state owned by
// that row.
type Generator interface {
	Begin(f *Frame) error
	Row(r *Row) error
	End() error
}

// Options configure a Renderer.
type Options struct {
	Width, Height int
	Trace         field.TraceOptions
	Lights        []Light
	Workers       int // concurrent rows, 0 means GOMAXPROCS
	Logger        *zap.Logger
}

// DefaultOptions returns a 640x480 render with default tracing and a single
// light.
func DefaultOptions() Options {
	return Options{
		Width:  640,
		Height: 480,
		Trace:  field.DefaultTraceOptions(),
		Lights: []Light{DefaultLight()},
	}
}

// Renderer traces primary rays through a camera and feeds generators.
type Renderer struct {
	opts       Options
	log        *zap.Logger
	generators []Generator
}

// NewRenderer creates a renderer feeding the given generators.
func NewRenderer(opts Options, generators ...Generator) *Renderer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{opts: opts, log: log, generators: generators}
}

// AddGenerator appends a generator.
func (r *Renderer) AddGenerator(g Generator) {
	r.generators = append(r.generators, g)
}

// Render traces root as seen from cam. Rows are traced in parallel; the
// first error or a cancelled context stops the render.
func (r *Renderer) Render(ctx context.Context, root *field.Node, cam *Camera) error {
	w, h := r.opts.Width, r.opts.Height
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImageSize, w, h)
	}
	if cam == nil {
		return errors.New("render: nil camera")
	}
	if err := field.Check(root); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	frame := &Frame{
		Width:  w,
		Height: h,
		Camera: cam,
		Root:   root,
		Trace:  r.opts.Trace,
		Lights: r.opts.Lights,
	}
	for _, g := range r.generators {
		if err := g.Begin(frame); err != nil {
			return err
		}
	}

	start := time.Now()
	origin := cam.Origin()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Workers)
	for y := 0; y < h; y++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := &Row{
				Index:      y,
				Origin:     origin,
				Directions: make([]v3.Vec, w),
				Results:    make([]field.TraceResult, w),
			}
			for x := 0; x < w; x++ {
				dir := cam.WorldRay(float64(x), float64(y))
				tr, err := root.Trace(origin, dir, r.opts.Trace)
				if err != nil {
					return err
				}
				row.Directions[x] = dir
				row.Results[x] = tr
			}
			for _, g := range r.generators {
				if err := g.Row(row); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, g := range r.generators {
		if err := g.End(); err != nil {
			return err
		}
	}
	r.log.Debug("render done",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("generators", len(r.generators)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
