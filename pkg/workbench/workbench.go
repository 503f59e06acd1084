// Package workbench runs the script-to-mesh pipeline: a scene script is
// evaluated into parts, every part is meshed by a kernel and the results
// are packaged as JSON-serializable mesh data.
package workbench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/sdfkit/pkg/engine"
	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/kernel/dc"
	"github.com/chazu/sdfkit/pkg/mathx"
	"github.com/chazu/sdfkit/pkg/render"
	"github.com/chazu/sdfkit/pkg/scene"
	"github.com/chazu/sdfkit/pkg/tessellate"
)

// colorPalette assigns distinct colors to parts without a material.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full output of one pipeline run.
type Result struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
}

// JSON encodes the result.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Err joins the result's errors, or returns nil.
func (r Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = engine.EvalError{Line: e.Line, Col: e.Col, Message: e.Message}
	}
	return errors.Join(errs...)
}

// Workbench couples a script engine with a meshing kernel.
type Workbench struct {
	engine  *engine.Engine
	kernel  kernel.Kernel
	log     *zap.Logger
	workers int
}

// Option configures a Workbench.
type Option func(*Workbench)

// WithKernel replaces the default dual contouring kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(w *Workbench) { w.kernel = k }
}

// WithEngine replaces the default engine.
func WithEngine(e *engine.Engine) Option {
	return func(w *Workbench) { w.engine = e }
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workbench) { w.log = l }
}

// WithWorkers bounds how many parts are meshed at once.
func WithWorkers(n int) Option {
	return func(w *Workbench) { w.workers = n }
}

// New creates a workbench with a default engine and the dual contouring
// kernel.
func New(opts ...Option) *Workbench {
	w := &Workbench{
		engine: engine.NewEngine(),
		kernel: dc.Default(),
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Kernel returns the meshing kernel.
func (w *Workbench) Kernel() kernel.Kernel {
	return w.kernel
}

// Load evaluates source into a scene. Script errors are joined into the
// returned error.
func (w *Workbench) Load(source string) (*scene.Scene, error) {
	sc, evalErrs, err := w.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, errors.Join(errs...)
	}
	return sc, nil
}

// Evaluate runs source through the engine and meshes every part. Failures
// are reported in Result.Errors rather than returned.
func (w *Workbench) Evaluate(ctx context.Context, source string) Result {
	result := Result{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}

	sc, evalErrs, err := w.engine.Evaluate(source)
	if err != nil {
		w.log.Warn("evaluation failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	meshes, err := tessellate.Tessellate(ctx, sc, w.kernel, tessellate.Options{
		Workers: w.workers,
		Logger:  w.log,
	})
	if err != nil {
		w.log.Warn("tessellation failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    partColor(sc.Parts[i].Root, i),
		})
	}
	return result
}

// partColor returns the hex diffuse color of an attached material, or a
// palette color.
func partColor(root *field.Node, i int) string {
	m, err := field.Lookup[render.Material](root, field.AttachMaterial)
	if err != nil {
		return colorPalette[i%len(colorPalette)]
	}
	return hexColor(m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z)
}

func hexColor(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", mathx.Saturate(r*255), mathx.Saturate(g*255), mathx.Saturate(b*255))
}
