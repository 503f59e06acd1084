// Package config loads sdfkit settings from YAML. Every field has a
// default, so a config file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/qef"
	"github.com/chazu/sdfkit/pkg/render"
	"github.com/chazu/sdfkit/pkg/surface"
)

// Config holds all sdfkit configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Trace   TraceConfig   `yaml:"trace"`
	Render  RenderConfig  `yaml:"render"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vec3 is a vector written as a three element YAML sequence.
type Vec3 [3]float64

// Vec converts to the geometry vector type.
func (v Vec3) Vec() v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// ExtractConfig configures meshing.
type ExtractConfig struct {
	Kernel       string  `yaml:"kernel"`     // dc, sdfx
	Bounds       float64 `yaml:"bounds"`     // half size of the default part region
	Resolution   float64 `yaml:"resolution"` // default cell size
	Iso          float64 `yaml:"iso"`
	Placement    string  `yaml:"placement"` // qef, midpoint
	Crossing     string  `yaml:"crossing"`  // linear, brent
	SVDThreshold float64 `yaml:"svd_threshold"`
	Output       string  `yaml:"output"`    // triangles, quads
	MaxCells     int     `yaml:"max_cells"` // sdfx kernel only, 0 means unlimited
}

// TraceConfig configures sphere tracing. A zero MaxT means unbounded.
type TraceConfig struct {
	MinT          float64 `yaml:"min_t"`
	MaxT          float64 `yaml:"max_t"`
	StepFactor    float64 `yaml:"step_factor"`
	SDFThreshold  float64 `yaml:"sdf_threshold"`
	MaxIterations int     `yaml:"max_iterations"`
}

// RenderConfig configures the preview renderer.
type RenderConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FOVDegrees float64 `yaml:"fov_degrees"` // vertical field of view
	Eye        Vec3    `yaml:"eye"`
	Center     Vec3    `yaml:"center"`
	Up         Vec3    `yaml:"up"`
	Lights     []Vec3  `yaml:"lights"`
	Workers    int     `yaml:"workers"`
}

// EngineConfig configures script evaluation.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	so := surface.DefaultOptions()
	to := field.DefaultTraceOptions()
	return &Config{
		Extract: ExtractConfig{
			Kernel:       "dc",
			Bounds:       2,
			Resolution:   0.05,
			Iso:          so.Iso,
			Placement:    so.Placement.String(),
			Crossing:     so.Crossing.String(),
			SVDThreshold: qef.DefaultThreshold,
			Output:       so.Faces.String(),
		},
		Trace: TraceConfig{
			MinT:          to.MinT,
			StepFactor:    to.StepFactor,
			SDFThreshold:  to.SDFThreshold,
			MaxIterations: to.MaxIterations,
		},
		Render: RenderConfig{
			Width:      640,
			Height:     480,
			FOVDegrees: 45,
			Eye:        Vec3{0, 0, 5},
			Up:         Vec3{0, 1, 0},
			Lights:     []Vec3{{0, 0, 100}},
		},
		Engine:  EngineConfig{Timeout: 5 * time.Second},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	e := c.Extract
	if e.Kernel != "dc" && e.Kernel != "sdfx" {
		bad("extract.kernel: unknown kernel %q", e.Kernel)
	}
	if !(e.Bounds > 0) || math.IsInf(e.Bounds, 0) {
		bad("extract.bounds: must be positive, got %g", e.Bounds)
	}
	if !(e.Resolution > 0) || math.IsInf(e.Resolution, 0) {
		bad("extract.resolution: must be positive, got %g", e.Resolution)
	}
	if _, err := surface.ParsePlacement(e.Placement); err != nil {
		bad("extract.placement: %w", err)
	}
	if _, err := surface.ParseCrossing(e.Crossing); err != nil {
		bad("extract.crossing: %w", err)
	}
	if _, err := surface.ParseFaceMode(e.Output); err != nil {
		bad("extract.output: %w", err)
	}
	if e.SVDThreshold < 0 {
		bad("extract.svd_threshold: must not be negative, got %g", e.SVDThreshold)
	}
	if e.MaxCells < 0 {
		bad("extract.max_cells: must not be negative, got %d", e.MaxCells)
	}

	t := c.Trace
	if t.MaxT < 0 || (t.MaxT > 0 && t.MaxT <= t.MinT) {
		bad("trace.max_t: %g must exceed min_t %g", t.MaxT, t.MinT)
	}
	if !(t.StepFactor > 0) || t.StepFactor > 1 {
		bad("trace.step_factor: must be in (0, 1], got %g", t.StepFactor)
	}
	if !(t.SDFThreshold > 0) {
		bad("trace.sdf_threshold: must be positive, got %g", t.SDFThreshold)
	}
	if t.MaxIterations <= 0 {
		bad("trace.max_iterations: must be positive, got %d", t.MaxIterations)
	}

	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		bad("render: image size %dx%d", r.Width, r.Height)
	}
	if !(r.FOVDegrees > 0 && r.FOVDegrees < 180) {
		bad("render.fov_degrees: must be in (0, 180), got %g", r.FOVDegrees)
	}
	if _, err := c.Camera(); err != nil {
		bad("render: %w", err)
	}
	if r.Workers < 0 {
		bad("render.workers: must not be negative, got %d", r.Workers)
	}

	if c.Engine.Timeout <= 0 {
		bad("engine.timeout: must be positive, got %s", c.Engine.Timeout)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		bad("logging.level: unknown level %q", c.Logging.Level)
	}
	return errors.Join(errs...)
}

// Region returns the default part region.
func (c *Config) Region() kernel.Region {
	return kernel.Cube(c.Extract.Bounds, c.Extract.Resolution)
}

// SurfaceOptions returns extractor options. Bounds and resolution are
// those of the default region.
func (c *Config) SurfaceOptions() (surface.Options, error) {
	opts := surface.DefaultOptions()
	r := c.Region()
	opts.Lower, opts.Upper, opts.Resolution = r.Lower, r.Upper, r.Resolution
	opts.Iso = c.Extract.Iso
	opts.SVDThreshold = c.Extract.SVDThreshold

	var err error
	if opts.Placement, err = surface.ParsePlacement(c.Extract.Placement); err != nil {
		return opts, err
	}
	if opts.Crossing, err = surface.ParseCrossing(c.Extract.Crossing); err != nil {
		return opts, err
	}
	if opts.Faces, err = surface.ParseFaceMode(c.Extract.Output); err != nil {
		return opts, err
	}
	return opts, nil
}

// TraceOptions returns sphere tracing options.
func (c *Config) TraceOptions() field.TraceOptions {
	opts := field.TraceOptions{
		MinT:          c.Trace.MinT,
		MaxT:          c.Trace.MaxT,
		StepFactor:    c.Trace.StepFactor,
		SDFThreshold:  c.Trace.SDFThreshold,
		MaxIterations: c.Trace.MaxIterations,
	}
	if opts.MaxT == 0 {
		opts.MaxT = math.MaxFloat64
	}
	return opts
}

// RenderOptions returns renderer options without a logger.
func (c *Config) RenderOptions() render.Options {
	lights := make([]render.Light, len(c.Render.Lights))
	for i, l := range c.Render.Lights {
		lights[i] = render.Light{Position: l.Vec(), Intensity: 1}
	}
	return render.Options{
		Width:   c.Render.Width,
		Height:  c.Render.Height,
		Trace:   c.TraceOptions(),
		Lights:  lights,
		Workers: c.Render.Workers,
	}
}

// Camera builds the configured look-at camera.
func (c *Config) Camera() (*render.Camera, error) {
	r := c.Render
	cam := render.NewCamera()
	if r.Width > 0 && r.Height > 0 {
		cam.SetPerspective(r.Width, r.Height, r.FOVDegrees*math.Pi/180)
	}
	if err := cam.LookAt(r.Eye.Vec(), r.Center.Vec(), r.Up.Vec()); err != nil {
		return nil, err
	}
	return cam, nil
}
