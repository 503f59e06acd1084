package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chazu/sdfkit/pkg/config"
	"github.com/chazu/sdfkit/pkg/engine"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/kernel/dc"
	"github.com/chazu/sdfkit/pkg/kernel/sdfx"
	"github.com/chazu/sdfkit/pkg/scene"
	"github.com/chazu/sdfkit/pkg/workbench"
)

func newEngine(c *config.Config) *engine.Engine {
	return engine.NewEngine(
		engine.WithTimeout(c.Engine.Timeout),
		engine.WithRegion(c.Region()),
	)
}

// newWorkbench returns a workbench evaluating scripts with the configured
// engine.
func newWorkbench(c *config.Config, opts ...workbench.Option) *workbench.Workbench {
	opts = append([]workbench.Option{
		workbench.WithEngine(newEngine(c)),
		workbench.WithLogger(logger),
		workbench.WithWorkers(c.Render.Workers),
	}, opts...)
	return workbench.New(opts...)
}

// loadScene evaluates the script at path.
func loadScene(c *config.Config, path string) (*scene.Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := newWorkbench(c).Load(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("script evaluated", zap.String("path", path), zap.Int("parts", sc.PartCount()))
	return sc, nil
}

// newKernel returns the configured meshing kernel.
func newKernel(c *config.Config) (kernel.Kernel, error) {
	switch c.Extract.Kernel {
	case "dc":
		opts, err := c.SurfaceOptions()
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
		return dc.New(opts), nil
	case "sdfx":
		k := sdfx.New()
		k.MaxCells = c.Extract.MaxCells
		k.Iso = c.Extract.Iso
		return k, nil
	}
	return nil, fmt.Errorf("unknown kernel %q", c.Extract.Kernel)
}
