package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/sdfkit/pkg/config"
	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/scene"
	"github.com/chazu/sdfkit/pkg/surface"
	"github.com/chazu/sdfkit/pkg/surface/export"
	"github.com/chazu/sdfkit/pkg/workbench"
)

var (
	meshOutput string
	meshPart   string
	meshJSON   bool
)

func newMeshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mesh [script]",
		Short: "Mesh the parts of a scene script",
		Long: `Evaluates the script and meshes every part inside its region.

The output format follows the file extension (.stl or .off). A scene with
more than one part writes one file per part, named after the output with
the part name appended, e.g. out-plate.stl.

With --json the meshes are written as a JSON document of flat vertex,
normal and index arrays together with any script errors.`,
		Args: cobra.ExactArgs(1),
		RunE: runMesh,
	}

	cmd.Flags().StringVarP(&meshOutput, "output", "o", "out.stl", "Output file (- for stdout with --json)")
	cmd.Flags().StringVarP(&meshPart, "part", "p", "", "Mesh only the named part")
	cmd.Flags().BoolVar(&meshJSON, "json", false, "Write meshes as JSON")
	return cmd
}

func runMesh(cmd *cobra.Command, args []string) error {
	if meshJSON {
		return runMeshJSON(cmd, args[0])
	}
	if _, err := export.ForPath(meshOutput); err != nil {
		return err
	}

	sc, err := loadScene(cfg, args[0])
	if err != nil {
		return err
	}
	parts := sc.Parts
	if meshPart != "" {
		p := sc.Lookup(meshPart)
		if p == nil {
			return fmt.Errorf("no part named %q", meshPart)
		}
		parts = []*scene.Part{p}
	}
	if len(parts) == 0 {
		return fmt.Errorf("%s: script declares no parts", args[0])
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	if n := cfg.Render.Workers; n > 0 {
		g.SetLimit(n)
	}
	for _, p := range parts {
		path := partPath(meshOutput, p.Name, len(parts))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := extractPart(cfg, p)
			if err != nil {
				return fmt.Errorf("part %q: %w", p.Name, err)
			}
			if err := export.Save(path, s); err != nil {
				return err
			}
			logger.Info("mesh written",
				zap.String("part", p.Name),
				zap.String("path", path),
				zap.Int("vertices", len(s.Vertices)),
				zap.Int("faces", len(s.Faces)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	}
	return g.Wait()
}

func runMeshJSON(cmd *cobra.Command, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	k, err := newKernel(cfg)
	if err != nil {
		return err
	}
	result := newWorkbench(cfg, workbench.WithKernel(k)).Evaluate(cmd.Context(), string(src))
	data, err := result.JSON()
	if err != nil {
		return err
	}
	if meshOutput == "-" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	} else {
		err = os.WriteFile(meshOutput, data, 0o644)
	}
	if err != nil {
		return err
	}
	return result.Err()
}

// extractPart meshes a part with the configured kernel. The dc kernel goes
// through the extractor directly so quad output survives.
func extractPart(c *config.Config, p *scene.Part) (*surface.IndexedSurface, error) {
	if c.Extract.Kernel == "dc" {
		opts, err := c.SurfaceOptions()
		if err != nil {
			return nil, err
		}
		opts.Lower, opts.Upper, opts.Resolution = p.Region.Lower, p.Region.Upper, p.Region.Resolution
		opts.Logger = logger.With(zap.String("part", p.Name))
		return surface.Extract(p.Root, opts)
	}
	k, err := newKernel(c)
	if err != nil {
		return nil, err
	}
	m, err := k.ToMesh(p.Root, p.Region)
	if err != nil {
		return nil, err
	}
	return meshSurface(m), nil
}

// meshSurface converts a render mesh back to an indexed triangle surface.
func meshSurface(m *kernel.Mesh) *surface.IndexedSurface {
	s := &surface.IndexedSurface{
		Vertices: make([]v3.Vec, m.VertexCount()),
		Faces:    make([]surface.Face, m.TriangleCount()),
	}
	for i := range s.Vertices {
		v := m.Vertex(i)
		s.Vertices[i] = v3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	}
	for i := range s.Faces {
		s.Faces[i] = surface.Face{int(m.Indices[3*i]), int(m.Indices[3*i+1]), int(m.Indices[3*i+2])}
	}
	return s
}

// partPath returns the output file for a part. Single part scenes use the
// output as given.
func partPath(output, part string, n int) string {
	if n <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "-" + part + ext
}
