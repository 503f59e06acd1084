// Package tessellate meshes the parts of a scene with a geometry kernel.
// One mesh is produced per part, in scene order.
package tessellate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/scene"
)

// Options control a tessellation run.
type Options struct {
	// Workers bounds the number of parts meshed at once. 0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// Tessellate meshes every part of sc with k. Parts are meshed concurrently;
// the first failure or a cancelled context aborts the run and no meshes are
// returned. The scene is never mutated.
func Tessellate(ctx context.Context, sc *scene.Scene, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if sc == nil || sc.PartCount() == 0 {
		return nil, nil
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	meshes := make([]*kernel.Mesh, sc.PartCount())
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range sc.Parts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			m, err := meshPart(k, p)
			if err != nil {
				return err
			}
			log.Debug("part meshed",
				zap.String("part", p.Name),
				zap.String("kernel", k.Name()),
				zap.Int("triangles", m.TriangleCount()),
				zap.Duration("elapsed", time.Since(start)))
			meshes[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func meshPart(k kernel.Kernel, p *scene.Part) (*kernel.Mesh, error) {
	m, err := k.ToMesh(p.Root, p.Region)
	if err != nil {
		return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
	}
	m.PartName = p.Name
	return m, nil
}
