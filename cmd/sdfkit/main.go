// Command sdfkit evaluates scene scripts and turns them into meshes, preview
// images and ray traces.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/sdfkit/pkg/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	kernelName string

	cfg    *config.Config
	logger *zap.Logger
)

// newRootCmd builds the command tree. Flags are bound afresh on every call.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sdfkit",
		Short: "Signed distance field modelling toolkit",
		Long: `sdfkit builds solids from signed distance fields described in a small
Lisp dialect, meshes them by dual contouring or marching cubes, and renders
previews by sphere tracing.

Example:
  sdfkit mesh bracket.sdf -o bracket.stl
  sdfkit render bracket.sdf -o bracket.png --mode shaded`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}
			if cmd.Flags().Changed("kernel") {
				cfg.Extract.Kernel = kernelName
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if logger, err = newLogger(cfg.Logging.Level, verbose); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&kernelName, "kernel", "k", "dc", "Meshing kernel (dc, sdfx)")

	root.AddCommand(newMeshCmd(), newRenderCmd(), newTraceCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// newLogger builds a production logger at level, or debug when verbose.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
