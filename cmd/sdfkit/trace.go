package main

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
)

var (
	traceOrigin []float64
	traceDir    []float64
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [script]",
		Short: "Sphere trace a single ray through a scene script",
		Long: `Traces origin + t*dir against the union of all parts and prints where
the trace stopped.

Example:
  sdfkit trace bracket.sdf --origin 0,0,5 --dir 0,0,-1`,
		Args: cobra.ExactArgs(1),
		RunE: runTrace,
	}

	cmd.Flags().Float64SliceVar(&traceOrigin, "origin", []float64{0, 0, 5}, "Ray origin x,y,z")
	cmd.Flags().Float64SliceVar(&traceDir, "dir", []float64{0, 0, -1}, "Ray direction x,y,z")
	return cmd
}

func toVec(name string, s []float64) (v3.Vec, error) {
	if len(s) != 3 {
		return v3.Vec{}, fmt.Errorf("--%s needs three components, got %d", name, len(s))
	}
	return v3.Vec{X: s[0], Y: s[1], Z: s[2]}, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	origin, err := toVec("origin", traceOrigin)
	if err != nil {
		return err
	}
	dir, err := toVec("dir", traceDir)
	if err != nil {
		return err
	}
	if dir.Length() == 0 {
		return fmt.Errorf("--dir must not be zero")
	}

	sc, err := loadScene(cfg, args[0])
	if err != nil {
		return err
	}
	root := sc.Root()
	if root == nil {
		return fmt.Errorf("%s: script declares no parts", args[0])
	}
	tr, err := root.Trace(origin, dir, cfg.TraceOptions())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := origin.Add(dir.MulScalar(tr.T))
	fmt.Fprintf(out, "hit:        %t\n", tr.Hit)
	fmt.Fprintf(out, "t:          %g\n", tr.T)
	fmt.Fprintf(out, "point:      %g %g %g\n", p.X, p.Y, p.Z)
	fmt.Fprintf(out, "distance:   %g\n", tr.SDF)
	fmt.Fprintf(out, "iterations: %d\n", tr.Iterations)
	if tr.Node != nil {
		fmt.Fprintf(out, "node:       %s\n", tr.Node)
	}
	return nil
}
