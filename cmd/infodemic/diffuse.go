package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
)

var diffuseCmd = &cobra.Command{
	Use:   "diffuse",
	Short: "Label misinformed users for every threshold",
	Long: `Run one Linear Threshold step per configured threshold and save the label
sets to the labels artifact. With --apply the graph is also written out with
the opinions of that threshold.`,
	RunE: runDiffuse,
}

var (
	diffuseGraph    string
	diffuseApply    int
	diffuseGraphOut string
)

func init() {
	rootCmd.AddCommand(diffuseCmd)

	diffuseCmd.Flags().StringVar(&diffuseGraph, "graph", "", "graph file (overrides graph.path)")
	diffuseCmd.Flags().IntVar(&diffuseApply, "apply", -1, "threshold whose labels are written with --graph-out")
	diffuseCmd.Flags().StringVar(&diffuseGraphOut, "graph-out", "", "write the labelled graph here")
}

func runDiffuse(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	g, err := a.loadGraph(diffuseGraph)
	if err != nil {
		return err
	}

	sets, err := a.sweepLabels(g)
	if err != nil {
		return err
	}

	if diffuseGraphOut != "" {
		set, ok := sets[diffuseApply]
		if !ok {
			return fmt.Errorf("--apply %d is not a configured threshold", diffuseApply)
		}
		if err := writeLabelled(g, set, diffuseGraphOut); err != nil {
			return err
		}
		a.logger.Info("labelled graph written", logging.Path(diffuseGraphOut), logging.Threshold(diffuseApply))
	}
	return a.finish()
}

func writeLabelled(g *graph.Graph, set diffusion.LabelSet, path string) error {
	diffusion.ApplyLabels(g, set)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := graph.Encode(f, g); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return f.Close()
}
