package main

import (
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the whole campaign: labels, SIR trials and the mean-field grid",
	RunE:  runSweep,
}

var sweepGraph string

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVar(&sweepGraph, "graph", "", "graph file (overrides graph.path)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := a.runContext(cmd)
	defer cancel()

	g, err := a.loadGraph(sweepGraph)
	if err != nil {
		return err
	}
	labels, err := a.sweepLabels(g)
	if err != nil {
		return err
	}
	if _, err := a.runAgent(ctx, g, labels); err != nil {
		return err
	}
	if _, err := a.runMeanField(ctx); err != nil {
		return err
	}
	return a.finish()
}
