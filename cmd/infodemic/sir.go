package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/output"
)

var sirCmd = &cobra.Command{
	Use:   "sir",
	Short: "Run agent-based SIR trials over the contact network",
	Long: `Run the configured number of SIR trials for every threshold and write
nodes.parquet and daily.parquet to the output directory.

Without --labels the thresholds are swept on the contact network itself. With
--labels the saved label sets are applied to it instead, and the thresholds
are the ones stored in the artifact.`,
	RunE: runSIR,
}

var (
	sirGraph  string
	sirLabels string
)

func init() {
	rootCmd.AddCommand(sirCmd)

	sirCmd.Flags().StringVar(&sirGraph, "graph", "", "contact network (overrides graph.path)")
	sirCmd.Flags().StringVar(&sirLabels, "labels", "", "label artifact written by diffuse")
}

func runSIR(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := a.runContext(cmd)
	defer cancel()

	g, err := a.loadGraph(sirGraph)
	if err != nil {
		return err
	}

	var labels map[int]diffusion.LabelSet
	if sirLabels != "" {
		artifact, err := output.ReadLabels(sirLabels)
		if err != nil {
			return err
		}
		labels = artifact.Sets()
		a.cfg.Diffusion.Thresholds = artifact.SortedThresholds()
		a.logger.Info("labels loaded",
			logging.Path(sirLabels),
			logging.String("labels_run_id", artifact.RunID),
			logging.Count(len(labels)),
		)
	}

	if _, err := a.runAgent(ctx, g, labels); err != nil {
		return err
	}
	return a.finish()
}
