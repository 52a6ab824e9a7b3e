package main

import (
	"github.com/spf13/cobra"
)

var meanFieldCmd = &cobra.Command{
	Use:   "meanfield",
	Short: "Integrate the two-population model over the parameter grid",
	Long: `Run every combination of the meanfield lists in the config and write
meanfield.parquet (one row per setting and day) and meanfield_summary.parquet
(peak, totals and R0 per setting).`,
	RunE: runMeanField,
}

func init() {
	rootCmd.AddCommand(meanFieldCmd)
}

func runMeanField(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := a.runContext(cmd)
	defer cancel()

	if _, err := a.runMeanField(ctx); err != nil {
		return err
	}
	return a.finish()
}
