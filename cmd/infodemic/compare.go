package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dd0wney/infodemic/pkg/aggregate"
	"github.com/dd0wney/infodemic/pkg/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare A B",
	Short: "Compare two saved curves",
	Long: `Compare the curve of A against baseline B: extra infections at the peak,
days between peaks and extra cumulative infections.

A and B are LT thresholds looked up in daily.parquet, or with --meanfield
setting keys looked up in meanfield.parquet.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

var compareMeanField bool

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&compareMeanField, "meanfield", false, "compare mean-field settings instead of thresholds")
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var curveA, curveB aggregate.Curve
	if compareMeanField {
		curveA, curveB, err = meanFieldCurves(a, args[0], args[1])
	} else {
		curveA, curveB, err = thresholdCurves(a, args[0], args[1])
	}
	if err != nil {
		return err
	}

	c := aggregate.Compare(curveA, curveB)
	a.printTable([]string{"statistic", "value"}, [][]string{
		{"additional infected at peak", formatFloat(c.AdditionalPeak)},
		{"days between peaks", strconv.Itoa(c.DaysBetweenPeaks)},
		{"additional cumulative infected", formatFloat(c.AdditionalCumulative)},
		{"relative increase", formatFloat(c.RelativeIncrease)},
	})
	return a.finish()
}

func thresholdCurves(a *app, first, second string) (aggregate.Curve, aggregate.Curve, error) {
	var none aggregate.Curve
	records, err := output.ReadDaily(a.path(output.DailyFile))
	if err != nil {
		return none, none, err
	}

	curves := make([]aggregate.Curve, 2)
	for i, arg := range []string{first, second} {
		t, err := strconv.Atoi(arg)
		if err != nil {
			return none, none, fmt.Errorf("threshold %q is not an integer", arg)
		}
		c, ok := output.DailyCurve(records, t)
		if !ok {
			return none, none, fmt.Errorf("threshold %d not found in %s", t, output.DailyFile)
		}
		curves[i] = c
	}
	return curves[0], curves[1], nil
}

func meanFieldCurves(a *app, first, second string) (aggregate.Curve, aggregate.Curve, error) {
	var none aggregate.Curve
	records, err := output.ReadMeanField(a.path(output.MeanFieldFile))
	if err != nil {
		return none, none, err
	}

	curves := make([]aggregate.Curve, 2)
	for i, key := range []string{first, second} {
		c, ok := output.MeanFieldCurve(records, key)
		if !ok {
			return none, none, fmt.Errorf("setting %q not found in %s", key, output.MeanFieldFile)
		}
		curves[i] = c
	}
	return curves[0], curves[1], nil
}
