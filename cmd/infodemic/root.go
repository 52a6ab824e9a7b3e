package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "infodemic",
	Short: "Epidemics on networks with a misinformed population",
	Long: `infodemic labels users of a social network as misinformed with a Linear
Threshold step, then simulates a disease outbreak over the contact network in
which misinformed users are more susceptible. A two-population mean-field model
gives the same picture without a network.

Settings come from a YAML experiment file (--config). Flags and INFODEMIC_*
environment variables override the file.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "experiment config file (YAML)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("output", "", "output directory (overrides output.dir)")
	pf.Uint64("seed", 0, "base seed of agent-based trials (overrides sir.seed)")
	pf.Int("workers", 0, "trials run concurrently (overrides sir.workers)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	for _, name := range []string{"config", "log-level", "output", "seed", "workers", "metrics-file"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

// initConfig maps INFODEMIC_LOG_LEVEL and friends onto the flags.
func initConfig() {
	viper.SetEnvPrefix("infodemic")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
