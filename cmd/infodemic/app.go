package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dd0wney/infodemic/pkg/config"
	"github.com/dd0wney/infodemic/pkg/driver"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/metrics"
)

// defaultLabelsFile is used when output.labels_file is empty.
const defaultLabelsFile = "labels.snappy"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// app is the state shared by every command: the effective configuration, a
// logger and a metrics registry.
type app struct {
	cfg     *config.Experiment
	runID   string
	logger  logging.Logger
	metrics *metrics.Registry
	out     io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Default()
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if viper.IsSet("output") {
		cfg.Output.Dir = viper.GetString("output")
	}
	if viper.IsSet("seed") {
		cfg.SIR.Seed = viper.GetUint64("seed")
	}
	if viper.IsSet("workers") {
		cfg.SIR.Workers = viper.GetInt("workers")
	}
	if viper.IsSet("metrics-file") {
		cfg.Output.MetricsFile = viper.GetString("metrics-file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := logging.ParseLevel(viper.GetString("log-level"))
	return &app{
		cfg:     cfg,
		runID:   uuid.NewString(),
		logger:  logging.NewJSONLogger(os.Stderr, level),
		metrics: metrics.NewRegistry(),
		out:     cmd.OutOrStdout(),
	}, nil
}

// runContext is cancelled on SIGINT or SIGTERM.
func (a *app) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func (a *app) options() driver.Options {
	return driver.Options{RunID: a.runID, Logger: a.logger, Metrics: a.metrics}
}

// loadGraph reads path, falling back to graph.path from the config.
func (a *app) loadGraph(path string) (*graph.Graph, error) {
	if path == "" {
		path = a.cfg.Graph.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no graph given: set graph.path or --graph")
	}

	timer := logging.StartTimer(a.logger, "graph loaded", logging.Path(path))
	g, err := graph.LoadFile(path)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))
	return g, nil
}

func (a *app) labelsPath() string {
	if a.cfg.Output.LabelsFile != "" {
		return a.cfg.Output.LabelsFile
	}
	return filepath.Join(a.cfg.Output.Dir, defaultLabelsFile)
}

// finish exports metrics when a metrics file is configured.
func (a *app) finish() error {
	path := a.cfg.Output.MetricsFile
	if path == "" {
		return nil
	}
	a.metrics.UpdateSystemMetrics()
	if err := a.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	a.logger.Info("metrics written", logging.Path(path))
	return nil
}

func (a *app) printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(a.out, t.Render())
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// path locates a table in the output directory.
func (a *app) path(name string) string {
	return filepath.Join(a.cfg.Output.Dir, name)
}
