package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dd0wney/infodemic/pkg/aggregate"
	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/driver"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/output"
)

// sweepLabels runs the configured thresholds over g and saves the label sets.
func (a *app) sweepLabels(g *graph.Graph) (map[int]diffusion.LabelSet, error) {
	attr := a.cfg.Graph.MisinfoAttribute
	sets, err := driver.Sweep(g, attr, a.cfg.Diffusion.Thresholds, a.options())
	if err != nil {
		return nil, err
	}

	artifact := output.NewLabelArtifact(a.runID, attr, sets)
	path := a.labelsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create labels directory: %w", err)
	}
	if err := output.WriteLabels(path, artifact); err != nil {
		return nil, err
	}
	a.logger.Info("labels written", logging.Path(path), logging.Count(len(sets)))

	seeds := diffusion.SeedCount(g, attr)
	rows := make([][]string, 0, len(sets))
	for _, t := range artifact.SortedThresholds() {
		rows = append(rows, []string{
			strconv.Itoa(t),
			strconv.Itoa(seeds),
			strconv.Itoa(sets[t].Len() - seeds),
			strconv.Itoa(sets[t].Len()),
		})
	}
	a.printTable([]string{"threshold", "seeds", "promoted", "misinformed"}, rows)
	return sets, nil
}

// runAgent runs the SIR trials of every threshold and writes the node and
// daily tables. With labels nil every threshold is swept on g first.
func (a *app) runAgent(ctx context.Context, g *graph.Graph, labels map[int]diffusion.LabelSet) (*driver.AgentResults, error) {
	sir := a.cfg.SIR
	cfg := driver.AgentConfig{
		Attribute:  a.cfg.Graph.MisinfoAttribute,
		Thresholds: a.cfg.Diffusion.Thresholds,
		Params:     sir.Params,
		Trials:     sir.Trials,
		Days:       sir.Days,
		Seed:       sir.Seed,
		Workers:    sir.Workers,
		Labels:     labels,
	}
	results, err := driver.RunAgentBased(ctx, g, cfg, nil, a.options())
	if err != nil {
		return nil, err
	}

	w, err := output.NewWriter(a.cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	var nodes []output.NodeRecord
	var daily []output.DailyRecord
	rows := make([][]string, 0, results.Len())
	for _, t := range results.SortedKeys() {
		res, _ := results.Get(t)
		nodes = append(nodes, output.NodeRecords(res.RunID, t, res.Rows)...)
		daily = append(daily, output.DailyRecords(res.RunID, t, res.Daily)...)

		curve := aggregate.CurveFromDaily(res.Daily)
		rows = append(rows, []string{
			strconv.Itoa(t),
			strconv.Itoa(res.Labels.Len()),
			strconv.Itoa(aggregate.PeakDay(curve.Infected)),
			formatFloat(aggregate.MaxValue(curve.Infected)),
			formatFloat(aggregate.MaxValue(curve.Cumulative)),
		})
	}
	if err := w.WriteNodes(nodes); err != nil {
		return nil, err
	}
	if err := w.WriteDaily(daily); err != nil {
		return nil, err
	}
	a.logger.Info("agent-based tables written",
		logging.Path(w.Dir()),
		logging.Int("node_rows", len(nodes)),
		logging.Int("daily_rows", len(daily)),
	)

	a.printTable([]string{"threshold", "misinformed", "peak day", "peak share", "attack rate"}, rows)
	return results, nil
}

// runMeanField integrates every setting of the configured grid and writes the
// trajectory and summary tables.
func (a *app) runMeanField(ctx context.Context) (*driver.MeanFieldResults, error) {
	mf := a.cfg.MeanField
	grid := driver.MeanFieldGrid{
		FracOrdinary:    mf.FracOrdinary,
		BetaOrdinary:    mf.BetaOrdinary,
		BetaMultiplier:  mf.BetaMultiplier,
		RecoveryDays:    mf.RecoveryDays,
		Alpha:           mf.Alpha,
		Homophily:       mf.Homophily,
		Mixed:           mf.Mixed,
		NumDays:         mf.NumDays,
		InitialInfected: mf.InitialInfected,
		Counts:          mf.Counts,
		N:               mf.N,
	}
	results, err := driver.RunMeanFieldGrid(ctx, grid, nil, a.options())
	if err != nil {
		return nil, err
	}

	w, err := output.NewWriter(a.cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	var records []output.MeanFieldRecord
	summaries := make([]output.MeanFieldSummary, 0, results.Len())
	rows := make([][]string, 0, results.Len())
	for _, key := range results.Keys() {
		res, _ := results.Get(key)
		records = append(records, output.MeanFieldRecords(key, res)...)
		s := output.Summarize(key, res)
		summaries = append(summaries, s)
		rows = append(rows, []string{
			key,
			strconv.Itoa(int(s.PeakDay)),
			formatFloat(s.MaxInfected),
			formatFloat(s.TotalInfected),
			formatFloat(s.R0Weighted),
		})
	}
	if err := w.WriteMeanField(records); err != nil {
		return nil, err
	}
	if err := w.WriteMeanFieldSummary(summaries); err != nil {
		return nil, err
	}
	a.logger.Info("mean-field tables written", logging.Path(w.Dir()), logging.Count(len(summaries)))

	a.printTable([]string{"setting", "peak day", "peak share", "total infected", "R0"}, rows)
	return results, nil
}
