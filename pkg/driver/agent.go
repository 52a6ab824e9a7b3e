package driver

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dd0wney/infodemic/pkg/aggregate"
	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/epidemic"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/metrics"
	"github.com/dd0wney/infodemic/pkg/parallel"
	"github.com/dd0wney/infodemic/pkg/validation"
)

// AgentConfig describes an agent-based campaign: one threshold sweep, then
// Trials experiments per threshold.
type AgentConfig struct {
	Attribute  string
	Thresholds []int
	Params     epidemic.Params
	Trials     int
	Days       int
	Seed       uint64
	Workers    int
	// Labels, when set, supplies the label set of every threshold and no
	// sweep is run
	Labels map[int]diffusion.LabelSet
}

// Validate reports every configuration problem in c.
func (c AgentConfig) Validate() error {
	cv := validation.NewConfigValidator("agent").
		When(c.Labels == nil, func(cv *validation.ConfigValidator) {
			cv.Required("attribute", c.Attribute)
		}).
		Positive("trials", c.Trials).
		Positive("days", c.Days).
		Custom("thresholds", func() error {
			if len(c.Thresholds) == 0 {
				return fmt.Errorf("no thresholds given")
			}
			return nil
		}).
		Custom("params", c.Params.Validate)
	for i, t := range c.Thresholds {
		cv.NonNegative(fmt.Sprintf("thresholds[%d]", i), t)
	}
	return cv.Validate()
}

// ThresholdResult is everything produced for one LT threshold.
type ThresholdResult struct {
	RunID     string
	Threshold int
	Labels    diffusion.LabelSet
	// Nodes is the size of the contact network after pruning
	Nodes  int
	Trials []*epidemic.TrialResult
	// Rows holds every node of every trial, ordered by experiment
	Rows  []epidemic.Row
	Daily *aggregate.Daily
}

// AgentResults holds campaign results by threshold.
type AgentResults = ResultSet[int, *ThresholdResult]

// RunAgentBased labels g for every threshold not already in into, then runs
// the trials of each such threshold on a worker pool.
//
// Experiment k of every threshold draws from the stream derived from
// (Seed, k), so output does not depend on scheduling and thresholds share
// random numbers. A nil into starts an empty set.
func RunAgentBased(ctx context.Context, g *graph.Graph, cfg AgentConfig, into *AgentResults, opts Options) (*AgentResults, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With(logging.Component("driver"))
	if into == nil {
		into = NewResultSet[int, *ThresholdResult]()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var pending []int
	for _, t := range cfg.Thresholds {
		if into.Has(t) || slices.Contains(pending, t) {
			logger.Debug("threshold already present, skipping", logging.Threshold(t))
			continue
		}
		pending = append(pending, t)
	}
	slices.Sort(pending)
	if len(pending) == 0 {
		return into, nil
	}

	labels, err := thresholdLabels(g, cfg, pending, opts, logger)
	if err != nil {
		return nil, err
	}

	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return into, err
		}
		res, err := runThreshold(ctx, g, cfg, t, labels[t], opts, logger)
		if err != nil {
			return into, fmt.Errorf("threshold %d: %w", t, err)
		}
		into.Add(t, res)
	}
	return into, nil
}

// thresholdLabels sweeps g over thresholds, or looks them up in cfg.Labels.
func thresholdLabels(g *graph.Graph, cfg AgentConfig, thresholds []int, opts Options, logger logging.Logger) (map[int]diffusion.LabelSet, error) {
	if cfg.Labels != nil {
		out := make(map[int]diffusion.LabelSet, len(thresholds))
		for _, t := range thresholds {
			set, ok := cfg.Labels[t]
			if !ok {
				return nil, fmt.Errorf("%w: no labels for threshold %d", ErrUnknownSetting, t)
			}
			out[t] = set
		}
		return out, nil
	}

	return sweep(g, cfg.Attribute, thresholds, opts, logger)
}

// Sweep labels g at every threshold, recording diffusion metrics when opts
// carries a registry. g is left labelled for the last threshold.
func Sweep(g *graph.Graph, attribute string, thresholds []int, opts Options) (map[int]diffusion.LabelSet, error) {
	opts = opts.withDefaults()
	return sweep(g, attribute, thresholds, opts, opts.Logger.With(logging.Component("driver")))
}

func sweep(g *graph.Graph, attribute string, thresholds []int, opts Options, logger logging.Logger) (map[int]diffusion.LabelSet, error) {
	start := time.Now()
	labels, err := diffusion.Sweep(g, thresholds, attribute, logger)
	if err != nil {
		if opts.Metrics != nil {
			opts.Metrics.RecordDiffusionError()
		}
		return nil, fmt.Errorf("threshold sweep: %w", err)
	}
	if opts.Metrics != nil {
		opts.Metrics.ObserveDiffusionSweep(time.Since(start))
		seeds := diffusion.SeedCount(g, attribute)
		for _, t := range thresholds {
			opts.Metrics.RecordDiffusion(t, seeds, labels[t].Len()-seeds)
		}
	}
	return labels, nil
}

func runThreshold(ctx context.Context, g *graph.Graph, cfg AgentConfig, threshold int, labels diffusion.LabelSet, opts Options, logger logging.Logger) (*ThresholdResult, error) {
	logger = logger.With(logging.Threshold(threshold))
	sim, err := epidemic.NewSimulation(g, labels, cfg.Params, epidemic.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	timer := logging.StartTimer(logger, "trials complete",
		logging.Int("trials", cfg.Trials),
		logging.Int("nodes", sim.NodeCount()),
		logging.Int("misinformed", sim.MisinformedCount()),
	)

	trials := make([]*epidemic.TrialResult, cfg.Trials)
	tasks := make([]parallel.Task, cfg.Trials)
	for i := range tasks {
		k := i + 1
		tasks[i] = func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := sim.RunTrial(k, cfg.Days, cfg.Seed)
			if err != nil {
				if opts.Metrics != nil {
					opts.Metrics.RecordTrialError()
				}
				return fmt.Errorf("experiment %d: %w", k, err)
			}
			trials[i] = res
			if opts.Metrics != nil {
				opts.Metrics.RecordTrial(trialStats(threshold, res))
			}
			return nil
		}
	}
	if err := parallel.Run(cfg.Workers, tasks); err != nil {
		timer.EndError(err)
		return nil, err
	}

	rows := epidemic.CollectRows(trials)
	daily, err := aggregate.DailyInfections(rows, cfg.Days)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	timer.End(logging.Float64("peak_mean_infected", aggregate.MaxValue(daily.Mean)),
		logging.Day(aggregate.PeakDay(daily.Mean)))

	return &ThresholdResult{
		RunID:     opts.RunID,
		Threshold: threshold,
		Labels:    labels,
		Nodes:     sim.NodeCount(),
		Trials:    trials,
		Rows:      rows,
		Daily:     daily,
	}, nil
}

func trialStats(threshold int, res *epidemic.TrialResult) metrics.TrialStats {
	final := res.Final()
	return metrics.TrialStats{
		Threshold:  threshold,
		Days:       len(res.Daily) - 1,
		Infections: final.I + final.R,
		Recoveries: final.R,
		AttackRate: res.AttackRate(),
		Duration:   res.Duration,
	}
}

// CompareThresholds contrasts the daily curves of two thresholds.
func CompareThresholds(results *AgentResults, a, b int) (aggregate.Comparison, error) {
	ra, ok := results.Get(a)
	if !ok {
		return aggregate.Comparison{}, fmt.Errorf("%w: threshold %d", ErrUnknownSetting, a)
	}
	rb, ok := results.Get(b)
	if !ok {
		return aggregate.Comparison{}, fmt.Errorf("%w: threshold %d", ErrUnknownSetting, b)
	}
	return aggregate.Compare(aggregate.CurveFromDaily(ra.Daily), aggregate.CurveFromDaily(rb.Daily)), nil
}
