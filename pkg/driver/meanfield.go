package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/infodemic/pkg/aggregate"
	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/meanfield"
	"github.com/dd0wney/infodemic/pkg/metrics"
)

// MeanFieldGrid lists the values to combine. Every list must be non-empty.
type MeanFieldGrid struct {
	FracOrdinary   []float64
	BetaOrdinary   []float64
	BetaMultiplier []float64
	RecoveryDays   []float64
	Alpha          []float64
	Homophily      []bool
	Mixed          []bool

	NumDays         int
	InitialInfected float64
	Counts          bool
	N               float64
}

// Points expands the grid into its Cartesian product. The first list varies
// slowest.
func (g MeanFieldGrid) Points() []meanfield.Params {
	var points []meanfield.Params
	for _, x := range g.FracOrdinary {
		for _, beta := range g.BetaOrdinary {
			for _, mult := range g.BetaMultiplier {
				for _, rec := range g.RecoveryDays {
					for _, alpha := range g.Alpha {
						for _, hom := range g.Homophily {
							for _, mixed := range g.Mixed {
								points = append(points, meanfield.Params{
									FracOrdinary:    x,
									InitialInfected: g.InitialInfected,
									NumDays:         g.NumDays,
									BetaOrdinary:    beta,
									RecoveryDays:    rec,
									BetaMultiplier:  mult,
									Homophily:       hom,
									Alpha:           alpha,
									MixedSeeding:    mixed,
									Counts:          g.Counts,
									N:               g.N,
								})
							}
						}
					}
				}
			}
		}
	}
	return points
}

// Key is the canonical name of a setting. Settings that integrate to the same
// trajectory share a key: alpha is left out without homophily and N without
// counts mode.
func Key(p meanfield.Params) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	parts := []string{
		"x=" + f(p.FracOrdinary),
		"eps=" + f(p.InitialInfected),
		"days=" + strconv.Itoa(p.NumDays),
		"beta=" + f(p.BetaOrdinary),
		"mult=" + f(p.BetaMultiplier),
		"rec=" + f(p.RecoveryDays),
	}
	if p.Homophily {
		parts = append(parts, "alpha="+f(p.Alpha))
	} else {
		parts = append(parts, "alpha=none")
	}
	parts = append(parts, "mixed="+strconv.FormatBool(p.MixedSeeding))
	if p.Counts {
		parts = append(parts, "n="+f(p.N))
	}
	return strings.Join(parts, ",")
}

// MeanFieldResults holds grid results by Key.
type MeanFieldResults = ResultSet[string, *meanfield.Result]

// RunMeanFieldGrid runs every distinct setting of grid not already in into
// and returns the set. A nil into starts an empty set. All settings are
// validated before any is run.
func RunMeanFieldGrid(ctx context.Context, grid MeanFieldGrid, into *MeanFieldResults, opts Options) (*MeanFieldResults, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With(logging.Component("driver"))
	if into == nil {
		into = NewResultSet[string, *meanfield.Result]()
	}

	points := grid.Points()
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: mean-field grid has an empty list", ErrEmptyGrid)
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("setting %s: %w", Key(p), err)
		}
	}

	mode := "fractions"
	if grid.Counts {
		mode = "counts"
	}

	timer := logging.StartTimer(logger, "mean-field grid complete", logging.Count(len(points)))
	ran, skipped := 0, 0
	for _, p := range points {
		if err := ctx.Err(); err != nil {
			return into, err
		}

		key := Key(p)
		if into.Has(key) {
			skipped++
			logger.Debug("setting already present, skipping", logging.String("setting", key))
			continue
		}

		res, err := meanfield.Run(p, meanfield.WithLogger(logger))
		if err != nil {
			if opts.Metrics != nil {
				opts.Metrics.RecordMeanField(mode, metrics.StatusError, 0)
				if errors.Is(err, meanfield.ErrConservation) {
					opts.Metrics.RecordInvariantViolation()
				}
			}
			timer.EndError(err)
			return into, fmt.Errorf("setting %s: %w", key, err)
		}

		peak := aggregate.PeakDay(res.Infected())
		if opts.Metrics != nil {
			opts.Metrics.RecordMeanField(mode, metrics.StatusSuccess, peak)
		}
		into.Add(key, res)
		ran++
	}

	timer.End(logging.Int("ran", ran), logging.Int("skipped", skipped))
	return into, nil
}

// CompareSettings contrasts two stored mean-field settings.
func CompareSettings(results *MeanFieldResults, a, b string) (aggregate.Comparison, error) {
	ra, ok := results.Get(a)
	if !ok {
		return aggregate.Comparison{}, fmt.Errorf("%w: %s", ErrUnknownSetting, a)
	}
	rb, ok := results.Get(b)
	if !ok {
		return aggregate.Comparison{}, fmt.Errorf("%w: %s", ErrUnknownSetting, b)
	}
	return aggregate.Compare(aggregate.CurveFromMeanField(ra), aggregate.CurveFromMeanField(rb)), nil
}
