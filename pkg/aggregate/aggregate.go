// Package aggregate reduces simulation trajectories to summary statistics.
package aggregate

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/infodemic/pkg/epidemic"
	"github.com/dd0wney/infodemic/pkg/meanfield"
)

var ErrNoRows = errors.New("no simulation rows")

// PeakDay is the 1-based position of the first maximum of series, or 0 for an
// empty series.
func PeakDay(series []float64) int {
	if len(series) == 0 {
		return 0
	}
	return floats.MaxIdx(series) + 1
}

// MaxValue is the largest value of series, or 0 for an empty series.
func MaxValue(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return floats.Max(series)
}

// Totals is the final recovered share of each group of a mean-field run.
type Totals struct {
	Ordinary    float64
	Misinformed float64
	Total       float64
}

// TotalInfected returns max(R_o), max(R_m) and their sum.
func TotalInfected(res *meanfield.Result) Totals {
	t := Totals{
		Ordinary:    MaxValue(res.RO),
		Misinformed: MaxValue(res.RM),
	}
	t.Total = t.Ordinary + t.Misinformed
	return t
}

// Daily is the new-infection curve of a set of agent-based experiments.
// Entry d-1 describes day d.
type Daily struct {
	Experiments int
	Nodes       int
	Mean        []float64
	Std         []float64
	CumMean     []float64
	PropMean    []float64
	PropStd     []float64
	PropCum     []float64
}

// Days is the number of days covered.
func (d *Daily) Days() int {
	return len(d.Mean)
}

// DailyInfections counts, per experiment, the nodes infected on each day
// 1..days, then averages over experiments. Std is the sample standard
// deviation and is 0 when there is a single experiment. Proportions are
// relative to the number of distinct nodes.
func DailyInfections(rows []epidemic.Row, days int) (*Daily, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	perExp := make(map[int][]float64)
	nodes := make(map[string]struct{})
	for _, r := range rows {
		nodes[r.NodeID] = struct{}{}
		counts, ok := perExp[r.Experiment]
		if !ok {
			counts = make([]float64, days)
			perExp[r.Experiment] = counts
		}
		if r.InfectionTime >= 1 && r.InfectionTime <= days {
			counts[r.InfectionTime-1]++
		}
	}

	exps := make([]int, 0, len(perExp))
	for k := range perExp {
		exps = append(exps, k)
	}
	slices.Sort(exps)

	d := &Daily{
		Experiments: len(exps),
		Nodes:       len(nodes),
		Mean:        make([]float64, days),
		Std:         make([]float64, days),
	}

	sample := make([]float64, len(exps))
	for day := 0; day < days; day++ {
		for i, k := range exps {
			sample[i] = perExp[k][day]
		}
		if len(sample) > 1 {
			d.Mean[day], d.Std[day] = stat.MeanStdDev(sample, nil)
		} else {
			d.Mean[day] = sample[0]
		}
	}

	d.CumMean = make([]float64, days)
	floats.CumSum(d.CumMean, d.Mean)

	n := float64(d.Nodes)
	d.PropMean = scaled(d.Mean, 1/n)
	d.PropStd = scaled(d.Std, 1/n)
	d.PropCum = scaled(d.CumMean, 1/n)
	return d, nil
}

func scaled(s []float64, k float64) []float64 {
	out := slices.Clone(s)
	floats.Scale(k, out)
	return out
}

// Curve is an epidemic curve reduced to what comparisons need: the share
// infected per day and the cumulative share.
type Curve struct {
	Infected   []float64
	Cumulative []float64
}

// CurveFromDaily uses the proportion columns of an agent-based summary.
func CurveFromDaily(d *Daily) Curve {
	return Curve{Infected: d.PropMean, Cumulative: d.PropCum}
}

// CurveFromMeanField uses I_o+I_m and R_o+R_m of a mean-field run.
func CurveFromMeanField(res *meanfield.Result) Curve {
	cum := make([]float64, res.Days())
	floats.AddTo(cum, res.RO, res.RM)
	return Curve{Infected: res.Infected(), Cumulative: cum}
}

// Comparison contrasts setting a against baseline b.
type Comparison struct {
	// AdditionalPeak is max infected of a minus max infected of b
	AdditionalPeak float64
	// DaysBetweenPeaks is how many days earlier a peaks than b
	DaysBetweenPeaks int
	// AdditionalCumulative is the extra share ever infected under a
	AdditionalCumulative float64
	// RelativeIncrease is AdditionalCumulative over b's cumulative share, 0
	// when b has none
	RelativeIncrease float64
}

// Compare computes the differences between two curves.
func Compare(a, b Curve) Comparison {
	c := Comparison{
		AdditionalPeak:       MaxValue(a.Infected) - MaxValue(b.Infected),
		DaysBetweenPeaks:     PeakDay(b.Infected) - PeakDay(a.Infected),
		AdditionalCumulative: MaxValue(a.Cumulative) - MaxValue(b.Cumulative),
	}
	if base := MaxValue(b.Cumulative); base != 0 {
		c.RelativeIncrease = c.AdditionalCumulative / base
	}
	return c
}
