package epidemic

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dd0wney/infodemic/pkg/logging"
)

// Row is the end state of one node in one experiment.
type Row struct {
	NodeID        string
	Status        Status
	InfectionTime int
	RecoveryTime  int
	Infector      string
	Misinfo       uint8
	Experiment    int
}

// TrialResult is the output of one experiment.
type TrialResult struct {
	Experiment int
	Rows       []Row
	// Daily holds the census after the outbreak (index 0) and after every day
	Daily    []Counts
	Duration time.Duration
}

// Final is the census at the end of the trial.
func (r *TrialResult) Final() Counts {
	if len(r.Daily) == 0 {
		return Counts{}
	}
	return r.Daily[len(r.Daily)-1]
}

// AttackRate is the fraction of nodes ever infected.
func (r *TrialResult) AttackRate() float64 {
	c := r.Final()
	if c.Total() == 0 {
		return 0
	}
	return float64(c.I+c.R) / float64(c.Total())
}

// TrialRNG returns the generator for experiment k of a run seeded with seed.
// Each experiment gets its own stream so results do not depend on the order
// experiments are executed in.
func TrialRNG(seed uint64, experiment int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(experiment)))
}

// RunTrial runs experiment k for days days.
func (s *Simulation) RunTrial(experiment, days int, seed uint64) (*TrialResult, error) {
	if experiment < 1 {
		return nil, fmt.Errorf("%w: experiment index %d, want >= 1", ErrInvalidRun, experiment)
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: days %d, want >= 0", ErrInvalidRun, days)
	}

	start := time.Now()
	t := s.NewTrial(TrialRNG(seed, experiment))
	t.RandomOutbreak()

	daily := make([]Counts, 0, days+1)
	daily = append(daily, t.Counts())
	for day := 1; day <= days; day++ {
		t.Step(day)
		c := t.Counts()
		daily = append(daily, c)
		s.logger.Debug("day simulated",
			logging.Experiment(experiment),
			logging.Day(day),
			logging.Int("susceptible", c.S),
			logging.Int("infected", c.I),
			logging.Int("recovered", c.R),
		)
	}

	res := &TrialResult{
		Experiment: experiment,
		Rows:       t.Rows(experiment),
		Daily:      daily,
		Duration:   time.Since(start),
	}
	s.logger.Debug("trial complete",
		logging.Component("epidemic"),
		logging.Experiment(experiment),
		logging.Seed(seed),
		logging.Float64("attack_rate", res.AttackRate()),
		logging.Latency(res.Duration),
	)
	return res, nil
}

// RunExperiments runs experiments 1..n one after the other.
func (s *Simulation) RunExperiments(n, days int, seed uint64) ([]*TrialResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d experiments, want >= 1", ErrInvalidRun, n)
	}
	results := make([]*TrialResult, 0, n)
	for k := 1; k <= n; k++ {
		res, err := s.RunTrial(k, days, seed)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CollectRows concatenates the rows of results in the order given.
func CollectRows(results []*TrialResult) []Row {
	total := 0
	for _, r := range results {
		total += len(r.Rows)
	}
	rows := make([]Row, 0, total)
	for _, r := range results {
		rows = append(rows, r.Rows...)
	}
	return rows
}
