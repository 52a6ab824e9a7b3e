package meanfield

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/infodemic/pkg/logging"
)

// ConservationTolerance bounds |sum of flows| per step, per unit of population.
const ConservationTolerance = 1e-8

var ErrConservation = errors.New("compartment flows do not sum to zero")

// InvariantError reports the step at which the population drifted.
type InvariantError struct {
	Step  int
	Total float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("step %d: flows sum to %g: %v", e.Step, e.Total, ErrConservation)
}

func (e *InvariantError) Unwrap() error {
	return ErrConservation
}

// R0 holds the basic reproduction numbers of a run.
type R0 struct {
	Ordinary    float64
	Misinformed float64
	// Weighted averages the two by group size
	Weighted float64
}

// Result is the trajectory of a run. Each series has NumDays entries and
// index 0 is the initial state.
type Result struct {
	Params Params
	SO, IO, RO []float64
	SM, IM, RM []float64
	R0         R0
}

// Days is the length of the series.
func (r *Result) Days() int {
	return len(r.SO)
}

// At returns the state on day t.
func (r *Result) At(t int) State {
	return State{
		SO: r.SO[t], IO: r.IO[t], RO: r.RO[t],
		SM: r.SM[t], IM: r.IM[t], RM: r.RM[t],
	}
}

// Infected is I_o + I_m per day.
func (r *Result) Infected() []float64 {
	out := make([]float64, len(r.IO))
	floats.AddTo(out, r.IO, r.IM)
	return out
}

// Total is the sum of the six compartments per day.
func (r *Result) Total() []float64 {
	out := make([]float64, r.Days())
	for t := range out {
		out[t] = floats.Sum(r.At(t).Values())
	}
	return out
}

type options struct {
	logger logging.Logger
	deriv  func(State, Rates) State
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for the run summary.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = logging.OrNop(l)
	}
}

// withDeriv replaces the flow function; tests use it to break conservation.
func withDeriv(fn func(State, Rates) State) Option {
	return func(o *options) {
		o.deriv = fn
	}
}

// ComputeR0 derives the reproduction numbers of p.
func ComputeR0(p Params) R0 {
	gamma := p.Gamma()
	r := R0{
		Ordinary:    p.BetaOrdinary / gamma,
		Misinformed: p.BetaMisinformed() / gamma,
	}
	x := p.FracOrdinary
	r.Weighted = x*r.Ordinary + (1-x)*r.Misinformed
	return r
}

// Run integrates p for NumDays-1 steps.
//
// A step whose flows do not sum to zero within tolerance aborts the run with
// an *InvariantError.
func Run(p Params, opts ...Option) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: logging.NewNopLogger()}
	if p.Homophily {
		alpha := p.Alpha
		o.deriv = func(s State, r Rates) State { return DerivHomophily(s, r, alpha) }
	} else {
		o.deriv = DerivSimple
	}
	for _, opt := range opts {
		opt(&o)
	}

	rates := Rates{
		BetaO: p.BetaOrdinary,
		BetaM: p.BetaMisinformed(),
		Gamma: p.Gamma(),
		N:     p.scale(),
	}
	tolerance := ConservationTolerance * math.Max(1, rates.N)

	n := p.NumDays
	res := &Result{
		Params: p,
		SO:     make([]float64, n),
		IO:     make([]float64, n),
		RO:     make([]float64, n),
		SM:     make([]float64, n),
		IM:     make([]float64, n),
		RM:     make([]float64, n),
		R0:     ComputeR0(p),
	}

	s := p.Initial()
	res.set(0, s)
	for t := 0; t < n-1; t++ {
		d := o.deriv(s, rates)
		if total := floats.Sum(d.Values()); !(math.Abs(total) <= tolerance) {
			o.logger.Error("conservation violated",
				logging.Component("meanfield"),
				logging.Int("step", t),
				logging.Float64("total", total),
			)
			return nil, &InvariantError{Step: t, Total: total}
		}
		s = s.Add(d)
		res.set(t+1, s)
	}

	o.logger.Debug("mean-field run complete",
		logging.Component("meanfield"),
		logging.Int("days", n),
		logging.Bool("homophily", p.Homophily),
		logging.Bool("counts", p.Counts),
		logging.Float64("r0_weighted", res.R0.Weighted),
	)
	return res, nil
}

func (r *Result) set(t int, s State) {
	r.SO[t], r.IO[t], r.RO[t] = s.SO, s.IO, s.RO
	r.SM[t], r.IM[t], r.RM[t] = s.SM, s.IM, s.RM
}
