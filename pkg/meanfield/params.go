package meanfield

import (
	"math"

	"github.com/dd0wney/infodemic/pkg/validation"
)

// Params configures one mean-field run.
type Params struct {
	// FracOrdinary is the share x of the population that is not misinformed
	FracOrdinary float64 `yaml:"frac_ordinary" validate:"gte=0,lte=1"`
	// InitialInfected is the infected share eps on day 0
	InitialInfected float64 `yaml:"initial_infected" validate:"gte=0,lte=1"`
	NumDays         int     `yaml:"num_days" validate:"gte=1"`
	BetaOrdinary    float64 `yaml:"beta_ordinary" validate:"gte=0"`
	RecoveryDays    float64 `yaml:"recovery_days" validate:"gt=0"`
	// BetaMultiplier scales BetaOrdinary into the misinformed transmission rate
	BetaMultiplier float64 `yaml:"beta_multiplier" validate:"gte=0"`
	Homophily      bool    `yaml:"homophily"`
	// Alpha is the share of contacts made within one's own group. Only used
	// with Homophily.
	Alpha float64 `yaml:"alpha"`
	// MixedSeeding splits the initial infections evenly over both groups
	MixedSeeding bool `yaml:"mixed"`
	// Counts runs on head counts instead of fractions; N is then required
	Counts bool    `yaml:"counts"`
	N      float64 `yaml:"n"`
}

// Gamma is the recovery rate.
func (p Params) Gamma() float64 {
	return 1 / p.RecoveryDays
}

// BetaMisinformed is the transmission rate of the misinformed group.
func (p Params) BetaMisinformed() float64 {
	return p.BetaOrdinary * p.BetaMultiplier
}

// scale is the population size the compartments sum to.
func (p Params) scale() float64 {
	if p.Counts {
		return p.N
	}
	return 1
}

// roundAlpha rounds alpha to two decimals, so 0.499999 counts as 0.5.
func roundAlpha(alpha float64) float64 {
	return math.Round(alpha*100) / 100
}

// Validate reports every configuration problem in p.
func (p Params) Validate() error {
	cv := validation.NewConfigValidator("meanfield").Struct(p)
	cv.When(p.Homophily, func(cv *validation.ConfigValidator) {
		cv.RangeFloat("alpha", roundAlpha(p.Alpha), 0.5, 1)
	})
	cv.When(p.Counts, func(cv *validation.ConfigValidator) {
		cv.PositiveFloat("n", p.N)
	})
	if !cv.HasErrors() {
		start := p.Initial()
		cv.NonNegativeFloat("initial.s_o", start.SO).
			NonNegativeFloat("initial.s_m", start.SM).
			NonNegativeFloat("initial.i_o", start.IO).
			NonNegativeFloat("initial.i_m", start.IM)
	}
	return cv.Validate()
}

// Initial is the day 0 state.
//
// Mixed seeding infects eps/2 of each group. Otherwise only one group is
// seeded: the ordinary one when the whole population is ordinary, the
// misinformed one in every other case.
func (p Params) Initial() State {
	x, eps := p.FracOrdinary, p.InitialInfected
	var s State
	switch {
	case p.MixedSeeding:
		s.SO = x - eps/2
		s.SM = 1 - x - eps/2
		s.IO = eps / 2
		s.IM = eps / 2
	case x == 1:
		s.SO = x - eps
		s.IO = eps
	default:
		s.SO = x
		s.SM = 1 - x - eps
		s.IM = eps
	}
	return s.Scale(p.scale())
}
