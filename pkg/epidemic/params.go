package epidemic

import (
	"github.com/dd0wney/infodemic/pkg/validation"
)

// Default parameter values for the agent-based model.
const (
	DefaultBetaMin      = 0.01
	DefaultBetaMax      = 1.0
	DefaultRecoveryDays = 5
	DefaultOutbreakSize = 10
)

// Params configures the agent-based SIR model.
type Params struct {
	// BetaMin is the infection probability of a node that is not misinformed
	BetaMin float64 `yaml:"beta_min" validate:"gte=0,lte=1"`
	// BetaMax is the infection probability of a misinformed node
	BetaMax float64 `yaml:"beta_max" validate:"gte=0,lte=1"`
	// RecoveryDays is the mean infectious period; the daily recovery
	// probability is its inverse
	RecoveryDays float64 `yaml:"recovery_days" validate:"gt=0"`
	// OutbreakSize is the number of nodes infected on day 0
	OutbreakSize int `yaml:"outbreak_size" validate:"gte=0"`
}

// DefaultParams returns the reference parameters.
func DefaultParams() Params {
	return Params{
		BetaMin:      DefaultBetaMin,
		BetaMax:      DefaultBetaMax,
		RecoveryDays: DefaultRecoveryDays,
		OutbreakSize: DefaultOutbreakSize,
	}
}

// Validate checks the parameter ranges. Every violation is reported.
func (p Params) Validate() error {
	return validation.NewConfigValidator("epidemic").
		Struct(p).
		LessOrEqualFloat("beta_min", p.BetaMin, "beta_max", p.BetaMax).
		Validate()
}

// Gamma is the daily recovery probability.
func (p Params) Gamma() float64 {
	return 1 / p.RecoveryDays
}
