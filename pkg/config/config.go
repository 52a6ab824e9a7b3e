// Package config loads experiment descriptions from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/epidemic"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/validation"
)

// Experiment is the full description of a simulation campaign.
type Experiment struct {
	Graph     GraphConfig     `yaml:"graph"`
	Diffusion DiffusionConfig `yaml:"diffusion"`
	SIR       SIRConfig       `yaml:"sir"`
	MeanField MeanFieldConfig `yaml:"meanfield"`
	Output    OutputConfig    `yaml:"output"`
}

// GraphConfig locates the input network.
type GraphConfig struct {
	Path             string `yaml:"path"`
	MisinfoAttribute string `yaml:"misinfo_attribute" validate:"required"`
}

// DiffusionConfig lists the Linear Threshold values to sweep.
type DiffusionConfig struct {
	Thresholds []int `yaml:"thresholds" validate:"min=1,dive,gte=0"`
}

// SIRConfig is the agent-based model plus how many trials to run.
type SIRConfig struct {
	epidemic.Params `yaml:",inline"`

	Trials  int    `yaml:"trials" validate:"gte=1"`
	Days    int    `yaml:"days" validate:"gte=1"`
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers" validate:"gte=1"`
}

// MeanFieldConfig is a parameter grid; every combination of the lists is run.
type MeanFieldConfig struct {
	FracOrdinary   []float64 `yaml:"frac_ordinary" validate:"min=1,dive,gte=0,lte=1"`
	BetaOrdinary   []float64 `yaml:"beta_ordinary" validate:"min=1,dive,gte=0"`
	BetaMultiplier []float64 `yaml:"beta_multiplier" validate:"min=1,dive,gte=0"`
	RecoveryDays   []float64 `yaml:"recovery_days" validate:"min=1,dive,gt=0"`
	Alpha          []float64 `yaml:"alpha" validate:"min=1"`
	Homophily      []bool    `yaml:"homophily" validate:"min=1"`
	Mixed          []bool    `yaml:"mixed" validate:"min=1"`

	NumDays         int     `yaml:"num_days" validate:"gte=1"`
	InitialInfected float64 `yaml:"initial_infected" validate:"gte=0,lte=1"`
	Counts          bool    `yaml:"counts"`
	N               float64 `yaml:"n"`
}

// OutputConfig says where results go.
type OutputConfig struct {
	Dir         string `yaml:"dir" validate:"required"`
	LabelsFile  string `yaml:"labels_file"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the reference campaign.
func Default() *Experiment {
	return &Experiment{
		Graph: GraphConfig{
			MisinfoAttribute: graph.AttrMisinfoScore,
		},
		Diffusion: DiffusionConfig{
			Thresholds: append([]int(nil), diffusion.DefaultThresholds...),
		},
		SIR: SIRConfig{
			Params:  epidemic.DefaultParams(),
			Trials:  10,
			Days:    100,
			Seed:    1,
			Workers: 1,
		},
		MeanField: MeanFieldConfig{
			FracOrdinary:    []float64{0.5},
			BetaOrdinary:    []float64{0.3},
			BetaMultiplier:  []float64{3},
			RecoveryDays:    []float64{5},
			Alpha:           []float64{0.5},
			Homophily:       []bool{false},
			Mixed:           []bool{true},
			NumDays:         100,
			InitialInfected: 0.001,
		},
		Output: OutputConfig{
			Dir: "results",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults and validates the result.
// Lists given in the document replace the default lists.
func Parse(data []byte) (*Experiment, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the rules that span fields.
func (e *Experiment) Validate() error {
	cv := validation.NewConfigValidator("config").
		Struct(e).
		LessOrEqualFloat("sir.beta_min", e.SIR.BetaMin, "sir.beta_max", e.SIR.BetaMax)

	mf := e.MeanField
	cv.When(mf.Counts, func(cv *validation.ConfigValidator) {
		cv.PositiveFloat("meanfield.n", mf.N)
	})
	if containsTrue(mf.Homophily) {
		for i, a := range mf.Alpha {
			cv.RangeFloat(fmt.Sprintf("meanfield.alpha[%d]", i), a, 0.5, 1)
		}
	}
	return cv.Validate()
}

func containsTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

// Write saves e as YAML.
func (e *Experiment) Write(path string) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
