package meanfield

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/infodemic/pkg/validation"
)

func baseParams() Params {
	return Params{
		FracOrdinary:    1,
		InitialInfected: 0.001,
		NumDays:         100,
		BetaOrdinary:    0.3,
		RecoveryDays:    5,
		BetaMultiplier:  1,
	}
}

func peakDay(series []float64) int {
	return floats.MaxIdx(series) + 1
}

func TestRun_SinglePopulation(t *testing.T) {
	res, err := Run(baseParams())
	require.NoError(t, err)

	assert.Equal(t, 100, res.Days())
	assert.InDelta(t, 1.5, res.R0.Ordinary, 1e-12)
	assert.InDelta(t, 1.5, res.R0.Weighted, 1e-12)

	// Everything happens in the ordinary group
	for d := 0; d < res.Days(); d++ {
		assert.Zero(t, res.SM[d])
		assert.Zero(t, res.IM[d])
		assert.Zero(t, res.RM[d])
	}

	assert.Equal(t, 60, peakDay(res.IO))
	assert.InDelta(t, 0.06548211000822615, floats.Max(res.IO), 1e-9)
	assert.InDelta(t, 0.5673542985569439, res.RO[99], 1e-9)
}

func TestRun_ReferenceTrajectories(t *testing.T) {
	tests := []struct {
		name      string
		homophily bool
		alpha     float64
		peak      int
		maxInf    float64
		maxRO     float64
		maxRM     float64
	}{
		{"no homophily", false, 0, 31, 0.18955882638456079, 0.35682370222597837, 0.461103802852641},
		{"homophily 0.8", true, 0.8, 27, 0.19054973928653093, 0.33334156530886294, 0.46908352058688135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			p.FracOrdinary = 0.5
			p.BetaMultiplier = 2
			p.Homophily = tt.homophily
			p.Alpha = tt.alpha

			res, err := Run(p)
			require.NoError(t, err)

			assert.Equal(t, tt.peak, peakDay(res.Infected()))
			assert.InDelta(t, tt.maxInf, floats.Max(res.Infected()), 1e-9)
			assert.InDelta(t, tt.maxRO, floats.Max(res.RO), 1e-9)
			assert.InDelta(t, tt.maxRM, floats.Max(res.RM), 1e-9)

			assert.InDelta(t, 1.5, res.R0.Ordinary, 1e-12)
			assert.InDelta(t, 3.0, res.R0.Misinformed, 1e-12)
			assert.InDelta(t, 2.25, res.R0.Weighted, 1e-12)
		})
	}
}

func TestRun_EqualRatesGiveIdenticalGroups(t *testing.T) {
	for _, homophily := range []bool{false, true} {
		p := baseParams()
		p.FracOrdinary = 0.5
		p.MixedSeeding = true
		p.Homophily = homophily
		p.Alpha = 0.7

		res, err := Run(p)
		require.NoError(t, err)
		assert.InDeltaSlice(t, res.SO, res.SM, 1e-15)
		assert.InDeltaSlice(t, res.IO, res.IM, 1e-15)
		assert.InDeltaSlice(t, res.RO, res.RM, 1e-15)
	}
}

func TestParams_Initial(t *testing.T) {
	tests := []struct {
		name   string
		frac   float64
		mixed  bool
		counts bool
		want   State
	}{
		{"mixed", 0.6, true, false, State{SO: 0.59, IO: 0.01, SM: 0.39, IM: 0.01}},
		{"all ordinary", 1, false, false, State{SO: 0.98, IO: 0.02}},
		{"seed misinformed", 0.6, false, false, State{SO: 0.6, SM: 0.38, IM: 0.02}},
		{"counts", 0.6, false, true, State{SO: 600, SM: 380, IM: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{FracOrdinary: tt.frac, InitialInfected: 0.02, MixedSeeding: tt.mixed, Counts: tt.counts, N: 1000}
			got := p.Initial()
			assert.InDeltaSlice(t, tt.want.Values(), got.Values(), 1e-12)
		})
	}
}

func TestRun_CountsModeScalesFractions(t *testing.T) {
	p := baseParams()
	p.FracOrdinary = 0.7
	p.BetaMultiplier = 1.5
	frac, err := Run(p)
	require.NoError(t, err)

	p.Counts = true
	p.N = 10000
	counts, err := Run(p)
	require.NoError(t, err)

	for d := 0; d < frac.Days(); d++ {
		assert.InDelta(t, frac.IO[d]*p.N, counts.IO[d], 1e-6)
		assert.InDelta(t, frac.RM[d]*p.N, counts.RM[d], 1e-6)
		assert.InDelta(t, p.N, counts.Total()[d], 1e-6)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"valid", func(p *Params) {}, ""},
		{"frac above one", func(p *Params) { p.FracOrdinary = 1.2 }, "FracOrdinary"},
		{"no days", func(p *Params) { p.NumDays = 0 }, "NumDays"},
		{"zero recovery", func(p *Params) { p.RecoveryDays = 0 }, "RecoveryDays"},
		{"negative beta", func(p *Params) { p.BetaOrdinary = -1 }, "BetaOrdinary"},
		{"negative multiplier", func(p *Params) { p.BetaMultiplier = -2 }, "BetaMultiplier"},
		{"alpha below range", func(p *Params) { p.Homophily = true; p.Alpha = 0.4 }, "alpha"},
		{"alpha above range", func(p *Params) { p.Homophily = true; p.Alpha = 1.01 }, "alpha"},
		{"alpha rounds into range", func(p *Params) { p.Homophily = true; p.Alpha = 0.499 }, ""},
		{"alpha ignored without homophily", func(p *Params) { p.Alpha = 0.1 }, ""},
		{"counts without n", func(p *Params) { p.Counts = true }, "meanfield.n"},
		{"negative initial compartment", func(p *Params) { p.MixedSeeding = true }, "initial.s_m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, validation.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, runErr := Run(p)
			assert.ErrorIs(t, runErr, validation.ErrInvalidConfig)
		})
	}
}

func TestRun_ConservationViolation(t *testing.T) {
	leaky := func(s State, r Rates) State {
		d := DerivSimple(s, r)
		d.RO *= 0.5
		return d
	}

	_, err := Run(baseParams(), withDeriv(leaky))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConservation)

	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 0, inv.Step)
	assert.Less(t, inv.Total, 0.0)
}

func TestRun_SingleDay(t *testing.T) {
	p := baseParams()
	p.NumDays = 1
	res, err := Run(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.999}, res.SO)
	assert.Equal(t, []float64{0.001}, res.IO)
}

func TestDerivatives(t *testing.T) {
	s := State{SO: 0.4, IO: 0.1, SM: 0.3, IM: 0.2}
	r := Rates{BetaO: 0.5, BetaM: 1, Gamma: 0.25, N: 1}

	d := DerivSimple(s, r)
	assert.InDelta(t, -0.06, d.SO, 1e-12)
	assert.InDelta(t, 0.06-0.025, d.IO, 1e-12)
	assert.InDelta(t, 0.025, d.RO, 1e-12)
	assert.InDelta(t, -0.09, d.SM, 1e-12)
	assert.InDelta(t, 0.09-0.05, d.IM, 1e-12)
	assert.InDelta(t, 0.05, d.RM, 1e-12)

	h := DerivHomophily(s, r, 0.75)
	// ordinary: 2*0.5*0.4*(0.075+0.05); misinformed: 2*1*0.3*(0.025+0.15)
	assert.InDelta(t, -0.05, h.SO, 1e-12)
	assert.InDelta(t, -0.105, h.SM, 1e-12)
	assert.InDelta(t, 0, floats.Sum(h.Values()), 1e-15)

	// alpha 0.5 is no homophily at twice the contact rate
	half := DerivHomophily(s, r, 0.5)
	assert.InDelta(t, d.SO, half.SO, 1e-12)
	assert.InDelta(t, d.SM, half.SM, 1e-12)

	counted := DerivSimple(s.Scale(100), Rates{BetaO: 0.5, BetaM: 1, Gamma: 0.25, N: 100})
	assert.InDelta(t, d.SO*100, counted.SO, 1e-9)
	assert.False(t, math.IsNaN(counted.IM))
}
