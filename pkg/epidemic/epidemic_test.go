package epidemic

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/infodemic/pkg/diffusion"
	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/validation"
)

// pathGraph builds n0 -> n1 -> ... -> n(k-1). Nodes in misinformed get opinion 1.
func pathGraph(t *testing.T, k int, misinformed ...string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for i := 0; i < k; i++ {
		id := fmt.Sprintf("n%d", i)
		n := graph.Node{ID: id}
		if slices.Contains(misinformed, id) {
			n.Opinion = 1
		}
		_, err := b.AddNode(n)
		require.NoError(t, err)
	}
	for i := 0; i+1 < k; i++ {
		require.NoError(t, b.AddEdge(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1), 1))
	}
	return b.Build()
}

func testParams(betaMin, betaMax, recoveryDays float64, outbreak int) Params {
	return Params{BetaMin: betaMin, BetaMax: betaMax, RecoveryDays: recoveryDays, OutbreakSize: outbreak}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{"defaults", DefaultParams(), ""},
		{"equal betas", testParams(0.5, 0.5, 1, 0), ""},
		{"beta min above max", testParams(0.6, 0.5, 5, 1), "beta_min"},
		{"beta max above one", testParams(0.1, 1.5, 5, 1), "BetaMax"},
		{"negative beta", testParams(-0.1, 0.5, 5, 1), "BetaMin"},
		{"zero recovery", testParams(0.1, 0.5, 0, 1), "RecoveryDays"},
		{"negative outbreak", testParams(0.1, 0.5, 5, -1), "OutbreakSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, validation.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParams_Gamma(t *testing.T) {
	assert.InDelta(t, 0.2, DefaultParams().Gamma(), 1e-12)
}

func TestNewSimulation_PrunesZeroDegree(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.AddEdge("a", "b", 1))
	require.NoError(t, b.AddEdge("c", "b", 2))
	_, err := b.AddNode(graph.Node{ID: "lonely"})
	require.NoError(t, err)
	require.NoError(t, b.AddEdge("loop", "loop", 3))

	sim, err := NewSimulation(b.Build(), nil, testParams(0.1, 0.5, 5, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, sim.NodeCount())
	assert.Equal(t, 2, sim.Pruned())
	ids := []string{sim.ID(0), sim.ID(1), sim.ID(2)}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	// Contacts ignore direction
	assert.Equal(t, []int{0, 2}, sim.Neighbors(1))
	assert.Equal(t, []int{1}, sim.Neighbors(2))
}

func TestNewSimulation_Errors(t *testing.T) {
	g := pathGraph(t, 3)

	_, err := NewSimulation(g, nil, testParams(0.1, 0.5, 5, 4))
	assert.ErrorIs(t, err, ErrOutbreakTooLarge)

	_, err = NewSimulation(g, nil, testParams(0.1, 0.5, -1, 1))
	assert.ErrorIs(t, err, validation.ErrInvalidConfig)
}

func TestSimulation_Beta(t *testing.T) {
	g := pathGraph(t, 3, "n2")
	p := testParams(0.1, 0.9, 5, 1)

	t.Run("from labels", func(t *testing.T) {
		sim, err := NewSimulation(g, diffusion.NewLabelSet([]string{"n0"}), p)
		require.NoError(t, err)
		assert.InDelta(t, 0.9, sim.Beta(0), 1e-12)
		assert.InDelta(t, 0.1, sim.Beta(1), 1e-12)
		assert.InDelta(t, 0.1, sim.Beta(2), 1e-12)
		assert.Equal(t, 1, sim.MisinformedCount())
	})

	t.Run("from opinion", func(t *testing.T) {
		sim, err := NewSimulation(g, nil, p)
		require.NoError(t, err)
		assert.InDelta(t, 0.1, sim.Beta(0), 1e-12)
		assert.InDelta(t, 0.9, sim.Beta(2), 1e-12)
		assert.Equal(t, uint8(1), sim.Misinfo(2))
	})
}

func TestTrial_InitializeAndOutbreak(t *testing.T) {
	sim, err := NewSimulation(pathGraph(t, 10, "n3"), nil, testParams(0.5, 0.5, 2, 4))
	require.NoError(t, err)

	trial := sim.NewTrial(TrialRNG(7, 1))
	assert.Equal(t, Counts{S: 10}, trial.Counts())

	trial.RandomOutbreak()
	assert.Equal(t, Counts{S: 6, I: 4}, trial.Counts())
	for i := 0; i < sim.NodeCount(); i++ {
		if trial.Status(i) == Infected {
			assert.Equal(t, 0, trial.InfectionTime(i))
			assert.Equal(t, Unset, trial.Infector(i))
		}
	}

	for day := 1; day <= 5; day++ {
		trial.Step(day)
	}
	trial.InitializeNodes()
	assert.Equal(t, Counts{S: 10}, trial.Counts())
	for i := 0; i < sim.NodeCount(); i++ {
		assert.Equal(t, Unset, trial.InfectionTime(i))
		assert.Equal(t, Unset, trial.RecoveryTime(i))
		assert.Equal(t, Unset, trial.Infector(i))
	}
	rows := trial.Rows(1)
	assert.Equal(t, uint8(1), rows[3].Misinfo)
}

func TestTrial_NoTransmission(t *testing.T) {
	// Nobody can be infected and every infected node recovers on day 1
	sim, err := NewSimulation(pathGraph(t, 5), nil, testParams(0, 0, 1, 2))
	require.NoError(t, err)

	trial := sim.NewTrial(TrialRNG(1, 1))
	trial.RandomOutbreak()
	trial.Step(1)

	assert.Equal(t, Counts{S: 3, R: 2}, trial.Counts())
	for _, row := range trial.Rows(1) {
		if row.Status == Recovered {
			assert.Equal(t, 0, row.InfectionTime)
			assert.Equal(t, 1, row.RecoveryTime)
		} else {
			assert.Equal(t, Unset, row.InfectionTime)
		}
	}
}

func TestTrial_CertainTransmissionSpreads(t *testing.T) {
	// With beta 1 every susceptible node touching an infected one is infected on
	// its visit, so the whole path is infected within k-1 days
	const k = 6
	sim, err := NewSimulation(pathGraph(t, k), nil, testParams(1, 1, 1e12, 1))
	require.NoError(t, err)

	trial := sim.NewTrial(TrialRNG(42, 1))
	trial.RandomOutbreak()
	for day := 1; day < k; day++ {
		trial.Step(day)
	}

	assert.Equal(t, Counts{I: k}, trial.Counts())
	for i := 0; i < k; i++ {
		j := trial.Infector(i)
		if trial.InfectionTime(i) == 0 {
			assert.Equal(t, Unset, j)
			continue
		}
		require.NotEqual(t, Unset, j)
		assert.Contains(t, sim.Neighbors(i), j)
		assert.LessOrEqual(t, trial.InfectionTime(j), trial.InfectionTime(i))
	}
}

func TestRunExperiments(t *testing.T) {
	sim, err := NewSimulation(pathGraph(t, 20, "n1", "n5"), nil, testParams(0.2, 0.8, 3, 2))
	require.NoError(t, err)

	results, err := sim.RunExperiments(4, 30, 99)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for k, res := range results {
		assert.Equal(t, k+1, res.Experiment)
		assert.Len(t, res.Daily, 31)
		assert.Len(t, res.Rows, 20)
		for _, c := range res.Daily {
			assert.Equal(t, 20, c.Total())
		}
		for _, row := range res.Rows {
			assert.Equal(t, k+1, row.Experiment)
		}
	}

	rows := CollectRows(results)
	assert.Len(t, rows, 80)
	assert.Equal(t, 1, rows[0].Experiment)
	assert.Equal(t, 4, rows[79].Experiment)
}

func TestRunExperiments_Reproducible(t *testing.T) {
	sim, err := NewSimulation(pathGraph(t, 30, "n2", "n7", "n20"), nil, testParams(0.3, 0.9, 4, 3))
	require.NoError(t, err)

	first, err := sim.RunExperiments(3, 40, 12345)
	require.NoError(t, err)
	second, err := sim.RunExperiments(3, 40, 12345)
	require.NoError(t, err)

	for k := range first {
		assert.Equal(t, first[k].Rows, second[k].Rows)
		assert.Equal(t, first[k].Daily, second[k].Daily)
	}

	// A single experiment run on its own matches the same experiment in a batch
	third, err := sim.RunTrial(3, 40, 12345)
	require.NoError(t, err)
	assert.Equal(t, first[2].Rows, third.Rows)
	assert.Equal(t, first[2].Daily, third.Daily)
}

func TestRunTrial_Errors(t *testing.T) {
	sim, err := NewSimulation(pathGraph(t, 3), nil, testParams(0.1, 0.5, 5, 1))
	require.NoError(t, err)

	_, err = sim.RunTrial(0, 10, 1)
	assert.True(t, errors.Is(err, ErrInvalidRun))

	_, err = sim.RunTrial(1, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRun)

	_, err = sim.RunExperiments(0, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidRun)

	res, err := sim.RunTrial(1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []Counts{{S: 2, I: 1}}, res.Daily)
}

func TestTrialResult_AttackRate(t *testing.T) {
	res := &TrialResult{Daily: []Counts{{S: 9, I: 1}, {S: 6, I: 2, R: 2}}}
	assert.Equal(t, Counts{S: 6, I: 2, R: 2}, res.Final())
	assert.InDelta(t, 0.4, res.AttackRate(), 1e-12)

	empty := &TrialResult{}
	assert.Zero(t, empty.AttackRate())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "S", Susceptible.String())
	assert.Equal(t, "I", Infected.String())
	assert.Equal(t, "R", Recovered.String())
	assert.Equal(t, "?", Status(9).String())
}
