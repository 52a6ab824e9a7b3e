package epidemic

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/infodemic/pkg/graph"
)

// ringGraph builds a ring of n nodes plus chords decoded from codes, with
// every third node misinformed. A ring keeps every node above degree zero.
func ringGraph(n int, codes []int) *graph.Graph {
	b := graph.NewBuilder()
	for i := 0; i < n; i++ {
		var opinion uint8
		if i%3 == 0 {
			opinion = 1
		}
		_, _ = b.AddNode(graph.Node{ID: fmt.Sprintf("p%02d", i), Opinion: opinion})
	}
	for i := 0; i < n; i++ {
		_ = b.AddEdge(fmt.Sprintf("p%02d", i), fmt.Sprintf("p%02d", (i+1)%n), 1)
	}
	for _, code := range codes {
		_ = b.AddEdge(fmt.Sprintf("p%02d", (code/n)%n), fmt.Sprintf("p%02d", code%n), 1)
	}
	return b.Build()
}

// TestSIRProperties checks population conservation and terminal-state
// consistency over random contact networks and parameters.
func TestSIRProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	type scenario struct {
		nodes    int
		chords   []int
		betaMin  float64
		betaMax  float64
		recovery float64
		outbreak int
		seed     uint64
	}

	scenarios := gopter.CombineGens(
		gen.IntRange(3, 40),
		gen.SliceOf(gen.IntRange(0, 1599)),
		gen.Float64Range(0, 0.5),
		gen.Float64Range(0.5, 1),
		gen.Float64Range(1, 10),
		gen.IntRange(0, 3),
		gen.UInt64(),
	).Map(func(v []any) scenario {
		return scenario{
			nodes:    v[0].(int),
			chords:   v[1].([]int),
			betaMin:  v[2].(float64),
			betaMax:  v[3].(float64),
			recovery: v[4].(float64),
			outbreak: v[5].(int),
			seed:     v[6].(uint64),
		}
	})

	run := func(sc scenario) (*Simulation, *TrialResult, bool) {
		sim, err := NewSimulation(ringGraph(sc.nodes, sc.chords), nil,
			testParams(sc.betaMin, sc.betaMax, sc.recovery, sc.outbreak))
		if err != nil {
			return nil, nil, false
		}
		res, err := sim.RunTrial(1, 25, sc.seed)
		return sim, res, err == nil
	}

	// Property 1: S+I+R equals the node count on every day
	properties.Property("population is conserved", prop.ForAll(
		func(sc scenario) bool {
			sim, res, ok := run(sc)
			if !ok {
				return false
			}
			for _, c := range res.Daily {
				if c.Total() != sim.NodeCount() {
					return false
				}
			}
			return true
		},
		scenarios,
	))

	// Property 2: the recorded times agree with every node's final status
	properties.Property("terminal state is consistent", prop.ForAll(
		func(sc scenario) bool {
			sim, res, ok := run(sc)
			if !ok {
				return false
			}
			for _, row := range res.Rows {
				switch row.Status {
				case Susceptible:
					if row.InfectionTime != Unset || row.RecoveryTime != Unset || row.Infector != "" {
						return false
					}
				case Infected:
					if row.InfectionTime < 0 || row.RecoveryTime != Unset {
						return false
					}
				case Recovered:
					if row.InfectionTime < 0 || row.RecoveryTime < row.InfectionTime {
						return false
					}
				default:
					return false
				}
			}
			return len(res.Rows) == sim.NodeCount()
		},
		scenarios,
	))

	// Property 3: infections never decrease from one day to the next
	properties.Property("ever infected is non-decreasing", prop.ForAll(
		func(sc scenario) bool {
			_, res, ok := run(sc)
			if !ok {
				return false
			}
			for d := 1; d < len(res.Daily); d++ {
				prev, cur := res.Daily[d-1], res.Daily[d]
				if cur.I+cur.R < prev.I+prev.R || cur.R < prev.R {
					return false
				}
			}
			return true
		},
		scenarios,
	))

	properties.TestingRun(t)
}
