package epidemic

import (
	"math/rand/v2"
)

// Status is the SIR compartment of a node.
type Status uint8

const (
	Susceptible Status = iota
	Infected
	Recovered
)

func (s Status) String() string {
	switch s {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	default:
		return "?"
	}
}

// Unset marks a time or infector that has not happened.
const Unset = -1

// Counts is the compartment census at one point in time.
type Counts struct {
	S, I, R int
}

// Total is S+I+R.
func (c Counts) Total() int {
	return c.S + c.I + c.R
}

// Trial is one independent realisation of the process. It owns all mutable
// per-node state and draws every random number from its own generator.
type Trial struct {
	sim           *Simulation
	rng           *rand.Rand
	status        []Status
	infectionTime []int
	recoveryTime  []int
	infector      []int
	misinfo       []uint8
	order         []int
}

// NewTrial creates a trial drawing from rng, already initialized.
func (s *Simulation) NewTrial(rng *rand.Rand) *Trial {
	n := s.NodeCount()
	t := &Trial{
		sim:           s,
		rng:           rng,
		status:        make([]Status, n),
		infectionTime: make([]int, n),
		recoveryTime:  make([]int, n),
		infector:      make([]int, n),
		misinfo:       make([]uint8, n),
		order:         make([]int, n),
	}
	t.InitializeNodes()
	return t
}

// InitializeNodes puts every node back to susceptible with no history. It can
// be called any number of times to reuse the trial.
func (t *Trial) InitializeNodes() {
	for i := range t.status {
		t.status[i] = Susceptible
		t.infectionTime[i] = Unset
		t.recoveryTime[i] = Unset
		t.infector[i] = Unset
		t.misinfo[i] = t.sim.misinfo[i]
		t.order[i] = i
	}
}

// RandomOutbreak infects OutbreakSize nodes picked uniformly without
// replacement, with infection time 0.
func (t *Trial) RandomOutbreak() {
	t.shuffle()
	for _, i := range t.order[:t.sim.params.OutbreakSize] {
		t.status[i] = Infected
		t.infectionTime[i] = 0
	}
}

func (t *Trial) shuffle() {
	t.rng.Shuffle(len(t.order), func(i, j int) {
		t.order[i], t.order[j] = t.order[j], t.order[i]
	})
}

// Step advances the process by one day.
//
// Nodes are visited in a fresh random order and changes are visible to the
// nodes visited after them. A susceptible node draws once per infected
// neighbor, in topology order, until a draw falls below its beta. An infected
// node recovers when one draw falls below gamma. Recovered nodes never change.
func (t *Trial) Step(day int) {
	t.shuffle()
	for _, i := range t.order {
		switch t.status[i] {
		case Susceptible:
			beta := t.beta(i)
			for _, j := range t.sim.nbrs[i] {
				if t.status[j] != Infected {
					continue
				}
				if t.rng.Float64() < beta {
					t.status[i] = Infected
					t.infectionTime[i] = day
					t.infector[i] = j
					break
				}
			}
		case Infected:
			if t.rng.Float64() < t.sim.gamma {
				t.status[i] = Recovered
				t.recoveryTime[i] = day
			}
		}
	}
}

func (t *Trial) beta(i int) float64 {
	p := t.sim.params
	return p.BetaMin + (p.BetaMax-p.BetaMin)*float64(t.misinfo[i])
}

// Counts returns the current compartment census.
func (t *Trial) Counts() Counts {
	var c Counts
	for _, s := range t.status {
		switch s {
		case Susceptible:
			c.S++
		case Infected:
			c.I++
		case Recovered:
			c.R++
		}
	}
	return c
}

// Status returns the compartment of node i.
func (t *Trial) Status(i int) Status {
	return t.status[i]
}

// InfectionTime returns the day node i was infected, or Unset.
func (t *Trial) InfectionTime(i int) int {
	return t.infectionTime[i]
}

// RecoveryTime returns the day node i recovered, or Unset.
func (t *Trial) RecoveryTime(i int) int {
	return t.recoveryTime[i]
}

// Infector returns the index of the node that infected i, or Unset.
func (t *Trial) Infector(i int) int {
	return t.infector[i]
}

// Rows snapshots the state of every node, tagged with experiment.
func (t *Trial) Rows(experiment int) []Row {
	rows := make([]Row, len(t.status))
	for i := range t.status {
		infector := ""
		if j := t.infector[i]; j != Unset {
			infector = t.sim.ids[j]
		}
		rows[i] = Row{
			NodeID:        t.sim.ids[i],
			Status:        t.status[i],
			InfectionTime: t.infectionTime[i],
			RecoveryTime:  t.recoveryTime[i],
			Infector:      infector,
			Misinfo:       t.misinfo[i],
			Experiment:    experiment,
		}
	}
	return rows
}
