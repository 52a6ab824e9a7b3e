// Package epidemic runs the agent-based stochastic SIR model on a contact graph.
//
// A Simulation holds the immutable contact topology and the misinformation
// snapshot of every node. Each Trial owns its own state arrays and random
// source, so trials can run concurrently against one Simulation.
package epidemic

import (
	"errors"
	"fmt"

	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
)

var (
	ErrOutbreakTooLarge = errors.New("outbreak size exceeds node count")
	ErrInvalidRun       = errors.New("invalid experiment run")
)

// Labels tells which nodes are misinformed. diffusion.LabelSet satisfies it.
type Labels interface {
	Contains(id string) bool
}

// Simulation is the shared, read-only side of the agent-based model.
type Simulation struct {
	params  Params
	gamma   float64
	ids     []string
	nbrs    [][]int
	misinfo []uint8
	pruned  int
	logger  logging.Logger
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for trial summaries.
func WithLogger(l logging.Logger) Option {
	return func(s *Simulation) {
		s.logger = logging.OrNop(l)
	}
}

// NewSimulation prepares g for simulation. Nodes without neighbors are
// dropped since they can neither infect nor be infected. A node is
// misinformed if it is in labels, or, when labels is nil, if its graph
// opinion is 1.
func NewSimulation(g *graph.Graph, labels Labels, p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	contact := g.Subgraph(func(i int) bool { return g.Degree(i) > 0 })
	n := contact.NodeCount()
	if p.OutbreakSize > n {
		return nil, fmt.Errorf("%w: outbreak %d, %d connected nodes", ErrOutbreakTooLarge, p.OutbreakSize, n)
	}

	s := &Simulation{
		params:  p,
		gamma:   p.Gamma(),
		ids:     make([]string, n),
		nbrs:    make([][]int, n),
		misinfo: make([]uint8, n),
		pruned:  g.NodeCount() - n,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := 0; i < n; i++ {
		s.ids[i] = contact.ID(i)
		s.nbrs[i] = contact.Neighbors(i)
		if labels != nil {
			if labels.Contains(s.ids[i]) {
				s.misinfo[i] = 1
			}
		} else {
			s.misinfo[i] = contact.Opinion(i)
		}
	}

	s.logger.Debug("contact network prepared",
		logging.Component("epidemic"),
		logging.Int("nodes", n),
		logging.Int("pruned", s.pruned),
		logging.Int("misinformed", s.MisinformedCount()),
	)
	return s, nil
}

// NodeCount is the number of simulated nodes.
func (s *Simulation) NodeCount() int {
	return len(s.ids)
}

// Pruned is the number of zero-degree nodes removed from the input graph.
func (s *Simulation) Pruned() int {
	return s.pruned
}

// ID returns the id of node i.
func (s *Simulation) ID(i int) string {
	return s.ids[i]
}

// Neighbors returns the contacts of node i in topology order.
func (s *Simulation) Neighbors(i int) []int {
	return s.nbrs[i]
}

// Misinfo returns the misinformation flag of node i.
func (s *Simulation) Misinfo(i int) uint8 {
	return s.misinfo[i]
}

// MisinformedCount is the number of misinformed nodes.
func (s *Simulation) MisinformedCount() int {
	count := 0
	for _, m := range s.misinfo {
		count += int(m)
	}
	return count
}

// Params returns the model parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// Beta is the infection probability of node i.
func (s *Simulation) Beta(i int) float64 {
	return s.params.BetaMin + (s.params.BetaMax-s.params.BetaMin)*float64(s.misinfo[i])
}

// Gamma is the daily recovery probability.
func (s *Simulation) Gamma() float64 {
	return s.gamma
}
