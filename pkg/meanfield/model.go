// Package meanfield integrates the two-group SIR model, ordinary and
// misinformed, with explicit Euler steps of one day.
//
// Compartments are population fractions summing to 1, or head counts summing to
// N in counts mode. Every step checks that the flows between compartments sum
// to zero.
package meanfield

// State is the six compartments at one point in time.
type State struct {
	SO, IO, RO float64 // ordinary
	SM, IM, RM float64 // misinformed
}

// Scale multiplies every compartment by k.
func (s State) Scale(k float64) State {
	return State{
		SO: s.SO * k, IO: s.IO * k, RO: s.RO * k,
		SM: s.SM * k, IM: s.IM * k, RM: s.RM * k,
	}
}

// Add returns s advanced by d.
func (s State) Add(d State) State {
	return State{
		SO: s.SO + d.SO, IO: s.IO + d.IO, RO: s.RO + d.RO,
		SM: s.SM + d.SM, IM: s.IM + d.IM, RM: s.RM + d.RM,
	}
}

// Values lists the compartments in SO, IO, RO, SM, IM, RM order.
func (s State) Values() []float64 {
	return []float64{s.SO, s.IO, s.RO, s.SM, s.IM, s.RM}
}

// Rates are the model coefficients a derivative needs.
type Rates struct {
	BetaO, BetaM float64
	Gamma        float64
	// N divides the infection flows; 1 for fractions
	N float64
}

// DerivSimple is the flow without homophily: both groups are exposed to the
// combined infected pool.
func DerivSimple(s State, r Rates) State {
	pool := s.IO + s.IM
	infO := r.BetaO * s.SO * pool / r.N
	infM := r.BetaM * s.SM * pool / r.N
	return flows(s, infO, infM, r.Gamma)
}

// DerivHomophily is the flow when a share alpha of each group's contacts stay
// inside the group.
func DerivHomophily(s State, r Rates, alpha float64) State {
	infO := 2 * r.BetaO * s.SO * (alpha*s.IO + (1-alpha)*s.IM) / r.N
	infM := 2 * r.BetaM * s.SM * ((1-alpha)*s.IO + alpha*s.IM) / r.N
	return flows(s, infO, infM, r.Gamma)
}

func flows(s State, infO, infM, gamma float64) State {
	return State{
		SO: -infO,
		IO: infO - gamma*s.IO,
		RO: gamma * s.IO,
		SM: -infM,
		IM: infM - gamma*s.IM,
		RM: gamma * s.IM,
	}
}
