package block

import (
	"math"

	"github.com/inference-sim/blockmodel/block/convergence"
)

// DefaultAcceptanceWindow is the number of recent proposals the acceptance
// ratio is averaged over.
const DefaultAcceptanceWindow = 1000

// MetropolisHastings is a single-site Metropolis-Hastings sampler. Each step
// proposes moving one uniformly chosen vertex to a uniformly chosen group.
// The proposal is symmetric so no correction factor is applied.
type MetropolisHastings struct {
	rngHandle

	state        StrategyState
	steps        int
	lastAccepted bool
	acceptance   *convergence.MovingAverage[int]
}

// NewMetropolisHastings returns a sampler with the default acceptance
// window.
func NewMetropolisHastings() *MetropolisHastings {
	return NewMetropolisHastingsWindow(DefaultAcceptanceWindow)
}

// NewMetropolisHastingsWindow returns a sampler whose acceptance ratio is
// averaged over the last window proposals.
func NewMetropolisHastingsWindow(window int) *MetropolisHastings {
	return &MetropolisHastings{acceptance: convergence.NewMovingAverage[int](window)}
}

// Step proposes one move and accepts it with probability min(1, exp(Δ)).
// The model is only touched when the move is accepted. Step always returns
// true because the chain advances whether or not the proposal is taken,
// except on a model without vertices or groups, where there is nothing to
// propose and Step returns false without advancing.
func (s *MetropolisHastings) Step(m Model) bool {
	if m.VertexCount() == 0 || m.NumTypes() == 0 {
		return false
	}
	rng := s.RNG()
	s.state = StateRunning
	s.steps++

	v := rng.IntN(m.VertexCount())
	mut := PointMutation{Vertex: v, From: m.Type(v), To: rng.IntN(m.NumTypes())}

	delta := m.LogLikelihoodIncrease(mut)
	s.lastAccepted = delta >= 0 || rng.Float64() < math.Exp(delta)
	if s.lastAccepted {
		mut.Perform(m)
		s.acceptance.Push(1)
	} else {
		s.acceptance.Push(0)
	}
	return true
}

// StepCount returns the number of proposals made since the last reset.
func (s *MetropolisHastings) StepCount() int { return s.steps }

// AcceptanceRatio returns the fraction of accepted proposals in the recent
// window.
func (s *MetropolisHastings) AcceptanceRatio() float64 { return s.acceptance.Value() }

// WasLastProposalAccepted reports the outcome of the most recent step.
func (s *MetropolisHastings) WasLastProposalAccepted() bool { return s.lastAccepted }

// State returns the lifecycle state.
func (s *MetropolisHastings) State() StrategyState { return s.state }

// Reset returns the sampler to idle and clears its statistics. The random
// source is kept.
func (s *MetropolisHastings) Reset() {
	s.state = StateIdle
	s.steps = 0
	s.lastAccepted = false
	s.acceptance.Reset()
}
