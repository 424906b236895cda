package block

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Gibbs is an exact single-site Gibbs sampler. Each step picks a vertex
// uniformly and redraws its group from the full conditional distribution.
type Gibbs struct {
	rngHandle

	steps int
	logLs []float64
	cum   []float64
}

// NewGibbs returns a Gibbs sampler.
func NewGibbs() *Gibbs { return &Gibbs{} }

// Step resamples the group of one vertex and returns true. A model without
// vertices is left alone and Step returns false.
func (s *Gibbs) Step(m Model) bool {
	if m.VertexCount() == 0 || m.NumTypes() == 0 {
		return false
	}
	rng := s.RNG()
	s.steps++

	k := m.NumTypes()
	if len(s.logLs) != k {
		s.logLs = make([]float64, k)
		s.cum = make([]float64, k)
	}

	v := rng.IntN(m.VertexCount())
	from := m.Type(v)
	current := m.LogLikelihood()
	for t := range s.logLs {
		s.logLs[t] = current + m.LogLikelihoodIncrease(PointMutation{Vertex: v, From: from, To: t})
	}

	maxLogL := floats.Max(s.logLs)
	for t, l := range s.logLs {
		s.cum[t] = math.Exp(l - maxLogL)
	}
	floats.CumSum(s.cum, s.cum)

	u := rng.Float64() * s.cum[k-1]
	to := sort.Search(k, func(i int) bool { return s.cum[i] > u })
	if to == k {
		to = k - 1
	}
	m.SetType(v, to)
	return true
}

// StepCount returns the number of steps taken.
func (s *Gibbs) StepCount() int { return s.steps }

// WasLastProposalAccepted is always true: every Gibbs draw is accepted.
func (s *Gibbs) WasLastProposalAccepted() bool { return true }

// AcceptanceRatio is always 1.
func (s *Gibbs) AcceptanceRatio() float64 { return 1 }

// Reset clears the step count. The random source is kept.
func (s *Gibbs) Reset() { s.steps = 0 }
