package block

import (
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Greedy moves every vertex to the group that maximises its local
// contribution to the likelihood, one full sweep per step.
//
// A sweep uses the probabilities and types as they were when it started.
// Vertices are not re-evaluated against the moves made earlier in the same
// sweep, so a sweep can transiently lower the likelihood even though every
// individual choice is optimal under the snapshot.
type Greedy struct {
	steps int
}

// NewGreedy returns a greedy strategy.
func NewGreedy() *Greedy { return &Greedy{} }

// Supports reports whether the strategy can optimise m. Greedy needs group
// edge probabilities.
func (s *Greedy) Supports(m Model) bool {
	_, ok := m.(ProbabilityModel)
	return ok && m.Graph() != nil
}

// StepCount returns the number of sweeps taken.
func (s *Greedy) StepCount() int { return s.steps }

// Step performs one sweep and commits the new assignment if any vertex
// changed group. It returns false at a fixed point. Models that do not
// expose probabilities are left untouched.
func (s *Greedy) Step(m Model) bool {
	pm, ok := m.(ProbabilityModel)
	if !ok || m.Graph() == nil {
		return false
	}
	s.steps++

	k := m.NumTypes()
	g := m.Graph()
	logOdds := logOddsMatrix(pm.Probabilities(), g.VertexCount())

	old := m.Types()
	next := make([]int, len(old))
	counts := mat.NewVecDense(k, nil)
	scores := mat.NewVecDense(k, nil)
	for v := range old {
		counts.Zero()
		for _, u := range g.Neighbors(v) {
			t := old[u]
			counts.SetVec(t, counts.AtVec(t)+1)
		}
		scores.MulVec(logOdds, counts)
		next[v] = argmaxFinite(scores.RawVector().Data)
	}

	if slices.Equal(old, next) {
		logrus.Debugf("greedy: fixed point after %d sweeps", s.steps)
		return false
	}
	if err := m.SetTypes(next); err != nil {
		panic(err)
	}
	return true
}

// logOddsMatrix returns ln p - ln(1-p) elementwise. The infinities at
// p = 0 and p = 1 are clamped to ±MaxFloat64/n: a neighbour count never
// exceeds n-1, so every row of the product with a count vector stays finite
// and a zero count contributes exactly 0 instead of 0·∞ = NaN.
func logOddsMatrix(p *mat.SymDense, n int) *mat.Dense {
	limit := math.MaxFloat64 / float64(max(n, 1))
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		lo := math.Log(v) - math.Log1p(-v)
		return math.Max(-limit, math.Min(limit, lo))
	}, p)
	return &out
}

// argmaxFinite returns the index of the first maximum of xs. NaN scores
// rank below every other value.
func argmaxFinite(xs []float64) int {
	best, bestScore := 0, math.Inf(-1)
	for i, x := range xs {
		if math.IsNaN(x) {
			x = -math.MaxFloat64
		}
		if i == 0 || x > bestScore {
			best, bestScore = i, x
		}
	}
	return best
}
