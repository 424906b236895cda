package block

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/blockmodel/graph"
)

// Undirected is the plain stochastic blockmodel: every unordered vertex pair
// is an independent Bernoulli trial whose success probability depends only
// on the groups of its endpoints.
//
// A bound Undirected derives its probabilities from the observed edge
// counts. An unbound one (nil graph) carries probabilities supplied through
// SetProbabilities and is used to generate graphs from a fitted model.
type Undirected struct {
	blockmodel

	// probabilities is only consulted while the model is unbound.
	probabilities *mat.SymDense

	// neighbourCounts is scratch space for LogLikelihoodIncrease.
	neighbourCounts []int
}

// NewUndirected creates an undirected blockmodel with numTypes groups and
// all vertices in group 0. g may be nil.
func NewUndirected(g GraphView, numTypes int) (*Undirected, error) {
	b, err := newBlockmodel(g, numTypes)
	if err != nil {
		return nil, err
	}
	m := &Undirected{blockmodel: b}
	if g == nil {
		m.probabilities = mat.NewSymDense(numTypes, nil)
	}
	return m, nil
}

// Kind returns KindUndirected.
func (m *Undirected) Kind() Kind { return KindUndirected }

// SetGraph binds the model to g, or unbinds it when g is nil, and recounts.
func (m *Undirected) SetGraph(g GraphView) {
	m.setGraph(g)
	if g != nil {
		m.probabilities = nil
	} else if m.probabilities == nil {
		m.probabilities = mat.NewSymDense(m.numTypes, nil)
	}
}

// SetNumTypes changes the number of groups and recounts. Supplied
// probabilities of an unbound model are reset to zero.
func (m *Undirected) SetNumTypes(numTypes int) error {
	if err := m.setNumTypes(numTypes); err != nil {
		return err
	}
	if m.g == nil {
		m.probabilities = mat.NewSymDense(numTypes, nil)
	}
	return nil
}

// SetProbabilities supplies the group-pair probabilities of an unbound model.
func (m *Undirected) SetProbabilities(p mat.Matrix) error {
	if m.g != nil {
		return ErrBound
	}
	r, c := p.Dims()
	if r != c || r != m.numTypes {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrDimensionMismatch, r, c, m.numTypes, m.numTypes)
	}
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			v := p.At(i, j)
			if v != p.At(j, i) {
				return fmt.Errorf("%w: p[%d][%d]=%g, p[%d][%d]=%g", ErrNotSymmetric, i, j, v, j, i, p.At(j, i))
			}
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%w: p[%d][%d]=%g", ErrProbabilityRange, i, j, v)
			}
			sym.SetSym(i, j, v)
		}
	}
	m.probabilities = sym
	m.invalidate()
	return nil
}

// Probability returns the edge probability between groups i and j. For a
// bound model this is the observed edge density, or 0 when the group pair
// cannot carry any edge.
func (m *Undirected) Probability(i, j int) float64 {
	if m.g == nil {
		return m.probabilities.At(i, j)
	}
	possible := m.TotalEdgesBetweenGroups(i, j)
	if possible == 0 {
		return 0
	}
	return float64(m.EdgeCount(i, j)) / float64(possible)
}

// Probabilities returns the full symmetric probability matrix.
func (m *Undirected) Probabilities() *mat.SymDense {
	k := m.numTypes
	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, m.Probability(i, j))
		}
	}
	return out
}

// ProbabilitiesFromGroup returns row t of the probability matrix.
func (m *Undirected) ProbabilitiesFromGroup(t int) []float64 {
	out := make([]float64, m.numTypes)
	for j := range out {
		out[j] = m.Probability(t, j)
	}
	return out
}

// LogLikelihood returns sum over group pairs i<=j of N_ij * H(p_ij), where
// N_ij is the number of unordered vertex pairs between the groups. The
// value is cached until the next mutation.
func (m *Undirected) LogLikelihood() float64 {
	return m.cachedLogLikelihood(m.recalculateLogLikelihood)
}

func (m *Undirected) recalculateLogLikelihood() float64 {
	var result float64
	for i := 0; i < m.numTypes; i++ {
		if m.typeCounts[i] == 0 {
			continue
		}
		for j := i + 1; j < m.numTypes; j++ {
			possible := m.TotalEdgesBetweenGroups(i, j)
			if possible == 0 {
				continue
			}
			result += float64(possible) * binaryEntropy(m.Probability(i, j))
		}
		possible := m.TotalEdgesBetweenGroups(i, i)
		if possible == 0 {
			continue
		}
		result += float64(possible) / 2 * binaryEntropy(m.Probability(i, i))
	}
	return result
}

// LogLikelihoodIncrease returns the exact change in LogLikelihood that
// performing mut would cause, in O(degree(v) + numTypes) and without
// touching the model. Only the rows of mut.From and mut.To change: the
// neighbours of the moved vertex are bucketed by group once and the
// affected group pairs are re-evaluated, with the From-To pair counted once.
func (m *Undirected) LogLikelihoodIncrease(mut PointMutation) float64 {
	if mut.From == mut.To {
		return 0
	}
	if m.g == nil {
		return LogLikelihoodIncreaseByRecount(m, mut)
	}

	k := m.numTypes
	from, to := mut.From, mut.To
	if len(m.neighbourCounts) != k {
		m.neighbourCounts = make([]int, k)
	}
	nb := m.neighbourCounts
	clear(nb)
	for _, u := range m.g.Neighbors(mut.Vertex) {
		nb[m.types[u]]++
	}

	cFrom, cTo := m.typeCounts[from], m.typeCounts[to]
	var delta float64
	for t := 0; t < k; t++ {
		if t == from || t == to {
			continue
		}
		ct := m.typeCounts[t]
		eFrom, eTo := m.EdgeCount(from, t), m.EdgeCount(to, t)
		delta += pairTerm(cFrom-1, ct, eFrom-nb[t]) - pairTerm(cFrom, ct, eFrom)
		delta += pairTerm(cTo+1, ct, eTo+nb[t]) - pairTerm(cTo, ct, eTo)
	}

	eFromFrom, eToTo, eFromTo := m.EdgeCount(from, from), m.EdgeCount(to, to), m.EdgeCount(from, to)
	delta += diagonalTerm(cFrom-1, eFromFrom-2*nb[from]) - diagonalTerm(cFrom, eFromFrom)
	delta += diagonalTerm(cTo+1, eToTo+2*nb[to]) - diagonalTerm(cTo, eToTo)
	delta += pairTerm(cFrom-1, cTo+1, eFromTo-nb[to]+nb[from]) - pairTerm(cFrom, cTo, eFromTo)
	return delta
}

// pairTerm is the contribution of an off-diagonal group pair with the given
// group sizes and edge count.
func pairTerm(ci, cj, edges int) float64 {
	possible := possiblePairs(ci, cj)
	if possible == 0 {
		return 0
	}
	return float64(possible) * binaryEntropy(float64(edges)/float64(possible))
}

// diagonalTerm is the contribution of a group with c members whose doubled
// internal edge count is edges.
func diagonalTerm(c, edges int) float64 {
	possible := possiblePairs(c, c-1)
	if possible == 0 {
		return 0
	}
	return float64(possible) / 2 * binaryEntropy(float64(edges)/float64(possible))
}

// NumParameters returns k(k+1)/2, one probability per unordered group pair.
func (m *Undirected) NumParameters() int {
	return m.numTypes * (m.numTypes + 1) / 2
}

// Generate samples a graph from the model: every vertex pair is connected
// independently with the probability of its group pair.
func (m *Undirected) Generate(rng RandomSource) (*graph.Graph, error) {
	n := len(m.types)
	probs := m.Probabilities()
	var edges []graph.Edge
	for u := 0; u < n; u++ {
		tu := m.types[u]
		for v := u + 1; v < n; v++ {
			if rng.Float64() < probs.At(tu, m.types[v]) {
				edges = append(edges, graph.Edge{U: u, V: v})
			}
		}
	}
	return graph.New(n, edges)
}

// Clone returns an independent copy sharing the same graph.
func (m *Undirected) Clone() Model {
	out := &Undirected{}
	out.copyFrom(&m.blockmodel)
	if m.probabilities != nil {
		out.probabilities = mat.NewSymDense(m.numTypes, nil)
		out.probabilities.CopySym(m.probabilities)
	}
	return out
}

// AssignFrom overwrites m with the state of src, which must also be an
// Undirected model.
func (m *Undirected) AssignFrom(src Model) error {
	other, ok := src.(*Undirected)
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrKindMismatch, src.Kind(), m.Kind())
	}
	clone := other.Clone().(*Undirected)
	m.blockmodel = clone.blockmodel
	m.probabilities = clone.probabilities
	return nil
}

// binaryEntropy returns p ln p + (1-p) ln(1-p), defined as exactly 0
// outside the open interval (0, 1).
func binaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return p*math.Log(p) + (1-p)*math.Log(1-p)
}
