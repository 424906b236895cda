package block

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/blockmodel/graph"
)

// DegreeCorrected is the Poisson degree-corrected blockmodel. Each vertex v
// has a stickiness θ_v = d_v / κ_t, where κ_t is the total degree of its
// group t, and the expected number of edges between u and v is
// θ_u θ_v ω_{t_u t_v} with ω equal to the edge count matrix.
//
// The maximised log-likelihood is
//
//	Σ_v d_v ln θ_v + Σ_{i<j} e_ij (ln e_ij − 1) + Σ_i (e_ii/2)(ln e_ii − 1)
//
// with e_ii the doubled diagonal count and 0·ln 0 taken as 0.
type DegreeCorrected struct {
	blockmodel
}

// NewDegreeCorrected creates a degree-corrected blockmodel with numTypes
// groups and all vertices in group 0.
func NewDegreeCorrected(g GraphView, numTypes int) (*DegreeCorrected, error) {
	b, err := newBlockmodel(g, numTypes)
	if err != nil {
		return nil, err
	}
	return &DegreeCorrected{blockmodel: b}, nil
}

// Kind returns KindDegreeCorrected.
func (m *DegreeCorrected) Kind() Kind { return KindDegreeCorrected }

// SetGraph binds the model to g and recounts.
func (m *DegreeCorrected) SetGraph(g GraphView) { m.setGraph(g) }

// SetNumTypes changes the number of groups and recounts.
func (m *DegreeCorrected) SetNumTypes(numTypes int) error { return m.setNumTypes(numTypes) }

// groupDegrees returns κ_t, the total degree of each group.
func (m *DegreeCorrected) groupDegrees() []int {
	k := m.numTypes
	kappa := make([]int, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			kappa[i] += m.edgeCounts[i*k+j]
		}
	}
	return kappa
}

// LogLikelihood returns the cached log-likelihood. An unbound model has no
// data and reports 0.
func (m *DegreeCorrected) LogLikelihood() float64 {
	return m.cachedLogLikelihood(m.recalculateLogLikelihood)
}

func (m *DegreeCorrected) recalculateLogLikelihood() float64 {
	if m.g == nil {
		return 0
	}

	kappa := m.groupDegrees()
	var result float64
	for v, t := range m.types {
		d := m.g.Degree(v)
		if d == 0 {
			continue
		}
		result += float64(d) * math.Log(float64(d)/float64(kappa[t]))
	}

	for i := 0; i < m.numTypes; i++ {
		for j := i + 1; j < m.numTypes; j++ {
			if e := float64(m.EdgeCount(i, j)); e > 0 {
				result += e * (math.Log(e) - 1)
			}
		}
		if e := float64(m.EdgeCount(i, i)); e > 0 {
			result += e / 2 * (math.Log(e) - 1)
		}
	}
	return result
}

// LogLikelihoodIncrease evaluates the mutation by performing it,
// recomputing and undoing it.
func (m *DegreeCorrected) LogLikelihoodIncrease(mut PointMutation) float64 {
	if mut.From == mut.To {
		return 0
	}
	return LogLikelihoodIncreaseByRecount(m, mut)
}

// NumParameters counts one rate per unordered group pair plus one
// stickiness per vertex.
func (m *DegreeCorrected) NumParameters() int {
	return m.numTypes*(m.numTypes+1)/2 + len(m.types)
}

// Rate returns ω_ij.
func (m *DegreeCorrected) Rate(i, j int) float64 {
	return float64(m.EdgeCount(i, j))
}

// Rates returns the symmetric rate matrix ω.
func (m *DegreeCorrected) Rates() *mat.SymDense {
	k := m.numTypes
	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, m.Rate(i, j))
		}
	}
	return out
}

// Stickinesses returns θ_v for every vertex. Vertices of a group with zero
// total degree get 0.
func (m *DegreeCorrected) Stickinesses() []float64 {
	out := make([]float64, len(m.types))
	if m.g == nil {
		return out
	}
	kappa := m.groupDegrees()
	for v, t := range m.types {
		if kappa[t] > 0 {
			out[v] = float64(m.g.Degree(v)) / float64(kappa[t])
		}
	}
	return out
}

// Generate samples a simple graph: the pair (u, v) is connected when a
// Poisson draw with mean θ_u θ_v ω_{t_u t_v} is positive.
func (m *DegreeCorrected) Generate(rng RandomSource) (*graph.Graph, error) {
	if m.g == nil {
		return nil, fmt.Errorf("generating from degree-corrected model: %w", ErrNoGraph)
	}
	n := len(m.types)
	theta := m.Stickinesses()
	var edges []graph.Edge
	for u := 0; u < n; u++ {
		tu := m.types[u]
		for v := u + 1; v < n; v++ {
			lambda := theta[u] * theta[v] * m.Rate(tu, m.types[v])
			if lambda <= 0 {
				continue
			}
			draw := distuv.Poisson{Lambda: lambda, Src: rng}
			if draw.Rand() > 0 {
				edges = append(edges, graph.Edge{U: u, V: v})
			}
		}
	}
	return graph.New(n, edges)
}

// Clone returns an independent copy sharing the same graph.
func (m *DegreeCorrected) Clone() Model {
	out := &DegreeCorrected{}
	out.copyFrom(&m.blockmodel)
	return out
}

// AssignFrom overwrites m with the state of src, which must also be a
// DegreeCorrected model.
func (m *DegreeCorrected) AssignFrom(src Model) error {
	other, ok := src.(*DegreeCorrected)
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrKindMismatch, src.Kind(), m.Kind())
	}
	m.copyFrom(&other.blockmodel)
	return nil
}
