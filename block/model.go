package block

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/blockmodel/graph"
)

// GraphView is the read-only graph a model is fitted to. Neighbour lists
// must not contain the vertex itself or duplicates; graph.Graph guarantees
// both.
type GraphView interface {
	VertexCount() int
	EdgeCount() int
	Neighbors(v int) []int
	Degree(v int) int
	Edges() []graph.Edge
}

// Kind names a blockmodel variant.
type Kind string

const (
	// KindUndirected is the plain Bernoulli blockmodel.
	KindUndirected Kind = "undirected"
	// KindDegreeCorrected is the Poisson degree-corrected blockmodel.
	KindDegreeCorrected Kind = "degree"
)

// ParseKind converts a CLI or config value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindUndirected, KindDegreeCorrected:
		return Kind(s), nil
	case "uncorrected":
		return KindUndirected, nil
	}
	return "", fmt.Errorf("unknown model type %q; valid: undirected, degree", s)
}

// Model is the capability set shared by all blockmodel variants.
//
// A Model is mutated in place and is not safe for concurrent use. Callers
// that need a stable copy while sampling continues should take one with
// Clone or AssignFrom between steps.
type Model interface {
	Kind() Kind

	Graph() GraphView
	SetGraph(g GraphView)

	NumTypes() int
	SetNumTypes(numTypes int) error

	VertexCount() int
	Type(v int) int
	Types() []int
	SetType(v, newType int)
	SetTypes(types []int) error

	TypeCount(t int) int
	TypeCounts() []int
	EdgeCount(i, j int) int
	EdgeCounts() [][]int
	TotalEdgesBetweenGroups(i, j int) int

	LogLikelihood() float64
	LogLikelihoodIncrease(m PointMutation) float64
	NumParameters() int

	Randomize(rng RandomSource)
	Generate(rng RandomSource) (*graph.Graph, error)

	Clone() Model
	AssignFrom(src Model) error

	base() *blockmodel
}

// ProbabilityModel is implemented by models that expose per-group-pair
// edge probabilities.
type ProbabilityModel interface {
	Model
	Probability(i, j int) float64
	Probabilities() *mat.SymDense
	ProbabilitiesFromGroup(t int) []float64
}

// NewModel constructs a model of the given kind. g may be nil to create an
// unbound model.
func NewModel(kind Kind, g GraphView, numTypes int) (Model, error) {
	switch kind {
	case KindUndirected:
		m, err := NewUndirected(g, numTypes)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindDegreeCorrected:
		m, err := NewDegreeCorrected(g, numTypes)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown model kind %q", kind)
}

// AIC returns the Akaike information criterion of a model.
func AIC(m Model) float64 {
	return 2 * (float64(m.NumParameters()) - m.LogLikelihood())
}

// LogLikelihoodIncreaseByRecount computes the change in log-likelihood that
// m would cause by performing it, recomputing the full likelihood, and
// undoing it. It is the reference every optimised implementation must agree
// with.
func LogLikelihoodIncreaseByRecount(model Model, m PointMutation) float64 {
	before := model.LogLikelihood()
	m.Perform(model)
	after := model.LogLikelihood()
	m.Undo(model)
	return after - before
}
