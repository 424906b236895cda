package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/blockmodel/graph"
)

// fivePlusThree is K5 + K3.
func fivePlusThree() *graph.Graph {
	return graph.DisjointUnion(graph.Full(5), graph.Full(3))
}

func TestDegreeCorrected_LogLikelihood(t *testing.T) {
	m := mustDegreeCorrected(t, fivePlusThree(), 2)

	// Groups match the cliques.
	for v := 0; v < 8; v++ {
		m.SetType(v, v/5)
	}
	assert.InDelta(t, -16.4478, m.LogLikelihood(), 1e-3)

	// No edge between vertices of group 1.
	for v := 0; v < 8; v++ {
		if v == 3 {
			m.SetType(v, 1)
		} else {
			m.SetType(v, 0)
		}
	}
	assert.InDelta(t, -23.1048, m.LogLikelihood(), 1e-3)

	// Group 1 is empty.
	for v := 0; v < 8; v++ {
		m.SetType(v, 0)
	}
	assert.InDelta(t, -23.4705, m.LogLikelihood(), 1e-3)
}

func TestDegreeCorrected_LogLikelihoodIncrease(t *testing.T) {
	// GIVEN four groups of two vertices each
	m := mustDegreeCorrected(t, fivePlusThree(), 4)
	for v := 0; v < 8; v++ {
		m.SetType(v, v/2)
	}
	rng := NewRandomSource(11)

	// WHEN random non-trivial mutations are predicted and then performed
	for i := 0; i < 10000; i++ {
		v := rng.IntN(8)
		mut := PointMutation{Vertex: v, From: m.Type(v), To: rng.IntN(4)}
		for mut.To == mut.From {
			mut.To = rng.IntN(4)
		}
		diff := m.LogLikelihoodIncrease(mut)
		predicted := m.LogLikelihood() + diff
		mut.Perform(m)

		// THEN the prediction matches the new likelihood
		require.InDelta(t, predicted, m.LogLikelihood(), 1e-3, "step %d, %v", i, mut)
	}
}

func TestDegreeCorrected_Parameters(t *testing.T) {
	m := mustDegreeCorrected(t, fivePlusThree(), 2)
	require.NoError(t, m.SetTypes(cliqueTypes(8, 5)))

	assert.Equal(t, 2*3/2+8, m.NumParameters())
	assert.Equal(t, 20.0, m.Rate(0, 0))
	assert.Equal(t, 6.0, m.Rate(1, 1))
	assert.Equal(t, 0.0, m.Rate(0, 1))
	assert.Equal(t, 6.0, m.Rates().At(1, 1))

	theta := m.Stickinesses()
	require.Len(t, theta, 8)
	assert.InDelta(t, 4.0/20, theta[0], 1e-12)
	assert.InDelta(t, 2.0/6, theta[7], 1e-12)
}

func TestDegreeCorrected_IsolatedVerticesHaveZeroStickiness(t *testing.T) {
	g, err := graph.New(4, []graph.Edge{{U: 0, V: 1}})
	require.NoError(t, err)
	m := mustDegreeCorrected(t, g, 2)
	require.NoError(t, m.SetTypes([]int{0, 0, 1, 1}))

	assert.Equal(t, []float64{0.5, 0.5, 0, 0}, m.Stickinesses())
	// 2·ln(1/2) from the stickinesses plus (2/2)(ln 2 − 1) from the diagonal.
	assert.InDelta(t, -1.6931471805599454, m.LogLikelihood(), 1e-9)
}

func TestDegreeCorrected_Generate(t *testing.T) {
	t.Run("unbound model fails", func(t *testing.T) {
		m := mustDegreeCorrected(t, nil, 2)
		_, err := m.Generate(NewRandomSource(1))
		assert.ErrorIs(t, err, ErrNoGraph)
	})

	t.Run("no edges across groups", func(t *testing.T) {
		m := mustDegreeCorrected(t, fivePlusThree(), 2)
		require.NoError(t, m.SetTypes(cliqueTypes(8, 5)))

		g, err := m.Generate(NewRandomSource(5))
		require.NoError(t, err)
		assert.Equal(t, 8, g.VertexCount())
		for _, e := range g.Edges() {
			assert.Equal(t, e.U/5, e.V/5, "edge %v crosses groups", e)
		}
	})

	t.Run("same seed same graph", func(t *testing.T) {
		m := mustDegreeCorrected(t, fivePlusThree(), 2)
		require.NoError(t, m.SetTypes(cliqueTypes(8, 5)))

		a, err := m.Generate(NewRandomSource(8))
		require.NoError(t, err)
		b, err := m.Generate(NewRandomSource(8))
		require.NoError(t, err)
		assert.Equal(t, a.Edges(), b.Edges())
	})
}

func TestDegreeCorrected_UnboundLogLikelihoodIsZero(t *testing.T) {
	m := mustDegreeCorrected(t, nil, 3)
	assert.Equal(t, 0.0, m.LogLikelihood())
}

func TestDegreeCorrected_CloneAndAssign(t *testing.T) {
	m := mustDegreeCorrected(t, fivePlusThree(), 2)
	require.NoError(t, m.SetTypes(cliqueTypes(8, 5)))

	// GIVEN a clone moved to "vertex 3 alone in group 1"
	clone := m.Clone()
	for v := 0; v < 8; v++ {
		if v == 3 {
			clone.SetType(v, 1)
		} else {
			clone.SetType(v, 0)
		}
	}
	assert.Equal(t, 0, m.Type(3))
	assert.Equal(t, 1, m.Type(5), "the original keeps its assignment")

	// WHEN it is assigned back
	require.NoError(t, m.AssignFrom(clone))

	// THEN the original carries the clone's state and likelihood
	assert.Equal(t, clone.Types(), m.Types())
	assert.InDelta(t, -23.1048, m.LogLikelihood(), 1e-3)
	assert.InDelta(t, recounted(t, clone).LogLikelihood(), m.LogLikelihood(), 1e-9)

	u := mustUndirected(t, fivePlusThree(), 2)
	assert.ErrorIs(t, m.AssignFrom(u), ErrKindMismatch)
}
