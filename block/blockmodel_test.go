package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/blockmodel/graph"
)

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestBlockmodel_MassConservation(t *testing.T) {
	for _, kind := range []Kind{KindUndirected, KindDegreeCorrected} {
		t.Run(string(kind), func(t *testing.T) {
			g := graph.DisjointUnion(graph.Ring(6), graph.Full(4))
			m, err := NewModel(kind, g, 3)
			require.NoError(t, err)
			rng := NewRandomSource(21)
			m.Randomize(rng)

			for i := 0; i < 500; i++ {
				m.SetType(rng.IntN(g.VertexCount()), rng.IntN(3))

				assert.Equal(t, g.VertexCount(), sumInts(m.TypeCounts()))
				total := 0
				for _, row := range m.EdgeCounts() {
					total += sumInts(row)
				}
				require.Equal(t, 2*g.EdgeCount(), total, "step %d", i)
			}
			assert.Equal(t, recounted(t, m).EdgeCounts(), m.EdgeCounts())
			assert.Equal(t, recounted(t, m).TypeCounts(), m.TypeCounts())
		})
	}
}

func TestBlockmodel_EdgeCountsSymmetric(t *testing.T) {
	m := mustUndirected(t, graph.Ring(9), 4)
	m.Randomize(NewRandomSource(4))
	counts := m.EdgeCounts()
	for i := range counts {
		for j := range counts {
			assert.Equal(t, counts[i][j], counts[j][i])
		}
	}
}

func TestBlockmodel_PerformThenUndoRestores(t *testing.T) {
	m := mustUndirected(t, twoCliques(), 3)
	m.Randomize(NewRandomSource(5))
	types, counts, sizes := m.Types(), m.EdgeCounts(), m.TypeCounts()
	logL := m.LogLikelihood()

	mut := PointMutation{Vertex: 2, From: m.Type(2), To: (m.Type(2) + 1) % 3}
	mut.Perform(m)
	assert.NotEqual(t, types, m.Types())
	mut.Undo(m)

	assert.Equal(t, types, m.Types())
	assert.Equal(t, counts, m.EdgeCounts())
	assert.Equal(t, sizes, m.TypeCounts())
	assert.InDelta(t, logL, m.LogLikelihood(), 1e-12)
}

func TestPointMutation_FromMismatchPanics(t *testing.T) {
	m := mustUndirected(t, twoCliques(), 2)
	require.NoError(t, m.SetTypes(cliqueTypes(10, 5)))

	assert.Panics(t, func() {
		PointMutation{Vertex: 0, From: 1, To: 0}.Perform(m)
	})
	assert.Equal(t, 0, m.Type(0))
}

func TestPointMutation_Reverse(t *testing.T) {
	mut := PointMutation{Vertex: 3, From: 1, To: 2}
	assert.Equal(t, PointMutation{Vertex: 3, From: 2, To: 1}, mut.Reversed())
	mut.Reverse()
	assert.Equal(t, 2, mut.From)
	assert.Equal(t, 1, mut.To)
	assert.Equal(t, "v3: 2->1", mut.String())
}

func TestBlockmodel_SetTypeOutOfRangePanics(t *testing.T) {
	m := mustUndirected(t, twoCliques(), 2)
	assert.Panics(t, func() { m.SetType(0, 2) })
	assert.Panics(t, func() { m.SetType(0, -1) })
}

func TestBlockmodel_SetTypesValidation(t *testing.T) {
	m := mustUndirected(t, twoCliques(), 2)
	assert.ErrorIs(t, m.SetTypes([]int{0, 1}), ErrLengthMismatch)

	bad := cliqueTypes(10, 5)
	bad[7] = 2
	assert.ErrorIs(t, m.SetTypes(bad), ErrTypeOutOfRange)
}

func TestBlockmodel_SetNumTypesClampsToGroupZero(t *testing.T) {
	m := mustUndirected(t, graph.Ring(6), 3)
	require.NoError(t, m.SetTypes([]int{0, 1, 2, 0, 1, 2}))

	require.NoError(t, m.SetNumTypes(2))
	assert.Equal(t, []int{0, 1, 0, 0, 1, 0}, m.Types())
	assert.Equal(t, []int{4, 2}, m.TypeCounts())

	assert.ErrorIs(t, m.SetNumTypes(0), ErrInvalidNumTypes)
}

func TestBlockmodel_SetGraphResizesAssignment(t *testing.T) {
	m := mustUndirected(t, nil, 2)
	m.SetGraph(graph.Ring(5))
	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, []int{5, 0}, m.TypeCounts())

	m.SetGraph(graph.Ring(3))
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, [][]int{{6, 0}, {0, 0}}, m.EdgeCounts())
}

func TestBlockmodel_RandomizeIsDeterministic(t *testing.T) {
	a := mustUndirected(t, twoCliques(), 4)
	b := mustUndirected(t, twoCliques(), 4)
	a.Randomize(NewRandomSource(17))
	b.Randomize(NewRandomSource(17))
	assert.Equal(t, a.Types(), b.Types())
}

func TestNewModel(t *testing.T) {
	_, err := NewModel(KindUndirected, twoCliques(), 0)
	assert.ErrorIs(t, err, ErrInvalidNumTypes)

	_, err = NewModel(KindDegreeCorrected, twoCliques(), -1)
	assert.ErrorIs(t, err, ErrInvalidNumTypes)

	_, err = NewModel("directed", twoCliques(), 2)
	assert.Error(t, err)

	m, err := NewModel(KindDegreeCorrected, twoCliques(), 2)
	require.NoError(t, err)
	assert.Equal(t, KindDegreeCorrected, m.Kind())
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"undirected":  KindUndirected,
		"uncorrected": KindUndirected,
		"degree":      KindDegreeCorrected,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("poisson")
	assert.Error(t, err)
}
