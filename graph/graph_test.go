package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"
)

func TestNew_SimplifiesLoopsAndMultiEdges(t *testing.T) {
	// GIVEN an edge list with a self-loop and a duplicated edge in both orientations
	g, err := New(3, []Edge{{0, 1}, {1, 0}, {1, 1}, {1, 2}})
	require.NoError(t, err)

	// THEN the graph is simple
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	loops, multi := g.Dropped()
	assert.Equal(t, 1, loops)
	assert.Equal(t, 1, multi)
	for v := 0; v < g.VertexCount(); v++ {
		assert.NotContains(t, g.Neighbors(v), v)
	}
}

func TestNew_OutOfRangeEdge_ReturnsError(t *testing.T) {
	_, err := New(2, []Edge{{0, 2}})
	assert.Error(t, err)

	_, err = New(-1, nil)
	assert.Error(t, err)
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		name     string
		g        *Graph
		vertices int
		edges    int
	}{
		{"full 5", Full(5), 5, 10},
		{"ring 5", Ring(5), 5, 5},
		{"ring 2", Ring(2), 2, 1},
		{"two cliques", DisjointUnion(Full(5), Full(5)), 10, 20},
		{"two rings", DisjointUnion(Ring(5), Ring(5)), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.g.VertexCount())
			assert.Equal(t, tt.edges, tt.g.EdgeCount())
			sum := 0
			for _, d := range tt.g.Degrees() {
				sum += d
			}
			assert.Equal(t, 2*tt.edges, sum)
		})
	}
}

func TestDisjointUnion_ShiftsSecondGraph(t *testing.T) {
	g := DisjointUnion(Full(3), Full(2))
	assert.True(t, g.HasEdge(3, 4))
	assert.False(t, g.HasEdge(2, 3))
}

func TestWithoutEdges(t *testing.T) {
	g := WithoutEdges(Full(4), Edge{1, 0}, Edge{2, 3})
	assert.Equal(t, 4, g.EdgeCount())
	assert.False(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(3, 2))
	assert.True(t, g.HasEdge(0, 2))
}

func TestEdgelist_RoundTrip(t *testing.T) {
	input := "# comment\n0 1\n1 2\n\n2 0\n2 2\n"
	g, err := ReadEdgelist(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.EdgeCount())

	var buf bytes.Buffer
	require.NoError(t, WriteEdgelist(&buf, g))
	assert.Equal(t, "0 1\n0 2\n1 2\n", buf.String())
}

func TestReadEdgelist_SimplifiesInput(t *testing.T) {
	// GIVEN an edge list with a self-loop, a repeated edge and a reversed repeat
	input := "0 1\n1 0\n0 1\n3 3\n1 3\n"

	// WHEN it is read
	g, err := ReadEdgelist(strings.NewReader(input))
	require.NoError(t, err)

	// THEN the graph is simple, vertex 2 exists without edges, and the drops are counted
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, []Edge{{0, 1}, {1, 3}}, g.Edges())
	assert.Equal(t, 0, g.Degree(2))
	assert.Equal(t, []int{0, 3}, g.Neighbors(1))
	loops, multi := g.Dropped()
	assert.Equal(t, 1, loops)
	assert.Equal(t, 2, multi)
}

func TestReadEdgelist_Empty(t *testing.T) {
	g, err := ReadEdgelist(strings.NewReader("# nothing\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.VertexCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestReadEdgelist_Malformed(t *testing.T) {
	for _, input := range []string{"0\n", "a b\n", "0 -1\n"} {
		_, err := ReadEdgelist(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestGonum_RoundTrip(t *testing.T) {
	// GIVEN a gonum graph with sparse node IDs
	ug := simple.NewUndirectedGraph()
	for _, id := range []int64{10, 20, 30} {
		ug.AddNode(simple.Node(id))
	}
	ug.SetEdge(simple.Edge{F: simple.Node(10), T: simple.Node(30)})

	// WHEN converted
	g, ids := FromGonum(ug)

	// THEN IDs are compacted in ascending order
	assert.Equal(t, []int64{10, 20, 30}, ids)
	assert.True(t, g.HasEdge(0, 2))
	assert.Equal(t, 1, g.EdgeCount())

	back := g.Gonum()
	assert.Equal(t, 3, back.Nodes().Len())
	assert.True(t, back.HasEdgeBetween(0, 2))
}
