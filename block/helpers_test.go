package block

import (
	"testing"

	"github.com/inference-sim/blockmodel/graph"
)

// twoCliques is K5 + K5 with vertices 0-4 and 5-9.
func twoCliques() *graph.Graph {
	return graph.DisjointUnion(graph.Full(5), graph.Full(5))
}

// cliqueTypes labels vertex i with i/size.
func cliqueTypes(n, size int) []int {
	types := make([]int, n)
	for i := range types {
		types[i] = i / size
	}
	return types
}

func mustUndirected(t *testing.T, g GraphView, k int) *Undirected {
	t.Helper()
	m, err := NewUndirected(g, k)
	if err != nil {
		t.Fatalf("NewUndirected: %v", err)
	}
	return m
}

func mustDegreeCorrected(t *testing.T, g GraphView, k int) *DegreeCorrected {
	t.Helper()
	m, err := NewDegreeCorrected(g, k)
	if err != nil {
		t.Fatalf("NewDegreeCorrected: %v", err)
	}
	return m
}

// recounted returns a fresh model of the same kind with m's assignment,
// so its counts and likelihood are computed from scratch.
func recounted(t *testing.T, m Model) Model {
	t.Helper()
	fresh, err := NewModel(m.Kind(), m.Graph(), m.NumTypes())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := fresh.SetTypes(m.Types()); err != nil {
		t.Fatalf("SetTypes: %v", err)
	}
	return fresh
}

// runGreedy steps until a fixed point, failing after limit sweeps.
func runGreedy(t *testing.T, s *Greedy, m Model, limit int) {
	t.Helper()
	for i := 0; s.Step(m); i++ {
		if i >= limit {
			t.Fatalf("greedy did not reach a fixed point in %d sweeps", limit)
		}
	}
}
