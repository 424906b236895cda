package graph

import (
	"sort"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// FromGonum converts a gonum undirected graph into a Graph. Gonum node IDs
// may be sparse; they are mapped in ascending order onto 0..n-1 and the
// returned slice maps each vertex back to its gonum ID. Edges are listed in
// ascending (U, V) order.
func FromGonum(ug gonumgraph.Undirected) (*Graph, []int64) {
	nodes := gonumgraph.NodesOf(ug.Nodes())
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	var edges []Edge
	var higher []int
	for u, id := range ids {
		higher = higher[:0]
		to := ug.From(id)
		for to.Next() {
			if v := index[to.Node().ID()]; u < v {
				higher = append(higher, v)
			}
		}
		sort.Ints(higher)
		for _, v := range higher {
			edges = append(edges, Edge{U: u, V: v})
		}
	}
	g, _ := New(len(ids), edges)
	return g, ids
}

// Gonum returns g as a gonum simple undirected graph whose node IDs equal
// the vertex indices of g.
func (g *Graph) Gonum() *simple.UndirectedGraph {
	out := simple.NewUndirectedGraph()
	for v := range g.adj {
		out.AddNode(simple.Node(int64(v)))
	}
	for _, e := range g.edges {
		out.SetEdge(simple.Edge{F: simple.Node(int64(e.U)), T: simple.Node(int64(e.V))})
	}
	return out
}
