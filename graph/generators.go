package graph

// Full returns the complete graph on n vertices.
func Full(n int) *Graph {
	edges := make([]Edge, 0, n*(n-1)/2)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			edges = append(edges, Edge{U: u, V: v})
		}
	}
	g, _ := New(n, edges)
	return g
}

// Ring returns the cycle on n vertices. Rings with fewer than three vertices
// degenerate to a path or a single vertex.
func Ring(n int) *Graph {
	var edges []Edge
	for v := 0; v+1 < n; v++ {
		edges = append(edges, Edge{U: v, V: v + 1})
	}
	if n > 2 {
		edges = append(edges, Edge{U: n - 1, V: 0})
	}
	g, _ := New(n, edges)
	return g
}

// DisjointUnion returns a graph containing a followed by b. The vertices of b
// are shifted by a.VertexCount().
func DisjointUnion(a, b *Graph) *Graph {
	offset := a.VertexCount()
	edges := make([]Edge, 0, a.EdgeCount()+b.EdgeCount())
	edges = append(edges, a.Edges()...)
	for _, e := range b.Edges() {
		edges = append(edges, Edge{U: e.U + offset, V: e.V + offset})
	}
	g, _ := New(offset+b.VertexCount(), edges)
	return g
}

// WithoutEdges returns a copy of g with the given edges removed.
// Edges that are not present are ignored.
func WithoutEdges(g *Graph, remove ...Edge) *Graph {
	drop := make(map[Edge]struct{}, len(remove))
	for _, e := range remove {
		if e.U > e.V {
			e.U, e.V = e.V, e.U
		}
		drop[e] = struct{}{}
	}
	kept := make([]Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if _, ok := drop[e]; !ok {
			kept = append(kept, e)
		}
	}
	out, _ := New(g.VertexCount(), kept)
	out.filename = g.filename
	return out
}
