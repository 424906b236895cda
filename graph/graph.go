// Package graph provides the read-only undirected graph container that
// blockmodels are fitted to.
//
// A Graph is always simple: New drops self-loops and merges parallel edges
// before the adjacency lists are built, so neighbour lists never contain the
// vertex itself and never contain duplicates. Blockmodel bookkeeping relies on
// both properties.
package graph

import (
	"fmt"
	"sort"
)

// Edge is an undirected edge between vertices U and V.
type Edge struct {
	U, V int
}

// Graph is an immutable simple undirected graph on vertices 0..n-1.
type Graph struct {
	adj      [][]int
	edges    []Edge
	filename string

	droppedLoops int
	droppedMulti int
}

// New builds a simple graph with n vertices from the given edge list.
// Self-loops are dropped and parallel edges are merged; Dropped reports how
// many of each were removed.
func New(n int, edges []Edge) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("vertex count must be non-negative, got %d", n)
	}

	g := &Graph{adj: make([][]int, n)}
	seen := make(map[Edge]struct{}, len(edges))
	for i, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("edge %d (%d, %d) out of range for %d vertices", i, e.U, e.V, n)
		}
		if e.U == e.V {
			g.droppedLoops++
			continue
		}
		key := e
		if key.U > key.V {
			key.U, key.V = key.V, key.U
		}
		if _, dup := seen[key]; dup {
			g.droppedMulti++
			continue
		}
		seen[key] = struct{}{}
		g.edges = append(g.edges, key)
		g.adj[key.U] = append(g.adj[key.U], key.V)
		g.adj[key.V] = append(g.adj[key.V], key.U)
	}
	for _, nbrs := range g.adj {
		sort.Ints(nbrs)
	}
	return g, nil
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.adj) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the neighbours of v in ascending order.
// The returned slice is shared with the graph and must not be modified.
func (g *Graph) Neighbors(v int) []int { return g.adj[v] }

// Degree returns the number of neighbours of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// Edges returns the edge list. Each edge appears once with U < V.
// The returned slice is shared with the graph and must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Degrees returns the degree of every vertex.
func (g *Graph) Degrees() []int {
	degrees := make([]int, len(g.adj))
	for v, nbrs := range g.adj {
		degrees[v] = len(nbrs)
	}
	return degrees
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	nbrs := g.adj[u]
	i := sort.SearchInts(nbrs, v)
	return i < len(nbrs) && nbrs[i] == v
}

// Dropped reports how many self-loops and parallel edges New removed.
func (g *Graph) Dropped() (loops, multi int) {
	return g.droppedLoops, g.droppedMulti
}

// Filename returns the file the graph was loaded from, if any.
func (g *Graph) Filename() string { return g.filename }

// SetFilename records the file the graph was loaded from. Model writers
// store it so that the graph can be reloaded alongside a fitted model.
func (g *Graph) SetFilename(name string) { g.filename = name }
