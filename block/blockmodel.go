package block

import (
	"fmt"
	"slices"
)

// blockmodel holds the bookkeeping shared by every variant: the type
// assignment, group sizes and the inter-group edge count matrix.
//
// edgeCounts is numTypes x numTypes, row-major and symmetric. Off the
// diagonal it counts edges between the two groups; on the diagonal it holds
// twice the number of edges inside the group, so that the matrix sums to
// 2|E| and every edge is seen once per endpoint.
type blockmodel struct {
	g          GraphView
	numTypes   int
	types      []int
	typeCounts []int
	edgeCounts []int

	logL      float64
	logLValid bool
}

func newBlockmodel(g GraphView, numTypes int) (blockmodel, error) {
	if numTypes <= 0 {
		return blockmodel{}, fmt.Errorf("%w: got %d", ErrInvalidNumTypes, numTypes)
	}
	b := blockmodel{numTypes: numTypes}
	b.typeCounts = make([]int, numTypes)
	b.edgeCounts = make([]int, numTypes*numTypes)
	b.setGraph(g)
	return b, nil
}

func (b *blockmodel) base() *blockmodel { return b }

// Graph returns the graph the model is bound to, or nil.
func (b *blockmodel) Graph() GraphView { return b.g }

// NumTypes returns the number of groups.
func (b *blockmodel) NumTypes() int { return b.numTypes }

// VertexCount returns the number of vertices with an assigned type.
func (b *blockmodel) VertexCount() int { return len(b.types) }

// Type returns the group of vertex v.
func (b *blockmodel) Type(v int) int { return b.types[v] }

// Types returns a copy of the type assignment.
func (b *blockmodel) Types() []int { return slices.Clone(b.types) }

// TypeCount returns the number of vertices in group t.
func (b *blockmodel) TypeCount(t int) int { return b.typeCounts[t] }

// TypeCounts returns a copy of the group size vector.
func (b *blockmodel) TypeCounts() []int { return slices.Clone(b.typeCounts) }

// EdgeCount returns the number of edges between groups i and j, or twice the
// number of edges inside the group when i == j.
func (b *blockmodel) EdgeCount(i, j int) int { return b.edgeCounts[i*b.numTypes+j] }

// EdgeCounts returns a copy of the edge count matrix.
func (b *blockmodel) EdgeCounts() [][]int {
	out := make([][]int, b.numTypes)
	for i := range out {
		out[i] = slices.Clone(b.edgeCounts[i*b.numTypes : (i+1)*b.numTypes])
	}
	return out
}

// TotalEdgesBetweenGroups returns the number of ordered vertex pairs that
// could carry an edge between groups i and j: c_i*c_j off the diagonal and
// c_i*(c_i-1) on it, matching the doubled diagonal of the edge counts.
func (b *blockmodel) TotalEdgesBetweenGroups(i, j int) int {
	if i == j {
		return possiblePairs(b.typeCounts[i], b.typeCounts[i]-1)
	}
	return possiblePairs(b.typeCounts[i], b.typeCounts[j])
}

func possiblePairs(ci, cj int) int {
	if ci <= 0 || cj <= 0 {
		return 0
	}
	return ci * cj
}

// SetType moves vertex v to newType in O(degree(v) + 1).
// It panics if v or newType is out of range.
func (b *blockmodel) SetType(v, newType int) {
	if newType < 0 || newType >= b.numTypes {
		panic(fmt.Sprintf("block: type %d out of range [0, %d)", newType, b.numTypes))
	}
	oldType := b.types[v]
	if oldType == newType {
		return
	}

	k := b.numTypes
	b.typeCounts[oldType]--
	b.typeCounts[newType]++
	if b.g != nil {
		// Neighbour lists never contain v itself, so when a neighbour shares
		// oldType or newType the row and column updates land on the diagonal
		// twice, which is exactly the doubling convention.
		for _, u := range b.g.Neighbors(v) {
			t := b.types[u]
			b.edgeCounts[oldType*k+t]--
			b.edgeCounts[t*k+oldType]--
			b.edgeCounts[newType*k+t]++
			b.edgeCounts[t*k+newType]++
		}
	}
	b.types[v] = newType
	b.invalidate()
}

// SetTypes replaces the whole assignment and recounts from scratch.
func (b *blockmodel) SetTypes(types []int) error {
	if b.g != nil && len(types) != b.g.VertexCount() {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(types), b.g.VertexCount())
	}
	for v, t := range types {
		if t < 0 || t >= b.numTypes {
			return fmt.Errorf("%w: vertex %d has type %d, want [0, %d)", ErrTypeOutOfRange, v, t, b.numTypes)
		}
	}
	b.types = slices.Clone(types)
	b.recount()
	return nil
}

// Randomize assigns every vertex a uniformly random group.
func (b *blockmodel) Randomize(rng RandomSource) {
	for v := range b.types {
		b.types[v] = rng.IntN(b.numTypes)
	}
	b.recount()
}

func (b *blockmodel) setNumTypes(numTypes int) error {
	if numTypes <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidNumTypes, numTypes)
	}
	b.numTypes = numTypes
	// Vertices in groups that no longer exist fall back to group 0.
	for v, t := range b.types {
		if t >= numTypes {
			b.types[v] = 0
		}
	}
	b.typeCounts = make([]int, numTypes)
	b.edgeCounts = make([]int, numTypes*numTypes)
	b.recount()
	return nil
}

func (b *blockmodel) setGraph(g GraphView) {
	b.g = g
	if g != nil {
		n := g.VertexCount()
		if len(b.types) > n {
			b.types = b.types[:n]
		}
		for len(b.types) < n {
			b.types = append(b.types, 0)
		}
	}
	b.recount()
}

// recount rebuilds typeCounts and edgeCounts from the assignment in O(V+E).
func (b *blockmodel) recount() {
	clear(b.typeCounts)
	for _, t := range b.types {
		b.typeCounts[t]++
	}
	clear(b.edgeCounts)
	if b.g != nil {
		k := b.numTypes
		for _, e := range b.g.Edges() {
			t1, t2 := b.types[e.U], b.types[e.V]
			b.edgeCounts[t1*k+t2]++
			b.edgeCounts[t2*k+t1]++
		}
	}
	b.invalidate()
}

func (b *blockmodel) invalidate() {
	b.logLValid = false
}

// cachedLogLikelihood returns the cached value or recomputes and stores it.
func (b *blockmodel) cachedLogLikelihood(recalculate func() float64) float64 {
	if !b.logLValid {
		b.logL = recalculate()
		b.logLValid = true
	}
	return b.logL
}

func (b *blockmodel) copyFrom(src *blockmodel) {
	b.g = src.g
	b.numTypes = src.numTypes
	b.types = slices.Clone(src.types)
	b.typeCounts = slices.Clone(src.typeCounts)
	b.edgeCounts = slices.Clone(src.edgeCounts)
	b.logL = src.logL
	b.logLValid = src.logLValid
}
