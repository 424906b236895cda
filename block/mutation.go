package block

import "fmt"

// PointMutation moves a single vertex from one group to another.
type PointMutation struct {
	Vertex int
	From   int
	To     int
}

// Perform applies the mutation to model.
//
// From must equal the current type of Vertex. A mismatch is a programming
// error and panics; it is never silently corrected.
func (m PointMutation) Perform(model Model) {
	if got := model.Type(m.Vertex); got != m.From {
		panic(fmt.Sprintf("block: mutation %v expects vertex %d in group %d, found %d", m, m.Vertex, m.From, got))
	}
	model.SetType(m.Vertex, m.To)
}

// Undo reverts a previously performed mutation.
func (m PointMutation) Undo(model Model) {
	m.Reversed().Perform(model)
}

// Reverse swaps From and To in place.
func (m *PointMutation) Reverse() {
	m.From, m.To = m.To, m.From
}

// Reversed returns the inverse mutation.
func (m PointMutation) Reversed() PointMutation {
	return PointMutation{Vertex: m.Vertex, From: m.To, To: m.From}
}

func (m PointMutation) String() string {
	return fmt.Sprintf("v%d: %d->%d", m.Vertex, m.From, m.To)
}
