package block

// Strategy advances the search over type assignments by one discrete step.
// Step mutates the model in place and reports whether the state changed.
type Strategy interface {
	Step(m Model) bool
	StepCount() int
}

// StrategyState is the lifecycle state of a sampling strategy.
type StrategyState int

const (
	// StateIdle means no step has been taken since the last reset.
	StateIdle StrategyState = iota
	// StateRunning means the chain has advanced at least once.
	StateRunning
)

func (s StrategyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// rngHandle is the random source of a strategy. It is either created by
// the strategy itself on first use (owned) or supplied by the caller through
// SetRNG (borrowed). Either way the strategy only reads from it.
type rngHandle struct {
	rng      RandomSource
	borrowed bool
}

// SetRNG makes the strategy draw from a caller-owned source. Passing nil
// reverts to a strategy-owned source created on next use.
func (h *rngHandle) SetRNG(rng RandomSource) {
	h.rng = rng
	h.borrowed = rng != nil
}

// RNG returns the current random source, creating an owned one seeded with
// zero if none has been supplied.
func (h *rngHandle) RNG() RandomSource {
	if h.rng == nil {
		h.rng = NewRandomSource(0)
		h.borrowed = false
	}
	return h.rng
}

// BorrowsRNG reports whether the random source belongs to the caller.
func (h *rngHandle) BorrowsRNG() bool { return h.borrowed }
