package block

import (
	"hash/fnv"
	"math/rand/v2"
)

// RandomSource is the randomness consumed by models and strategies.
// *rand.Rand from math/rand/v2 satisfies it, and because it also exposes
// Uint64 it can be handed to gonum distributions as a rand.Source.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Uint64 returns a uniform 64-bit value.
	Uint64() uint64
}

// NewRandomSource returns a deterministic RandomSource for the given seed.
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// pcgStream decorrelates the two PCG state words derived from one seed.
const pcgStream = 0x9e3779b97f4a7c15

// === RunKey ===

// RunKey uniquely identifies a reproducible fitting run.
// Two runs with the same RunKey, input graph and configuration
// MUST produce bit-for-bit identical chains.
type RunKey uint64

// === Subsystem Constants ===

const (
	// SubsystemInit is the stream used to randomize initial assignments.
	// Uses the master seed directly so that --seed reproduces the
	// starting partition on its own.
	SubsystemInit = "init"

	// SubsystemChain drives proposals and acceptance draws of the sampler.
	SubsystemChain = "chain"

	// SubsystemGenerate drives graph generation from a fitted model.
	SubsystemGenerate = "generate"

	// SubsystemPredict decides when the predictor takes a sample.
	SubsystemPredict = "predict"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
//
// Derivation formula:
//   - For SubsystemInit: uses the master seed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        RunKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a RunKey.
func NewPartitionedRNG(key RunKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := uint64(p.key)
	if name != SubsystemInit {
		derivedSeed ^= fnv1a64(name)
	}

	rng := NewRandomSource(derivedSeed)
	p.subsystems[name] = rng
	return rng
}

// Key returns the RunKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() RunKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
