package fit

import (
	"fmt"

	"github.com/inference-sim/blockmodel/block"
	"github.com/inference-sim/blockmodel/block/convergence"
)

// InitMethod selects how the chain's starting assignment is produced.
type InitMethod string

const (
	InitRandom InitMethod = "random"
	InitGreedy InitMethod = "greedy"
)

// Sampler names the MCMC strategy that drives the chain.
type Sampler string

const (
	SamplerMetropolis Sampler = "metropolis"
	SamplerGibbs      Sampler = "gibbs"
)

// Config holds the fitting parameters.
type Config struct {
	Kind block.Kind
	// Groups is the number of groups to fit. Zero or less scans 1..⌊√V⌋
	// and keeps the group count with the lowest AIC.
	Groups int
	// Samples is the number of steps taken after convergence. Zero or less
	// keeps the chain running until the context is cancelled.
	Samples int
	// BlockSize is the number of steps between convergence checks.
	BlockSize int
	// LogPeriod is the number of steps between progress lines.
	LogPeriod   int
	Init        InitMethod
	Sampler     Sampler
	Convergence string
	Seed        uint64
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Kind:        block.KindUndirected,
		Groups:      -1,
		Samples:     100000,
		BlockSize:   65536,
		LogPeriod:   8192,
		Init:        InitGreedy,
		Sampler:     SamplerMetropolis,
		Convergence: "mean",
		Seed:        42,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := block.ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.LogPeriod < 0 {
		return fmt.Errorf("log period must be non-negative, got %d", c.LogPeriod)
	}
	switch c.Init {
	case InitRandom, InitGreedy:
	default:
		return fmt.Errorf("unknown init method %q; valid: random, greedy", c.Init)
	}
	switch c.Sampler {
	case SamplerMetropolis, SamplerGibbs:
	default:
		return fmt.Errorf("unknown sampler %q; valid: metropolis, gibbs", c.Sampler)
	}
	if _, err := convergence.New(c.Convergence); err != nil {
		return err
	}
	return nil
}
