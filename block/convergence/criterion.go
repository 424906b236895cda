// Package convergence decides when a Markov chain has finished burning in.
//
// A Criterion consumes consecutive blocks of sampled log-likelihoods and
// reports convergence once a summary of the blocks stops moving. Criteria
// know nothing about graphs or models and can be swapped freely.
package convergence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Criterion is a streaming convergence test over blocks of samples.
type Criterion interface {
	// Check consumes the next block and reports whether the chain has
	// converged.
	Check(samples []float64) bool
	// Report describes the last check for logging. It may be empty.
	Report() string
}

// New returns the named criterion with default settings. Valid names are
// "mean" and "mann-whitney".
func New(name string) (Criterion, error) {
	switch name {
	case "", "mean":
		return NewMeanCriterion(), nil
	case "mann-whitney", "mw":
		return NewMannWhitneyCriterion(), nil
	}
	return nil, fmt.Errorf("unknown convergence criterion %q; valid: mean, mann-whitney", name)
}

// DefaultRelativeThreshold is the relative change of the smoothed block
// mean below which MeanCriterion reports convergence.
const DefaultRelativeThreshold = 1e-3

// MeanCriterion tracks an exponential moving average of block means and
// converges once it changes by less than Threshold relative to its previous
// value (absolute when that value is below 1 in magnitude).
type MeanCriterion struct {
	Threshold float64
	// Smoothing is the weight of the newest block mean, in (0, 1].
	Smoothing float64

	smoothed float64
	blocks   int
	change   float64
	// sd is the standard deviation of the latest block.
	sd float64
}

// NewMeanCriterion returns a MeanCriterion with the default threshold and a
// smoothing weight of 0.5.
func NewMeanCriterion() *MeanCriterion {
	return &MeanCriterion{Threshold: DefaultRelativeThreshold, Smoothing: 0.5}
}

// Check folds the block mean into the average. The first block never
// converges since there is nothing to compare against.
func (c *MeanCriterion) Check(samples []float64) bool {
	if len(samples) == 0 {
		return false
	}
	mean, variance := stat.MeanVariance(samples, nil)
	c.sd = 0
	if len(samples) > 1 {
		c.sd = math.Sqrt(variance)
	}
	c.blocks++
	if c.blocks == 1 {
		c.smoothed = mean
		c.change = math.Inf(1)
		return false
	}

	prev := c.smoothed
	c.smoothed = c.Smoothing*mean + (1-c.Smoothing)*prev
	// Relative to the previous value, but never to one smaller than 1, so an
	// average settling on 0 still converges.
	c.change = math.Abs(c.smoothed-prev) / math.Max(math.Abs(prev), 1)
	return c.change < c.Threshold
}

// Report prints the smoothed mean, its last relative change and the spread
// of the latest block.
func (c *MeanCriterion) Report() string {
	if c.blocks == 0 {
		return ""
	}
	return fmt.Sprintf("block %d: smoothed mean logL %.4f (block sd %.4f), relative change %.3g",
		c.blocks, c.smoothed, c.sd, c.change)
}

// DefaultAlpha is the significance level of MannWhitneyCriterion.
const DefaultAlpha = 0.05

// MannWhitneyCriterion compares each block with the previous one using a
// two-sided Mann-Whitney U test and converges once the test can no longer
// tell them apart at level Alpha.
type MannWhitneyCriterion struct {
	Alpha float64

	prev []float64
	last MannWhitneyTest
	ran  bool
}

// NewMannWhitneyCriterion returns a criterion with level DefaultAlpha.
func NewMannWhitneyCriterion() *MannWhitneyCriterion {
	return &MannWhitneyCriterion{Alpha: DefaultAlpha}
}

// Check tests the block against the previous one. Blocks whose values are
// all tied yield an undefined p-value; equal constant blocks are treated as
// converged.
func (c *MannWhitneyCriterion) Check(samples []float64) bool {
	if len(samples) == 0 {
		return false
	}
	prev := c.prev
	c.prev = append(c.prev[:0:0], samples...)
	if prev == nil {
		return false
	}

	c.last = NewMannWhitneyTest(prev, samples, TwoSided)
	c.ran = true
	if math.IsNaN(c.last.P()) {
		return prev[0] == samples[0]
	}
	return c.last.P() > c.Alpha
}

// Report prints the last U statistic and p-value.
func (c *MannWhitneyCriterion) Report() string {
	if !c.ran {
		return ""
	}
	return fmt.Sprintf("Mann-Whitney U = %.1f, p = %.4f", c.last.Statistic(), c.last.P())
}
