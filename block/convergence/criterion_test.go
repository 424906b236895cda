package convergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantBlock(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestMeanCriterion_ConvergesOnStableMean(t *testing.T) {
	c := NewMeanCriterion()

	// GIVEN the first block, there is nothing to compare against
	assert.False(t, c.Check(constantBlock(-100, 10)))

	// WHEN the mean jumps by 10%
	// THEN the criterion is not satisfied
	assert.False(t, c.Check(constantBlock(-110, 10)))
	assert.NotEmpty(t, c.Report())

	// WHEN the chain settles, the smoothed mean stops moving
	converged := false
	for i := 0; i < 20 && !converged; i++ {
		converged = c.Check(constantBlock(-110, 10))
	}
	assert.True(t, converged)
}

func TestMeanCriterion_ReportsBlockSpread(t *testing.T) {
	c := NewMeanCriterion()
	c.Check([]float64{1, 2, 3, 4, 5})

	// Sample variance 2.5.
	assert.Contains(t, c.Report(), "block sd 1.5811")

	c.Check(constantBlock(3, 4))
	assert.Contains(t, c.Report(), "block sd 0.0000")
}

func TestMeanCriterion_EmptyBlock(t *testing.T) {
	c := NewMeanCriterion()
	assert.False(t, c.Check(nil))
	assert.Empty(t, c.Report())
}

func TestMannWhitneyCriterion(t *testing.T) {
	c := NewMannWhitneyCriterion()
	assert.False(t, c.Check([]float64{1, 2, 3, 4, 5, 6}))
	assert.Empty(t, c.Report())

	// Shifted well away from the previous block: distinguishable.
	assert.False(t, c.Check([]float64{101, 102, 103, 104, 105, 106}))

	// Interleaved with the previous block: indistinguishable.
	assert.True(t, c.Check([]float64{101.5, 102.5, 103.5, 104.5, 105.5, 100.5}))
	assert.Contains(t, c.Report(), "Mann-Whitney")
}

func TestMannWhitneyCriterion_ConstantBlocks(t *testing.T) {
	c := NewMannWhitneyCriterion()
	c.Check(constantBlock(-5, 4))
	assert.True(t, c.Check(constantBlock(-5, 4)))
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "mean", "mann-whitney", "mw"} {
		c, err := New(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c)
	}
	_, err := New("entropy")
	assert.Error(t, err)
}

func TestMeanCriterion_ConvergesTowardsZero(t *testing.T) {
	c := NewMeanCriterion()
	c.Check(constantBlock(-4, 10))

	converged := false
	for i := 0; i < 30 && !converged; i++ {
		converged = c.Check(constantBlock(0, 10))
	}
	assert.True(t, converged)
}
