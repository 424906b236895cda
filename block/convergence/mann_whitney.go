package convergence

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Alternative selects the alternative hypothesis of a rank test.
type Alternative int

const (
	// TwoSided tests whether the two samples come from different distributions.
	TwoSided Alternative = iota
	// LessThan tests whether the first sample tends to be smaller.
	LessThan
	// GreaterThan tests whether the first sample tends to be larger.
	GreaterThan
)

// MannWhitneyTest is the Mann-Whitney U test of two independent samples,
// using the normal approximation with tie correction.
type MannWhitneyTest struct {
	statistic float64
	p         float64
}

// NewMannWhitneyTest runs the test on samples a and b.
// When every value is tied the variance is zero and P returns NaN.
func NewMannWhitneyTest(a, b []float64, alt Alternative) MannWhitneyTest {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 == 0 || n2 == 0 {
		return MannWhitneyTest{statistic: math.NaN(), p: math.NaN()}
	}

	type obs struct {
		value float64
		first bool
	}
	all := make([]obs, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, obs{v, true})
	}
	for _, v := range b {
		all = append(all, obs{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Average ranks over ties and accumulate the tie correction Σ(t³ − t).
	var rankSumA, ties float64
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		rank := float64(i+1+j) / 2
		for _, o := range all[i:j] {
			if o.first {
				rankSumA += rank
			}
		}
		t := float64(j - i)
		ties += t*t*t - t
		i = j
	}

	uA := rankSumA - n1*(n1+1)/2
	uB := n1*n2 - uA
	n := n1 + n2
	mean := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 / 12 * ((n + 1) - ties/(n*(n-1))))
	z := (uA - mean) / sigma

	var p float64
	switch alt {
	case LessThan:
		p = distuv.UnitNormal.CDF(z)
	case GreaterThan:
		p = distuv.UnitNormal.Survival(z)
	default:
		p = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	}
	return MannWhitneyTest{statistic: math.Min(uA, uB), p: p}
}

// Statistic returns U, the smaller of the two rank-sum statistics.
func (t MannWhitneyTest) Statistic() float64 { return t.statistic }

// P returns the p-value for the chosen alternative.
func (t MannWhitneyTest) P() float64 { return t.p }
