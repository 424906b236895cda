// Package predict estimates link probabilities by averaging a blockmodel's
// edge probabilities over samples of its Markov chain.
package predict

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/blockmodel/block"
)

// Predictor accumulates samples of a model and predicts edge probabilities.
type Predictor interface {
	TakeSample()
	SampleCount() int
	Probability(u, v int) float64
}

// AveragingPredictor predicts p(u, v) as the mean of p_{t_u t_v} over all
// samples taken.
type AveragingPredictor struct {
	model block.ProbabilityModel
	sums  *mat.SymDense
	count int
}

// NewAveragingPredictor returns a predictor that samples model.
func NewAveragingPredictor(model block.ProbabilityModel) *AveragingPredictor {
	n := max(model.VertexCount(), 1)
	return &AveragingPredictor{model: model, sums: mat.NewSymDense(n, nil)}
}

// TakeSample adds the current state of the model.
func (p *AveragingPredictor) TakeSample() {
	probs := p.model.Probabilities()
	types := p.model.Types()
	for u, tu := range types {
		for v := u + 1; v < len(types); v++ {
			p.sums.SetSym(u, v, p.sums.At(u, v)+probs.At(tu, types[v]))
		}
	}
	p.count++
}

// SampleCount returns the number of samples taken.
func (p *AveragingPredictor) SampleCount() int { return p.count }

// Probability returns the averaged probability of an edge between u and v,
// or 0 before any sample has been taken.
func (p *AveragingPredictor) Probability(u, v int) float64 {
	if p.count == 0 || u == v {
		return 0
	}
	return p.sums.At(u, v) / float64(p.count)
}

// Prediction is the predicted probability of one vertex pair.
type Prediction struct {
	U, V int
	P    float64
}

// Predictions lists every unordered pair u < v of an n-vertex graph. With
// sorted set, pairs are ordered by decreasing probability, ties keeping
// pair order.
func Predictions(p Predictor, n int, sorted bool) []Prediction {
	out := make([]Prediction, 0, n*(n-1)/2)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			out = append(out, Prediction{U: u, V: v, P: p.Probability(u, v)})
		}
	}
	if sorted {
		sort.SliceStable(out, func(i, j int) bool { return out[i].P > out[j].P })
	}
	return out
}

// Config controls a sampling run.
type Config struct {
	// SamplingFreq is the probability of taking a sample before each step.
	SamplingFreq float64
	// Samples is the number of samples to collect.
	Samples int
	// LogPeriod is the number of steps between progress lines; 0 disables them.
	LogPeriod int
}

// ErrNoGraph is returned when more than one sample is requested from a
// model that has no graph to run the chain on.
var ErrNoGraph = errors.New("loaded model has no associated graph; cannot start sampling")

// Sample runs the chain and feeds samples to a new AveragingPredictor until
// cfg.Samples samples were taken or ctx is cancelled. A single requested
// sample is always the starting state.
func Sample(ctx context.Context, cfg Config, model block.ProbabilityModel, mcmc *block.MetropolisHastings, rng block.RandomSource) (*AveragingPredictor, error) {
	pred := NewAveragingPredictor(model)
	if cfg.Samples <= 0 {
		return pred, nil
	}
	freq := cfg.SamplingFreq
	if cfg.Samples == 1 {
		freq = 1
	}
	if model.Graph() == nil && cfg.Samples > 1 {
		return nil, ErrNoGraph
	}

	logrus.Info(">> starting Markov chain")
	bestLogL := model.LogLikelihood()
	for {
		if rng.Float64() < freq {
			pred.TakeSample()
		}
		if pred.SampleCount() >= cfg.Samples {
			return pred, nil
		}
		if err := ctx.Err(); err != nil {
			return pred, err
		}

		mcmc.Step(model)
		logL := model.LogLikelihood()
		bestLogL = max(bestLogL, logL)
		if cfg.LogPeriod > 0 && mcmc.StepCount()%cfg.LogPeriod == 0 {
			accepted := ' '
			if mcmc.WasLastProposalAccepted() {
				accepted = '*'
			}
			logrus.Infof("[%6d] (%6d) %12.4f\t(%.4f)\t%c%8.4f",
				mcmc.StepCount(), pred.SampleCount(), logL, bestLogL, accepted, mcmc.AcceptanceRatio())
		}
	}
}
