// Package fit runs a blockmodel's Markov chain to convergence and keeps the
// best state it visits.
package fit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/blockmodel/block"
	"github.com/inference-sim/blockmodel/block/convergence"
	"github.com/inference-sim/blockmodel/block/modelio"
)

// chain is the part of a sampling strategy the fitter drives.
type chain interface {
	block.Strategy
	SetRNG(rng block.RandomSource)
	AcceptanceRatio() float64
	WasLastProposalAccepted() bool
	Reset()
}

// unboundedBlock is the block length used once sampling runs until
// cancelled.
const unboundedBlock = 1000

// Fitter fits one blockmodel to one graph. It is not safe for concurrent
// use, except for DumpRequest().Raise.
type Fitter struct {
	cfg   Config
	graph block.GraphView
	rng   *block.PartitionedRNG
	chain chain

	model    block.Model
	best     block.Model
	bestLogL float64

	dump     DumpRequest
	writer   modelio.Writer
	out      io.Writer
	observer Observer
}

// New validates cfg and prepares a fitter for g.
func New(g block.GraphView, cfg Config) (*Fitter, error) {
	if g == nil {
		return nil, block.ErrNoGraph
	}
	if g.VertexCount() == 0 {
		return nil, errors.New("graph has no vertices")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fit config: %w", err)
	}

	f := &Fitter{
		cfg:      cfg,
		graph:    g,
		rng:      block.NewPartitionedRNG(block.RunKey(cfg.Seed)),
		observer: nopObserver{},
	}
	switch cfg.Sampler {
	case SamplerGibbs:
		f.chain = block.NewGibbs()
	default:
		f.chain = block.NewMetropolisHastings()
	}
	f.chain.SetRNG(f.rng.ForSubsystem(block.SubsystemChain))
	return f, nil
}

// SetWriter sets where requested dumps of the best state are written.
// Without a writer, dump requests are acknowledged and nothing is written.
func (f *Fitter) SetWriter(w modelio.Writer, out io.Writer) {
	f.writer, f.out = w, out
}

// SetObserver registers an observer for chain progress.
func (f *Fitter) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	f.observer = o
}

// DumpRequest returns the flag that triggers a dump of the best state.
func (f *Fitter) DumpRequest() *DumpRequest { return &f.dump }

// Best returns the best state found so far.
func (f *Fitter) Best() block.Model { return f.best }

// Run fits the model, takes the post-convergence samples and returns the
// best state visited. A single-group fit is exact and skips sampling. If
// ctx is cancelled the best state so far is returned together with
// ctx.Err(), except while sampling without a limit, where cancellation is
// the normal way to stop.
func (f *Fitter) Run(ctx context.Context) (block.Model, error) {
	if f.cfg.Groups > 0 {
		if err := f.fitGroupCount(ctx, f.cfg.Groups); err != nil {
			return f.best, err
		}
		logrus.Infof(">> AIC = %.4f", block.AIC(f.model))
	} else if err := f.scanGroupCounts(ctx); err != nil {
		return f.best, err
	}

	if f.model.NumTypes() < 2 {
		return f.best, nil
	}
	if f.cfg.Samples > 0 {
		logrus.Infof(">> convergence condition satisfied, taking %d samples", f.cfg.Samples)
		if err := f.runBlock(ctx, f.cfg.Samples, nil); err != nil {
			return f.best, err
		}
		return f.best, nil
	}

	logrus.Info(">> convergence condition satisfied, leaving the chain running anyway")
	for {
		if err := f.runBlock(ctx, unboundedBlock, nil); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return f.best, nil
			}
			return f.best, err
		}
	}
}

// scanGroupCounts fits k = 1..⌊√V⌋ and continues from the state with the
// lowest AIC.
func (f *Fitter) scanGroupCounts(ctx context.Context) error {
	kMax := max(int(math.Floor(math.Sqrt(float64(f.graph.VertexCount())))), 1)

	var winner block.Model
	bestAIC := math.Inf(1)
	for k := 1; k <= kMax; k++ {
		if k == 1 {
			logrus.Info(">> trying with 1 type")
		} else {
			logrus.Infof(">> trying with %d types", k)
		}
		if err := f.fitGroupCount(ctx, k); err != nil {
			return err
		}
		current := block.AIC(f.best)
		if current < bestAIC {
			bestAIC = current
			winner = f.best.Clone()
		}
		logrus.Debugf(">> AIC = %.4f (%.4f)", current, bestAIC)
	}

	f.model = winner.Clone()
	f.best = winner
	f.bestLogL = f.best.LogLikelihood()
	logrus.Infof(">> best type count is %d", f.model.NumTypes())
	return nil
}

// fitGroupCount runs a fresh chain with k groups until convergence.
func (f *Fitter) fitGroupCount(ctx context.Context, k int) error {
	var err error
	if f.model, err = block.NewModel(f.cfg.Kind, f.graph, k); err != nil {
		return err
	}
	if f.best, err = block.NewModel(f.cfg.Kind, f.graph, k); err != nil {
		return err
	}

	// A single group has exactly one assignment.
	if k < 2 {
		f.bestLogL = f.model.LogLikelihood()
		return f.best.AssignFrom(f.model)
	}

	// Step counts and acceptance statistics start over for every group count.
	f.chain.Reset()
	f.model.Randomize(f.rng.ForSubsystem(block.SubsystemInit))
	if f.cfg.Init == InitGreedy {
		f.greedyInit()
	}
	if err := f.best.AssignFrom(f.model); err != nil {
		return err
	}
	f.bestLogL = f.model.LogLikelihood()

	criterion, err := convergence.New(f.cfg.Convergence)
	if err != nil {
		return err
	}

	logrus.Info(">> starting Markov chain")
	samples := make([]float64, 0, f.cfg.BlockSize)
	for {
		samples = samples[:0]
		if err := f.runBlock(ctx, f.cfg.BlockSize, &samples); err != nil {
			return err
		}
		converged := criterion.Check(samples)
		if report := criterion.Report(); report != "" {
			logrus.Debugf(">> %s", report)
		}
		if converged {
			return nil
		}
	}
}

// greedyInit runs greedy sweeps to a fixed point, or logs and keeps the
// random start when the model has no probabilities.
func (f *Fitter) greedyInit() {
	greedy := block.NewGreedy()
	if !greedy.Supports(f.model) {
		logrus.Errorf(">> greedy initialization not available for %s models, using random instead", f.model.Kind())
		return
	}
	logrus.Info(">> running greedy initialization")
	for greedy.Step(f.model) {
		logL := f.model.LogLikelihood()
		logrus.Infof("[%6d] (%2d) %12.4f\t(%.4f)", greedy.StepCount(), f.model.NumTypes(), logL, logL)
	}
}

// runBlock advances the chain n steps, tracking the best state and
// appending each log-likelihood to samples when it is non-nil. Cancellation
// and dump requests are checked once per step.
func (f *Fitter) runBlock(ctx context.Context, n int, samples *[]float64) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.chain.Step(f.model)
		logL := f.model.LogLikelihood()
		if f.bestLogL < logL {
			if err := f.best.AssignFrom(f.model); err != nil {
				return err
			}
			f.bestLogL = logL
		}
		if samples != nil {
			*samples = append(*samples, logL)
		}

		step := f.chain.StepCount()
		stats := StepStats{
			Step:            step,
			NumTypes:        f.model.NumTypes(),
			LogLikelihood:   logL,
			BestLikelihood:  f.bestLogL,
			Accepted:        f.chain.WasLastProposalAccepted(),
			AcceptanceRatio: f.chain.AcceptanceRatio(),
		}
		f.observer.ObserveStep(stats)
		if f.cfg.LogPeriod > 0 && step%f.cfg.LogPeriod == 0 {
			logProgress(stats)
		}

		if f.dump.take() {
			if err := f.dumpBest(); err != nil {
				return err
			}
		}
	}
	return nil
}

func logProgress(s StepStats) {
	accepted := ' '
	if s.Accepted {
		accepted = '*'
	}
	logrus.Infof("[%6d] (%2d) %12.4f\t(%.4f)\t%c%8.4f",
		s.Step, s.NumTypes, s.LogLikelihood, s.BestLikelihood, accepted, s.AcceptanceRatio)
}

// dumpBest writes the best state through the configured writer.
func (f *Fitter) dumpBest() error {
	logrus.Info(">> dumping best state of the chain")
	f.observer.ObserveDump()
	if f.writer == nil || f.out == nil {
		logrus.Debug(">> no model writer set up, printing nothing")
		return nil
	}
	if err := f.writer.Write(f.out, f.best); err != nil {
		return fmt.Errorf("dumping best state: %w", err)
	}
	return nil
}
