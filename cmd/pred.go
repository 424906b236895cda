package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/blockmodel/block"
	"github.com/inference-sim/blockmodel/block/predict"
	"github.com/inference-sim/blockmodel/graph"
)

var (
	predSamples      int     // Number of samples to average
	predSamplingFreq float64 // Probability of taking a sample at each step
	predLogPeriod    int     // Steps between progress lines
	predSort         bool    // Sort predictions by decreasing probability
)

// predCmd predicts link probabilities from a fitted model
var predCmd = &cobra.Command{
	Use:   "pred [flags] <model>",
	Short: "Predict edge probabilities by sampling a fitted blockmodel",
	Long: `Predict the probability of every vertex pair being connected by averaging
the fitted model over samples of its Markov chain. The graph the model was fitted
to is loaded from the filename recorded in the model file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if predSamples <= 0 {
			return nil
		}
		model, original, err := readModelFile(args[0])
		if err != nil {
			return err
		}
		attachGraph(model, original)

		cfg := predict.Config{SamplingFreq: predSamplingFreq, Samples: predSamples, LogPeriod: predLogPeriod}
		preds, err := samplePredictions(cmd.Context(), model, cfg, seed, predSort)
		if err != nil {
			return err
		}
		return writePredictions(cmd.OutOrStdout(), preds)
	},
}

// attachGraph binds model to the graph it was fitted to, if that graph can
// still be loaded. The model keeps its supplied probabilities otherwise.
func attachGraph(model *block.Undirected, filename string) {
	if filename == "" {
		return
	}
	g, err := graph.Load(filename)
	if err != nil {
		logrus.Warnf(">> cannot load original graph %q, continuing anyway: %v", filename, err)
		return
	}
	if g.VertexCount() != model.VertexCount() {
		logrus.Warnf(">> original graph %q has %d vertices, model has %d; continuing without it",
			filename, g.VertexCount(), model.VertexCount())
		return
	}
	model.SetGraph(g)
}

// samplePredictions runs a Metropolis-Hastings chain on model and averages
// cfg.Samples snapshots of its probabilities.
func samplePredictions(ctx context.Context, model *block.Undirected, cfg predict.Config, seed uint64, sorted bool) ([]predict.Prediction, error) {
	logrus.Debugf(">> using random seed: %d", seed)
	rngs := block.NewPartitionedRNG(block.RunKey(seed))
	mcmc := block.NewMetropolisHastings()
	mcmc.SetRNG(rngs.ForSubsystem(block.SubsystemChain))

	pred, err := predict.Sample(ctx, cfg, model, mcmc, rngs.ForSubsystem(block.SubsystemPredict))
	if err != nil {
		return nil, err
	}
	return predict.Predictions(pred, model.VertexCount(), sorted), nil
}

// writePredictions prints one "u\tv\tp" line per pair.
func writePredictions(w io.Writer, preds []predict.Prediction) error {
	bw := bufio.NewWriter(w)
	for _, p := range preds {
		fmt.Fprintf(bw, "%d\t%d\t%s\n", p.U, p.V, strconv.FormatFloat(p.P, 'g', 6, 64))
	}
	return bw.Flush()
}

func init() {
	predCmd.Flags().IntVarP(&predSamples, "samples", "c", 1, "Number of samples to average")
	predCmd.Flags().Float64Var(&predSamplingFreq, "sampling-freq", 0.1, "Probability of taking a sample after each step")
	predCmd.Flags().IntVar(&predLogPeriod, "log-period", 8192, "Steps between progress lines")
	predCmd.Flags().BoolVar(&predSort, "sort", false, "Sort pairs by decreasing probability")
}
