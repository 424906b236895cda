package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/blockmodel/block/fit"
	"github.com/inference-sim/blockmodel/block/metrics"
	"github.com/inference-sim/blockmodel/block/modelio"
	"github.com/inference-sim/blockmodel/graph"
)

var (
	// CLI flags for the fit command
	fitGroups      int    // Number of groups; <= 0 selects it by AIC
	fitSamples     int    // Steps taken after convergence; <= 0 runs until interrupted
	fitBlockSize   int    // Steps between convergence checks
	fitLogPeriod   int    // Steps between progress lines
	fitInitMethod  string // greedy or random
	fitModel       string // undirected or degree
	fitStrategy    string // metropolis or gibbs
	fitConvergence string // mean or mann-whitney
	fitOutFormat   string // plain, json, yaml or null
	fitConfigPath  string // Optional YAML config file
	fitMetricsAddr string // Address of the Prometheus endpoint; empty disables it
)

// fitCmd fits a blockmodel to a graph and prints the best state found
var fitCmd = &cobra.Command{
	Use:   "fit [flags] <edgelist>",
	Short: "Fit a stochastic blockmodel to a graph",
	Long: `Fit a stochastic blockmodel to an undirected graph given as an edge list
("-" reads standard input). The Markov chain runs until convergence, takes the
requested number of samples and prints the best state visited.

Send SIGUSR1 to print the best state found so far without stopping the chain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var file FitConfig
		if fitConfigPath != "" {
			var err error
			if file, err = loadFitConfig(fitConfigPath); err != nil {
				return err
			}
		}
		opts, err := resolveFitOptions(cmd, file)
		if err != nil {
			return err
		}
		writer, err := modelio.NewWriter(opts.outFormat)
		if err != nil {
			return err
		}

		logrus.Infof(">> loading graph: %s", args[0])
		g, err := graph.Load(args[0])
		if err != nil {
			return err
		}
		if loops, multi := g.Dropped(); loops+multi > 0 {
			logrus.Infof(">> simplifying graph: dropped %d loops and %d multi-edges", loops, multi)
		}
		logrus.Infof(">> graph has %d vertices and %d edges", g.VertexCount(), g.EdgeCount())
		logrus.Debugf(">> using random seed: %d", opts.fit.Seed)

		fitter, err := fit.New(g, opts.fit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fitter.SetWriter(writer, out)

		if opts.metricsAddr != "" {
			reg := metrics.NewRegistry()
			fitter.SetObserver(reg)
			srv := serveMetrics(opts.metricsAddr, reg)
			defer shutdownMetrics(srv)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		stopDump := watchDumpSignal(fitter.DumpRequest())
		defer stopDump()

		best, err := fitter.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logrus.Warn(">> interrupted before convergence, printing the best state so far")
		} else if err != nil {
			return err
		}

		logrus.Info(">> dumping best state of the chain")
		return writer.Write(out, best)
	},
}

// registerFitFlags binds the fit flags to c.
func registerFitFlags(c *cobra.Command) {
	defaults := fit.DefaultConfig()
	c.Flags().IntVarP(&fitGroups, "groups", "g", defaults.Groups, "Number of groups; -1 selects it by AIC")
	c.Flags().IntVarP(&fitSamples, "samples", "s", defaults.Samples, "Samples taken after convergence; 0 keeps the chain running until interrupted")
	c.Flags().IntVar(&fitBlockSize, "block-size", defaults.BlockSize, "Steps between convergence checks")
	c.Flags().IntVar(&fitLogPeriod, "log-period", defaults.LogPeriod, "Steps between progress lines")
	c.Flags().StringVar(&fitInitMethod, "init-method", string(defaults.Init), "Initialization method (greedy, random)")
	c.Flags().StringVar(&fitModel, "model", string(defaults.Kind), "Model type (undirected, degree)")
	c.Flags().StringVar(&fitStrategy, "strategy", string(defaults.Sampler), "MCMC strategy (metropolis, gibbs)")
	c.Flags().StringVar(&fitConvergence, "convergence", defaults.Convergence, "Convergence criterion (mean, mann-whitney)")
	c.Flags().StringVarP(&fitOutFormat, "out-format", "F", string(modelio.FormatPlain), "Output format (plain, json, yaml, null)")
	c.Flags().StringVar(&fitConfigPath, "config", "", "YAML file with fit settings; explicit flags take precedence")
	c.Flags().StringVar(&fitMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

func init() {
	registerFitFlags(fitCmd)
}
