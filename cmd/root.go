package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string // Log verbosity level
	seed     uint64 // Seed for every random stream of a run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "blockmodel",
	Short: "Fit, sample and generate stochastic blockmodels of undirected graphs",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
	SilenceUsage: true,
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Seed for the random number generator")

	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(predCmd)
}
