package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/blockmodel/block"
	"github.com/inference-sim/blockmodel/block/fit"
	"github.com/inference-sim/blockmodel/block/modelio"
)

// FitConfig is the --config file of the fit command. Fields left out keep
// their defaults; flags given explicitly on the command line win over the
// file.
type FitConfig struct {
	Groups      *int    `yaml:"groups"`
	Samples     *int    `yaml:"samples"`
	BlockSize   *int    `yaml:"block_size"`
	LogPeriod   *int    `yaml:"log_period"`
	InitMethod  *string `yaml:"init_method"`
	Model       *string `yaml:"model"`
	Strategy    *string `yaml:"strategy"`
	Convergence *string `yaml:"convergence"`
	Seed        *uint64 `yaml:"seed"`
	OutFormat   *string `yaml:"out_format"`
	MetricsAddr *string `yaml:"metrics_addr"`
}

// loadFitConfig parses a YAML config file with strict field checking, so
// that typos are reported instead of silently ignored.
func loadFitConfig(path string) (FitConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FitConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg FitConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return FitConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// fitOptions is everything the fit command needs once flags and the config
// file have been merged.
type fitOptions struct {
	fit         fit.Config
	outFormat   modelio.Format
	metricsAddr string
}

// resolveFitOptions starts from the flag values and lets the config file
// override every flag the user did not set explicitly.
func resolveFitOptions(cmd *cobra.Command, file FitConfig) (fitOptions, error) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	opts := fitOptions{
		fit: fit.Config{
			Groups:      fitGroups,
			Samples:     fitSamples,
			BlockSize:   fitBlockSize,
			LogPeriod:   fitLogPeriod,
			Init:        fit.InitMethod(fitInitMethod),
			Sampler:     fit.Sampler(fitStrategy),
			Convergence: fitConvergence,
			Seed:        seed,
		},
		outFormat:   modelio.Format(fitOutFormat),
		metricsAddr: fitMetricsAddr,
	}
	modelName := fitModel

	if file.Groups != nil && !changed("groups") {
		opts.fit.Groups = *file.Groups
	}
	if file.Samples != nil && !changed("samples") {
		opts.fit.Samples = *file.Samples
	}
	if file.BlockSize != nil && !changed("block-size") {
		opts.fit.BlockSize = *file.BlockSize
	}
	if file.LogPeriod != nil && !changed("log-period") {
		opts.fit.LogPeriod = *file.LogPeriod
	}
	if file.InitMethod != nil && !changed("init-method") {
		opts.fit.Init = fit.InitMethod(*file.InitMethod)
	}
	if file.Strategy != nil && !changed("strategy") {
		opts.fit.Sampler = fit.Sampler(*file.Strategy)
	}
	if file.Convergence != nil && !changed("convergence") {
		opts.fit.Convergence = *file.Convergence
	}
	if file.Seed != nil && !changed("seed") {
		opts.fit.Seed = *file.Seed
	}
	if file.OutFormat != nil && !changed("out-format") {
		opts.outFormat = modelio.Format(*file.OutFormat)
	}
	if file.MetricsAddr != nil && !changed("metrics-addr") {
		opts.metricsAddr = *file.MetricsAddr
	}
	if file.Model != nil && !changed("model") {
		modelName = *file.Model
	}

	kind, err := block.ParseKind(modelName)
	if err != nil {
		return fitOptions{}, err
	}
	opts.fit.Kind = kind
	if err := opts.fit.Validate(); err != nil {
		return fitOptions{}, err
	}
	if _, err := modelio.NewWriter(opts.outFormat); err != nil {
		return fitOptions{}, err
	}
	return opts, nil
}
