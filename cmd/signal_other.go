//go:build !unix

package cmd

import "github.com/inference-sim/blockmodel/block/fit"

// watchDumpSignal is a no-op where SIGUSR1 does not exist.
func watchDumpSignal(*fit.DumpRequest) func() { return func() {} }
