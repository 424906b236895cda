//go:build unix

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/blockmodel/block/fit"
)

// watchDumpSignal raises dump whenever SIGUSR1 arrives. The fitter serves
// the request at its next step boundary. The returned function stops
// watching.
func watchDumpSignal(dump *fit.DumpRequest) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigs:
				dump.Raise()
			case <-done:
				return
			}
		}
	}()
	logrus.Info(">> send SIGUSR1 to dump the current best state to stdout")
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
