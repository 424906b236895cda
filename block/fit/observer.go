package fit

import "sync/atomic"

// StepStats describes the chain right after one step.
type StepStats struct {
	Step            int
	NumTypes        int
	LogLikelihood   float64
	BestLikelihood  float64
	Accepted        bool
	AcceptanceRatio float64
}

// Observer receives chain progress. Calls happen on the fitting goroutine
// between steps.
type Observer interface {
	ObserveStep(s StepStats)
	ObserveDump()
}

type nopObserver struct{}

func (nopObserver) ObserveStep(StepStats) {}
func (nopObserver) ObserveDump()          {}

// DumpRequest is a flag that asks the fitter to write its best state at
// the next step boundary. Raise may be called from any goroutine, such as
// a signal handler loop.
type DumpRequest struct {
	pending atomic.Bool
}

// Raise requests a dump.
func (d *DumpRequest) Raise() { d.pending.Store(true) }

// Pending reports whether a dump has been requested and not yet served.
func (d *DumpRequest) Pending() bool { return d.pending.Load() }

// take clears the flag and reports whether it was set.
func (d *DumpRequest) take() bool { return d.pending.CompareAndSwap(true, false) }
