// Package metrics exposes the state of a running chain as Prometheus
// metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inference-sim/blockmodel/block/fit"
)

// Registry holds the chain metrics. It implements fit.Observer.
type Registry struct {
	LogLikelihood     prometheus.Gauge
	BestLogLikelihood prometheus.Gauge
	AcceptanceRatio   prometheus.Gauge
	NumTypes          prometheus.Gauge
	Steps             prometheus.Counter
	StateDumps        prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	factory := promauto.With(r.registry)

	r.LogLikelihood = factory.NewGauge(prometheus.GaugeOpts{
		Name: "blockmodel_log_likelihood",
		Help: "Log-likelihood of the current state of the chain",
	})
	r.BestLogLikelihood = factory.NewGauge(prometheus.GaugeOpts{
		Name: "blockmodel_best_log_likelihood",
		Help: "Highest log-likelihood visited so far",
	})
	r.AcceptanceRatio = factory.NewGauge(prometheus.GaugeOpts{
		Name: "blockmodel_acceptance_ratio",
		Help: "Fraction of recent proposals that were accepted",
	})
	r.NumTypes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "blockmodel_num_types",
		Help: "Number of groups of the model being sampled",
	})
	r.Steps = factory.NewCounter(prometheus.CounterOpts{
		Name: "blockmodel_steps_total",
		Help: "Total number of chain steps",
	})
	r.StateDumps = factory.NewCounter(prometheus.CounterOpts{
		Name: "blockmodel_state_dumps_total",
		Help: "Total number of best-state dumps served",
	})
	return r
}

// ObserveStep records one chain step.
func (r *Registry) ObserveStep(s fit.StepStats) {
	r.Steps.Inc()
	r.LogLikelihood.Set(s.LogLikelihood)
	r.BestLogLikelihood.Set(s.BestLikelihood)
	r.AcceptanceRatio.Set(s.AcceptanceRatio)
	r.NumTypes.Set(float64(s.NumTypes))
}

// ObserveDump records a dump of the best state.
func (r *Registry) ObserveDump() { r.StateDumps.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

var _ fit.Observer = (*Registry)(nil)
