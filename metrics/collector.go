package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/solution"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "balance"

// Collector holds the solve metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	Solves           *prometheus.CounterVec   // strategy, algorithm, status
	Duration         *prometheus.HistogramVec // algorithm
	Iterations       *prometheus.HistogramVec // algorithm
	Refactorizations prometheus.Counter
	Warnings         *prometheus.CounterVec // kind
}

var _ engine.Recorder = (*Collector)(nil)

// NewCollector builds a Collector under namespace (DefaultNamespace when
// empty). withRuntime also registers the Go runtime and process collectors.
func NewCollector(namespace string, withRuntime bool) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	c := &Collector{registry: reg}
	c.Solves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "solves_total",
		Help:      "Finished solves by strategy, algorithm and terminal status.",
	}, []string{"strategy", "algorithm", "status"})
	c.Duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock time of a solve, including standard-form construction.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"algorithm"})
	c.Iterations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "solve_iterations",
		Help:      "Solver iterations per solve.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"algorithm"})
	c.Refactorizations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refactorizations_total",
		Help:      "Basis refactorizations performed by simplex.",
	})
	c.Warnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "numerical_warnings_total",
		Help:      "Numerical warnings by kind.",
	}, []string{"kind"})
	reg.MustRegister(c.Solves, c.Duration, c.Iterations, c.Refactorizations, c.Warnings)

	return c
}

// ObserveSolve implements engine.Recorder.
func (c *Collector) ObserveSolve(strategy engine.Strategy, status solution.Status, diag solution.Diagnostics, elapsed time.Duration) {
	algo := string(diag.Algorithm)
	c.Solves.WithLabelValues(strategy.String(), algo, status.String()).Inc()
	c.Duration.WithLabelValues(algo).Observe(elapsed.Seconds())
	c.Iterations.WithLabelValues(algo).Observe(float64(diag.Iterations))
	c.Refactorizations.Add(float64(diag.Refactorizations))
	for _, w := range diag.Warnings {
		c.Warnings.WithLabelValues(w.Kind.String()).Inc()
	}
}

// Registry exposes the underlying registry, e.g. for a shared gatherer.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
