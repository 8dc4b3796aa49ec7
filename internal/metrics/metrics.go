package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the optimizer.
	Registry = prometheus.NewRegistry()
	// Runs counts optimization runs by algorithm and outcome.
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_runs_total", Help: "Optimization runs by algorithm and outcome."},
		[]string{"algorithm", "outcome"},
	)
	// RunDuration records end-to-end run durations in seconds.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimizer_run_duration_seconds", Help: "Optimization run duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"algorithm"},
	)
	// Fallbacks counts runs that fell back to nearest-neighbor.
	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_fallbacks_total", Help: "Runs that fell back to nearest-neighbor."},
		[]string{"algorithm"},
	)
	// FrontSize tracks Pareto front sizes of multi-objective runs.
	FrontSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_pareto_front_size", Help: "Pareto front size per multi-objective run.", Buckets: []float64{1, 2, 4, 8, 16, 32, 64}},
	)
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Runs)
		Registry.MustRegister(RunDuration)
		Registry.MustRegister(Fallbacks)
		Registry.MustRegister(FrontSize)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
