// Package metrics exposes the engine's Prometheus collectors, grounded
// on the teacher's internal/metrics/metrics.go: a dedicated Registry
// (not prometheus.DefaultRegisterer) plus a regOnce-guarded registration
// function, with the HTTP/webhook collectors swapped for the solver's
// own.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the engine.
	Registry = prometheus.NewRegistry()

	// Iterations counts perturbation iterations run, by whether the
	// iteration's move was accepted.
	Iterations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_solve_iterations_total", Help: "Perturbation iterations run."},
		[]string{"accepted"},
	)

	// OperatorSelected counts how often each move kind was the one
	// applied by the local-search descent (spec.md §4.4's closed
	// operator enumeration).
	OperatorSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_solve_operator_selected_total", Help: "Local-search moves applied, by operator kind."},
		[]string{"kind"},
	)

	// Objective records the final objective value of completed runs.
	Objective = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_solve_objective", Help: "Final objective value of completed solve runs.", Buckets: prometheus.ExponentialBuckets(10, 2, 20)},
	)

	// Duration records wall-clock solve time.
	Duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_solve_duration_seconds", Help: "Solve run wall-clock duration in seconds.", Buckets: prometheus.DefBuckets},
	)

	// UnassignedCount records how many jobs a completed run left
	// unassigned.
	UnassignedCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_solve_unassigned_jobs", Help: "Unassigned job count of completed solve runs.", Buckets: prometheus.LinearBuckets(0, 5, 20)},
	)
)

// RegisterDefault registers every collector to Registry, exactly once
// per process.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Iterations)
		Registry.MustRegister(OperatorSelected)
		Registry.MustRegister(Objective)
		Registry.MustRegister(Duration)
		Registry.MustRegister(UnassignedCount)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
