package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMeanFieldMetrics() {
	r.MeanFieldRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "infodemic_meanfield_runs_total",
			Help: "Total number of mean-field runs",
		},
		[]string{"mode", "status"},
	)

	r.MeanFieldInvariantViolations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infodemic_meanfield_invariant_violations_total",
			Help: "Mean-field runs aborted because compartments drifted",
		},
	)

	r.MeanFieldPeakDay = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infodemic_meanfield_peak_day",
			Help:    "Day of peak infection per mean-field run",
			Buckets: []float64{5, 10, 20, 40, 60, 80, 100, 200},
		},
	)
}
