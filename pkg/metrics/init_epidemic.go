package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEpidemicMetrics() {
	r.EpidemicTrialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "infodemic_epidemic_trials_total",
			Help: "Total number of agent-based trials",
		},
		[]string{"status"},
	)

	r.EpidemicTrialDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infodemic_epidemic_trial_duration_seconds",
			Help:    "Duration of one agent-based trial in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.EpidemicStepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infodemic_epidemic_steps_total",
			Help: "Total number of simulated days",
		},
	)

	r.EpidemicInfectionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infodemic_epidemic_infections_total",
			Help: "Total number of infections, outbreak seeds included",
		},
	)

	r.EpidemicRecoveriesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infodemic_epidemic_recoveries_total",
			Help: "Total number of recoveries",
		},
	)

	r.EpidemicAttackRate = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infodemic_epidemic_attack_rate",
			Help:    "Share of nodes ever infected per trial",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"threshold"},
	)
}
