package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDiffusionMetrics() {
	r.DiffusionRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "infodemic_diffusion_runs_total",
			Help: "Total number of Linear Threshold steps",
		},
		[]string{"status"},
	)

	r.DiffusionSeedNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "infodemic_diffusion_seed_nodes",
			Help: "Nodes labelled misinformed from the attribute alone",
		},
		[]string{"threshold"},
	)

	r.DiffusionPromotedNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "infodemic_diffusion_promoted_nodes",
			Help: "Nodes labelled misinformed by the threshold rule",
		},
		[]string{"threshold"},
	)

	r.DiffusionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infodemic_diffusion_duration_seconds",
			Help:    "Duration of a threshold sweep in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)
}
