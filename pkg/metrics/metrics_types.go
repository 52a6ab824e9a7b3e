package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the simulator
type Registry struct {
	// Diffusion Metrics
	DiffusionRunsTotal     *prometheus.CounterVec
	DiffusionSeedNodes     *prometheus.GaugeVec
	DiffusionPromotedNodes *prometheus.GaugeVec
	DiffusionDuration      prometheus.Histogram

	// Epidemic (agent-based) Metrics
	EpidemicTrialsTotal     *prometheus.CounterVec
	EpidemicTrialDuration   prometheus.Histogram
	EpidemicStepsTotal      prometheus.Counter
	EpidemicInfectionsTotal prometheus.Counter
	EpidemicRecoveriesTotal prometheus.Counter
	EpidemicAttackRate      *prometheus.HistogramVec

	// Mean-field Metrics
	MeanFieldRunsTotal           *prometheus.CounterVec
	MeanFieldInvariantViolations prometheus.Counter
	MeanFieldPeakDay             prometheus.Histogram

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initDiffusionMetrics()
	r.initEpidemicMetrics()
	r.initMeanFieldMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
