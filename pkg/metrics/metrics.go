package metrics

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordDiffusion records one Linear Threshold step
func (r *Registry) RecordDiffusion(threshold, seeds, promoted int) {
	t := strconv.Itoa(threshold)
	r.DiffusionRunsTotal.WithLabelValues(StatusSuccess).Inc()
	r.DiffusionSeedNodes.WithLabelValues(t).Set(float64(seeds))
	r.DiffusionPromotedNodes.WithLabelValues(t).Set(float64(promoted))
}

// RecordDiffusionError records a sweep rejected by configuration checks
func (r *Registry) RecordDiffusionError() {
	r.DiffusionRunsTotal.WithLabelValues(StatusError).Inc()
}

// ObserveDiffusionSweep records the duration of a full sweep
func (r *Registry) ObserveDiffusionSweep(duration time.Duration) {
	r.DiffusionDuration.Observe(duration.Seconds())
}

// TrialStats summarises one agent-based trial for metrics
type TrialStats struct {
	Threshold  int
	Days       int
	Infections int
	Recoveries int
	AttackRate float64
	Duration   time.Duration
}

// RecordTrial records a finished agent-based trial
func (r *Registry) RecordTrial(s TrialStats) {
	r.EpidemicTrialsTotal.WithLabelValues(StatusSuccess).Inc()
	r.EpidemicTrialDuration.Observe(s.Duration.Seconds())
	r.EpidemicStepsTotal.Add(float64(s.Days))
	r.EpidemicInfectionsTotal.Add(float64(s.Infections))
	r.EpidemicRecoveriesTotal.Add(float64(s.Recoveries))
	r.EpidemicAttackRate.WithLabelValues(strconv.Itoa(s.Threshold)).Observe(s.AttackRate)
}

// RecordTrialError records a trial that failed
func (r *Registry) RecordTrialError() {
	r.EpidemicTrialsTotal.WithLabelValues(StatusError).Inc()
}

// RecordMeanField records a mean-field run. mode is "fractions" or "counts".
func (r *Registry) RecordMeanField(mode, status string, peakDay int) {
	r.MeanFieldRunsTotal.WithLabelValues(mode, status).Inc()
	if status == StatusSuccess {
		r.MeanFieldPeakDay.Observe(float64(peakDay))
	}
}

// RecordInvariantViolation records a mean-field run aborted by the
// conservation check
func (r *Registry) RecordInvariantViolation() {
	r.MeanFieldInvariantViolations.Inc()
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes every metric to path in the text exposition format,
// for the node exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
