/*
 * @module service/metrics/metrics
 * @description Prometheus collectors for measurements, non-conformities, schedule generation and automation jobs
 * @architecture Layered architecture - infrastructure service
 * @stateFlow services report events -> counters/histograms -> /metrics scrape
 * @rules All methods are safe on a nil *Collector so services work without metrics wired
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/measurement/recorder.go, service/automation/runner.go
 */

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ceramiqc"

// Collector groups the service's Prometheus metrics.
type Collector struct {
	MeasurementsRecorded *prometheus.CounterVec
	Nonconformities      prometheus.Counter
	RecordFailures       *prometheus.CounterVec
	SlotsGenerated       prometheus.Counter
	OverdueMarked        prometheus.Counter
	JobRuns              *prometheus.CounterVec
	JobDuration          *prometheus.HistogramVec
	IngestedMessages     *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		MeasurementsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_recorded_total",
			Help:      "Measurements persisted, by control type and compliance status.",
		}, []string{"control_type", "status"}),
		Nonconformities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonconformities_total",
			Help:      "NC numbers issued.",
		}),
		RecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurement_record_failures_total",
			Help:      "Rejected measurement submissions, by error type.",
		}, []string{"error_type"}),
		SlotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_slots_generated_total",
			Help:      "Scheduled control slots created by schedule generation.",
		}),
		OverdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "controls_marked_overdue_total",
			Help:      "Pending slots moved to overdue by the sweep.",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "automation_job_runs_total",
			Help:      "Automation job executions, by job and outcome.",
		}, []string{"job", "outcome"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "automation_job_duration_seconds",
			Help:      "Automation job execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		IngestedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_messages_total",
			Help:      "Instrument messages received over MQTT, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(
			c.MeasurementsRecorded,
			c.Nonconformities,
			c.RecordFailures,
			c.SlotsGenerated,
			c.OverdueMarked,
			c.JobRuns,
			c.JobDuration,
			c.IngestedMessages,
		)
	}
	return c
}

// MeasurementRecorded counts a persisted measurement and its NC, if any.
func (c *Collector) MeasurementRecorded(controlType, status string, nc bool) {
	if c == nil {
		return
	}
	c.MeasurementsRecorded.WithLabelValues(controlType, status).Inc()
	if nc {
		c.Nonconformities.Inc()
	}
}

// RecordFailed counts a rejected submission.
func (c *Collector) RecordFailed(errorType string) {
	if c == nil {
		return
	}
	c.RecordFailures.WithLabelValues(errorType).Inc()
}

// ScheduleGenerated counts generated slots.
func (c *Collector) ScheduleGenerated(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.SlotsGenerated.Add(float64(n))
}

// ControlsMarkedOverdue counts slots moved to overdue.
func (c *Collector) ControlsMarkedOverdue(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.OverdueMarked.Add(float64(n))
}

// JobFinished records one automation job execution.
func (c *Collector) JobFinished(job string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.JobRuns.WithLabelValues(job, outcome).Inc()
	c.JobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

// MessageIngested counts one MQTT message by outcome (accepted, rejected, invalid).
func (c *Collector) MessageIngested(outcome string) {
	if c == nil {
		return
	}
	c.IngestedMessages.WithLabelValues(outcome).Inc()
}
