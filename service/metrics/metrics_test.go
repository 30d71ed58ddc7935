package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.MeasurementRecorded("numeric", "non_compliant", true)
	c.MeasurementRecorded("numeric", "compliant", false)
	c.MeasurementRecorded("numeric", "compliant", false)
	c.RecordFailed("validation")
	c.ScheduleGenerated(28)
	c.ScheduleGenerated(0)
	c.ControlsMarkedOverdue(3)
	c.JobFinished("mark_overdue_controls", time.Second, nil)
	c.JobFinished("mark_overdue_controls", time.Second, errors.New("db down"))
	c.MessageIngested("accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.MeasurementsRecorded.WithLabelValues("numeric", "compliant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Nonconformities))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RecordFailures.WithLabelValues("validation")))
	assert.Equal(t, 28.0, testutil.ToFloat64(c.SlotsGenerated))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.OverdueMarked))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.JobRuns.WithLabelValues("mark_overdue_controls", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.IngestedMessages.WithLabelValues("accepted")))

	count, err := testutil.GatherAndCount(reg, "ceramiqc_automation_job_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.MeasurementRecorded("numeric", "compliant", true)
		c.RecordFailed("internal")
		c.ScheduleGenerated(1)
		c.ControlsMarkedOverdue(1)
		c.JobFinished("x", 0, nil)
		c.MessageIngested("invalid")
	})
}
