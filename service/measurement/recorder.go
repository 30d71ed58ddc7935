/*
 * @module service/measurement/recorder
 * @description Records measurements: evaluate, number non-conformities, persist and fulfil the pending slot
 * @architecture Layered architecture - domain service
 * @stateFlow submission -> parameter lookup -> evaluation -> tx{NC number, insert, slot completed} -> NC event
 * @rules One transaction per submission; failures return a structured result and leave no partial writes
 * @dependencies gorm.io/gorm, ceramiqc/service/compliance, ceramiqc/service/distributed_lock, ceramiqc/service/event
 * @refs api/controllers/measurement_controller.go, service/ingest/mqtt.go
 */

package measurement

import (
	"ceramiqc/service/compliance"
	"ceramiqc/service/distributed_lock"
	"ceramiqc/service/event"
	"ceramiqc/service/metrics"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const (
	ncLockTTL      = 30 * time.Second
	ncLockInterval = 50 * time.Millisecond
)

// ParameterLookup loads catalog parameters.
type ParameterLookup interface {
	GetParameter(ctx context.Context, id string) (*models.ControlParameter, error)
}

// Recorder turns submissions into measurements.
type Recorder struct {
	db        *gorm.DB
	params    ParameterLookup
	evaluator *compliance.Evaluator
	now       func() time.Time
	locks     *distributed_lock.LockExecutor
	publisher event.Publisher
	metrics   *metrics.Collector
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithLock serializes NC numbering per day across replicas.
func WithLock(lock distributed_lock.DistributedLock) Option {
	return func(r *Recorder) {
		if lock != nil {
			r.locks = distributed_lock.NewLockExecutor(lock)
		}
	}
}

// WithPublisher sends an event for every issued NC number.
func WithPublisher(p event.Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

// WithMetrics reports recorded measurements to m.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Recorder) { r.metrics = m }
}

// NewRecorder creates a recorder.
func NewRecorder(db *gorm.DB, params ParameterLookup, evaluator *compliance.Evaluator, opts ...Option) *Recorder {
	r := &Recorder{
		db:        db,
		params:    params,
		evaluator: evaluator,
		now:       time.Now,
		publisher: event.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result reports the outcome of one submission. Failures set Success to
// false with Error and ErrorType instead of returning a Go error.
type Result struct {
	Success             bool                   `json:"success"`
	MeasurementID       string                 `json:"measurement_id,omitempty"`
	Status              compliance.Status      `json:"status,omitempty"`
	IsConforming        *bool                  `json:"is_conforming"`
	DeviationPercentage *float64               `json:"deviation_percentage"`
	NCNumber            *string                `json:"nc_number,omitempty"`
	ScheduledControlID  *string                `json:"scheduled_control_id,omitempty"`
	Violations          []compliance.Violation `json:"violations,omitempty"`
	Error               string                 `json:"error,omitempty"`
	ErrorType           qcerror.ErrorType      `json:"error_type,omitempty"`
}

func failure(err error) Result {
	return Result{Error: err.Error(), ErrorType: qcerror.TypeOf(err)}
}

// RecordMeasurement evaluates and stores one reading of parameterID.
func (r *Recorder) RecordMeasurement(ctx context.Context, parameterID, operator string, sub Submission) Result {
	res, err := r.record(ctx, parameterID, operator, sub)
	if err != nil {
		r.metrics.RecordFailed(string(qcerror.TypeOf(err)))
		slog.Warn("measurement rejected", "parameter_id", parameterID, "operator", operator, "error", err)
		return failure(err)
	}
	return res
}

func (r *Recorder) record(ctx context.Context, parameterID, operator string, sub Submission) (Result, error) {
	if parameterID == "" {
		return Result{}, qcerror.Validation("parameter_id is required")
	}
	if operator == "" {
		return Result{}, qcerror.Validation("operator name is required")
	}
	if sub.SampleSize < 0 {
		return Result{}, qcerror.Validation("sample_size must not be negative")
	}

	param, err := r.params.GetParameter(ctx, parameterID)
	if err != nil {
		return Result{}, err
	}

	now := r.now()
	date, clock, shift, err := sub.timing(now)
	if err != nil {
		return Result{}, err
	}
	value, err := CoerceValue(param.ControlType, sub.Value)
	if err != nil {
		return Result{}, err
	}

	format, enamel := models.StrPtr(sub.Format), models.StrPtr(sub.EnamelType)
	verdict, err := r.evaluator.EvaluateParameter(ctx, param, value, format, enamel, sub.IsConforming)
	if err != nil {
		return Result{}, qcerror.Validation("%v", err)
	}

	sampleSize := sub.SampleSize
	if sampleSize == 0 {
		sampleSize = 1
	}
	m := &models.OptimizedMeasurement{
		ParameterID:         param.ID,
		OperatorName:        operator,
		MeasurementDate:     date,
		MeasurementTime:     clock,
		Shift:               shift,
		Format:              format,
		EnamelType:          enamel,
		LineNumber:          models.StrPtr(sub.LineNumber),
		OvenNumber:          models.StrPtr(sub.OvenNumber),
		PressNumber:         models.StrPtr(sub.PressNumber),
		IsConforming:        verdict.IsConforming,
		DeviationPercentage: verdict.Deviation,
		SampleSize:          sampleSize,
		Observations:        sub.Observations,
	}
	m.SetValue(value)

	needsNC := verdict.IsConforming != nil && !*verdict.IsConforming
	var slot *models.ScheduledControl
	persist := func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			slot, err = r.matchSlot(tx, param.ID, date, sub.ScheduledControlID)
			if err != nil {
				return err
			}
			if needsNC {
				err = insertWithNCNumber(tx, m)
			} else {
				err = tx.Create(m).Error
			}
			if err != nil {
				return qcerror.Internal(err, "save measurement")
			}
			if slot == nil {
				return nil
			}
			claimed, err := completeSlot(tx, slot, m.ID, now)
			if err != nil {
				return qcerror.Internal(err, "complete scheduled control")
			}
			if !claimed {
				if sub.ScheduledControlID != "" {
					return qcerror.Conflict("scheduled control %s is no longer pending", slot.ID)
				}
				slot = nil
			}
			return nil
		})
	}

	if needsNC && r.locks != nil {
		err = r.locks.WaitAndExecute(ctx, "nc:"+date, ncLockTTL, ncLockInterval, persist)
	} else {
		err = persist()
	}
	if err != nil {
		var qe *qcerror.Error
		if !errors.As(err, &qe) {
			err = qcerror.Internal(err, "record measurement")
		}
		return Result{}, err
	}

	result := Result{
		Success:             true,
		MeasurementID:       m.ID,
		Status:              verdict.Status,
		IsConforming:        m.IsConforming,
		DeviationPercentage: m.DeviationPercentage,
		NCNumber:            m.NCNumber,
		Violations:          verdict.Violations,
	}
	if slot != nil {
		result.ScheduledControlID = &slot.ID
	}

	r.metrics.MeasurementRecorded(string(param.ControlType), string(verdict.Status), m.NCNumber != nil)
	slog.Info("measurement recorded",
		"measurement_id", m.ID,
		"parameter", param.Code,
		"status", verdict.Status,
		"nc_number", models.StrValue(m.NCNumber),
		"scheduled_control_id", models.StrValue(result.ScheduledControlID))

	if m.NCNumber != nil {
		r.publishNC(ctx, param, m, verdict.Violations)
	}
	return result, nil
}

// completeSlot moves slot from pending to completed and links it to
// measurementID. It reports false when another submission completed or a
// sweep moved the slot since it was read.
func completeSlot(tx *gorm.DB, slot *models.ScheduledControl, measurementID string, now time.Time) (bool, error) {
	result := tx.Model(&models.ScheduledControl{}).
		Where("id = ? AND status = ?", slot.ID, models.ScheduleStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ScheduleStatusCompleted,
			"completed_at":   now,
			"measurement_id": measurementID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	completedAt := now
	slot.Status = models.ScheduleStatusCompleted
	slot.CompletedAt = &completedAt
	slot.MeasurementID = &measurementID
	return true, nil
}

// matchSlot returns the slot this submission fulfils. An explicit id must
// name a pending slot of the same parameter; otherwise the earliest pending
// slot of the parameter on date is used, if any.
func (r *Recorder) matchSlot(tx *gorm.DB, parameterID, date, explicitID string) (*models.ScheduledControl, error) {
	var slot models.ScheduledControl
	if explicitID != "" {
		if err := tx.First(&slot, "id = ?", explicitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, qcerror.NotFound("scheduled control %s not found", explicitID)
			}
			return nil, qcerror.Internal(err, "load scheduled control")
		}
		if slot.ParameterID != parameterID {
			return nil, qcerror.Validation("scheduled control %s belongs to another parameter", explicitID)
		}
		if slot.Status != models.ScheduleStatusPending {
			return nil, qcerror.Conflict("scheduled control %s is already %s", explicitID, slot.Status)
		}
		return &slot, nil
	}

	var slots []models.ScheduledControl
	err := tx.Where("parameter_id = ? AND scheduled_date = ? AND status = ?", parameterID, date, models.ScheduleStatusPending).
		Order("scheduled_time").Limit(1).Find(&slots).Error
	if err != nil {
		return nil, qcerror.Internal(err, "find pending scheduled control")
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return &slots[0], nil
}

func (r *Recorder) publishNC(ctx context.Context, param *models.ControlParameter, m *models.OptimizedMeasurement, violations []compliance.Violation) {
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Message)
	}
	nc := event.NonConformity{
		NCNumber:        *m.NCNumber,
		MeasurementID:   m.ID,
		ParameterID:     param.ID,
		ParameterCode:   param.Code,
		ParameterName:   param.Name,
		OperatorName:    m.OperatorName,
		MeasurementDate: m.MeasurementDate,
		MeasurementTime: m.MeasurementTime,
		Shift:           string(m.Shift),
		Messages:        messages,
		OccurredAt:      r.now(),
	}
	if err := r.publisher.PublishNonConformity(context.WithoutCancel(ctx), nc); err != nil {
		slog.Error("publish nc event failed", "nc_number", nc.NCNumber, "error", err)
	}
}

// BulkEntry is one line of a bulk submission.
type BulkEntry struct {
	ParameterID  string `json:"parameter_id"`
	OperatorName string `json:"operator_name"`
	Submission
}

// BulkItem pairs an entry with its result.
type BulkItem struct {
	ParameterID string `json:"parameter_id"`
	Result      Result `json:"result"`
}

// BulkResult summarizes a bulk submission.
type BulkResult struct {
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
	Results        []BulkItem `json:"results"`
}

// RecordBulkMeasurements records each entry independently; a failing entry
// does not affect the others.
func (r *Recorder) RecordBulkMeasurements(ctx context.Context, entries []BulkEntry) BulkResult {
	out := BulkResult{TotalProcessed: len(entries), Results: make([]BulkItem, 0, len(entries))}
	for _, e := range entries {
		res := r.RecordMeasurement(ctx, e.ParameterID, e.OperatorName, e.Submission)
		if res.Success {
			out.Successful++
		} else {
			out.Failed++
		}
		out.Results = append(out.Results, BulkItem{ParameterID: e.ParameterID, Result: res})
	}
	slog.Info("bulk measurements recorded", "total", out.TotalProcessed, "successful", out.Successful, "failed", out.Failed)
	return out
}
