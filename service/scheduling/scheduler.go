/*
 * @module service/scheduling/scheduler
 * @description Generates due measurement slots from parameter frequencies and answers schedule queries
 * @architecture Layered architecture - domain service
 * @stateFlow GenerateDailySchedule replaces one date's slots; slots then move pending -> completed | overdue | skipped
 * @rules Regeneration is delete-then-insert in one transaction; Mondays add the weekly parameters at 09:00
 * @dependencies gorm.io/gorm, ceramiqc/service/catalog
 * @refs service/automation/jobs.go, api/controllers/schedule_controller.go
 */

package scheduling

import (
	"ceramiqc/service/metrics"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// ParameterSource lists the parameters to schedule.
type ParameterSource interface {
	ListActive(ctx context.Context, stageCode string) ([]models.ControlParameter, error)
}

// Scheduler owns the scheduled_controls table.
type Scheduler struct {
	db      *gorm.DB
	params  ParameterSource
	now     func() time.Time
	metrics *metrics.Collector
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithMetrics reports generated slots to m.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler creates a scheduler.
func NewScheduler(db *gorm.DB, params ParameterSource, opts ...Option) *Scheduler {
	s := &Scheduler{db: db, params: params, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateResult is returned by schedule generation.
type GenerateResult struct {
	Date           string `json:"date" example:"2025-03-02"`
	ScheduledCount int    `json:"scheduled_count" example:"42"`
}

func (s *Scheduler) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// GenerateDailySchedule replaces the slots of date (tomorrow when nil) with
// a fresh pending set. Any assignment made on the replaced slots is lost.
func (s *Scheduler) GenerateDailySchedule(ctx context.Context, date *time.Time) (GenerateResult, error) {
	target := s.today().AddDate(0, 0, 1)
	if date != nil {
		target = *date
	}
	day := models.FormatDate(target)

	params, err := s.params.ListActive(ctx, "")
	if err != nil {
		return GenerateResult{}, qcerror.Internal(err, "load parameters")
	}

	var slots []models.ScheduledControl
	for _, p := range params {
		for _, slot := range SlotsFor(p.FrequencyPerDay) {
			slots = append(slots, models.ScheduledControl{
				ParameterID:   p.ID,
				ScheduledDate: day,
				ScheduledTime: slot.Clock,
				Shift:         slot.Shift,
				Status:        models.ScheduleStatusPending,
			})
		}
	}
	if models.IsMonday(target) {
		for _, p := range params {
			if !p.Weekly {
				continue
			}
			slots = append(slots, models.ScheduledControl{
				ParameterID:   p.ID,
				ScheduledDate: day,
				ScheduledTime: models.ClockFromMinute(WeeklySlotMinute),
				Shift:         models.ShiftForMinute(WeeklySlotMinute),
				Status:        models.ScheduleStatusPending,
			})
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scheduled_date = ?", day).Delete(&models.ScheduledControl{}).Error; err != nil {
			return fmt.Errorf("clear schedule: %w", err)
		}
		if len(slots) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(slots, 200).Error; err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return GenerateResult{}, qcerror.Internal(err, "generate schedule for %s", day)
	}

	s.metrics.ScheduleGenerated(len(slots))
	slog.Info("daily schedule generated", "date", day, "scheduled_count", len(slots))
	return GenerateResult{Date: day, ScheduledCount: len(slots)}, nil
}

// GenerateWeeklySchedule generates the schedule of next Monday, which
// carries the weekly parameters.
func (s *Scheduler) GenerateWeeklySchedule(ctx context.Context) (GenerateResult, error) {
	today := s.today()
	sinceMonday := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, 7-sinceMonday)
	return s.GenerateDailySchedule(ctx, &monday)
}

// GetDailySchedule returns the slots of date, optionally for one shift,
// ordered by time then parameter code, with parameter and stage loaded.
func (s *Scheduler) GetDailySchedule(ctx context.Context, date string, shift *models.Shift) ([]models.ScheduledControl, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN control_parameters ON control_parameters.id = scheduled_controls.parameter_id").
		Where("scheduled_controls.scheduled_date = ?", date)
	if shift != nil {
		q = q.Where("scheduled_controls.shift = ?", *shift)
	}
	var slots []models.ScheduledControl
	err := q.Preload("Parameter.Stage").
		Order("scheduled_controls.scheduled_time, control_parameters.code").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	return slots, nil
}

// ScheduleSummary counts a day's slots by shift and by status.
type ScheduleSummary struct {
	Date     string         `json:"date"`
	Total    int            `json:"total"`
	ByShift  map[string]int `json:"by_shift"`
	ByStatus map[string]int `json:"by_status"`
}

type countRow struct {
	Bucket string
	Count  int
}

// GetScheduleSummary aggregates the slots of date. Every shift and status
// is present in the maps, zero when unused.
func (s *Scheduler) GetScheduleSummary(ctx context.Context, date string) (ScheduleSummary, error) {
	summary := ScheduleSummary{Date: date, ByShift: map[string]int{}, ByStatus: map[string]int{}}
	for _, shift := range models.AllShifts {
		summary.ByShift[string(shift)] = 0
	}
	for _, status := range models.AllScheduleStatuses {
		summary.ByStatus[string(status)] = 0
	}

	db := s.db.WithContext(ctx)
	var byShift, byStatus []countRow
	if err := db.Model(&models.ScheduledControl{}).Select("shift AS bucket, COUNT(*) AS count").
		Where("scheduled_date = ?", date).Group("shift").Scan(&byShift).Error; err != nil {
		return summary, fmt.Errorf("summarize shifts: %w", err)
	}
	if err := db.Model(&models.ScheduledControl{}).Select("status AS bucket, COUNT(*) AS count").
		Where("scheduled_date = ?", date).Group("status").Scan(&byStatus).Error; err != nil {
		return summary, fmt.Errorf("summarize statuses: %w", err)
	}
	for _, row := range byShift {
		summary.ByShift[row.Bucket] = row.Count
		summary.Total += row.Count
	}
	for _, row := range byStatus {
		summary.ByStatus[row.Bucket] = row.Count
	}
	return summary, nil
}

// AssignOperator sets the operator of the given slots that are still pending
// and returns how many were updated.
func (s *Scheduler) AssignOperator(ctx context.Context, ids []string, operator string) (int64, error) {
	if operator == "" {
		return 0, qcerror.Validation("operator name is required")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&models.ScheduledControl{}).
		Where("id IN ? AND status = ?", ids, models.ScheduleStatusPending).
		Update("assigned_operator", operator)
	if result.Error != nil {
		return 0, qcerror.Internal(result.Error, "assign operator")
	}
	return result.RowsAffected, nil
}

// SkipControl moves a pending slot to skipped, recording reason.
func (s *Scheduler) SkipControl(ctx context.Context, id, reason string) (*models.ScheduledControl, error) {
	var slot models.ScheduledControl
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&slot, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return qcerror.NotFound("scheduled control %s not found", id)
			}
			return qcerror.Internal(err, "load scheduled control")
		}
		if slot.Status != models.ScheduleStatusPending {
			return qcerror.Conflict("scheduled control %s is %s, only pending controls can be skipped", id, slot.Status)
		}
		slot.Status = models.ScheduleStatusSkipped
		slot.Notes = reason
		return tx.Model(&slot).Updates(map[string]interface{}{"status": slot.Status, "notes": reason}).Error
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetPendingControls returns today's pending slots, optionally narrowed to
// an assigned operator and a shift, ordered by time.
func (s *Scheduler) GetPendingControls(ctx context.Context, operator string, shift *models.Shift) ([]models.ScheduledControl, error) {
	q := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_date = ?", models.ScheduleStatusPending, models.FormatDate(s.now()))
	if operator != "" {
		q = q.Where("assigned_operator = ?", operator)
	}
	if shift != nil {
		q = q.Where("shift = ?", *shift)
	}
	var slots []models.ScheduledControl
	if err := q.Preload("Parameter.Stage").Order("scheduled_time").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("query pending controls: %w", err)
	}
	return slots, nil
}
