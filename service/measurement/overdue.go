package measurement

import (
	"ceramiqc/service/models"
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// overdueScope selects pending slots whose due date and time have passed.
func (r *Recorder) overdueScope(db *gorm.DB) *gorm.DB {
	now := r.now()
	today := models.FormatDate(now)
	clock, inclusive := models.ElapsedClock(now)
	cond := "(scheduled_controls.scheduled_date < ? OR (scheduled_controls.scheduled_date = ? AND scheduled_controls.scheduled_time < ?))"
	if inclusive {
		cond = "(scheduled_controls.scheduled_date < ? OR (scheduled_controls.scheduled_date = ? AND scheduled_controls.scheduled_time <= ?))"
	}
	return db.Where("scheduled_controls.status = ?", models.ScheduleStatusPending).
		Where(cond, today, today, clock)
}

// GetOverdueControls lists pending slots past due, oldest first.
func (r *Recorder) GetOverdueControls(ctx context.Context) ([]models.ScheduledControl, error) {
	var slots []models.ScheduledControl
	err := r.overdueScope(r.db.WithContext(ctx)).
		Preload("Parameter.Stage").
		Order("scheduled_controls.scheduled_date, scheduled_controls.scheduled_time").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("query overdue controls: %w", err)
	}
	return slots, nil
}

// MarkOverdueControls moves every overdue pending slot to overdue and
// returns how many moved. Running it twice in a row moves nothing the
// second time.
func (r *Recorder) MarkOverdueControls(ctx context.Context) (int64, error) {
	result := r.overdueScope(r.db.WithContext(ctx).Model(&models.ScheduledControl{})).
		Update("status", models.ScheduleStatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("mark overdue controls: %w", result.Error)
	}
	r.metrics.ControlsMarkedOverdue(result.RowsAffected)
	if result.RowsAffected > 0 {
		slog.Info("controls marked overdue", "count", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
