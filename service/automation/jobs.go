package automation

import (
	"ceramiqc/service/config"
	"ceramiqc/service/scheduling"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Job ids, stable across releases because operators trigger them by id.
const (
	JobGenerateDailySchedule  = "generate_daily_schedule"
	JobMarkOverdueControls    = "mark_overdue_controls"
	JobGenerateWeeklySchedule = "generate_weekly_schedule"
	JobCleanupOldRecords      = "cleanup_old_records"
)

// ScheduleGenerator produces schedules.
type ScheduleGenerator interface {
	GenerateDailySchedule(ctx context.Context, date *time.Time) (scheduling.GenerateResult, error)
	GenerateWeeklySchedule(ctx context.Context) (scheduling.GenerateResult, error)
}

// OverdueSweeper marks late slots.
type OverdueSweeper interface {
	MarkOverdueControls(ctx context.Context) (int64, error)
}

// SheetCleaner purges old control sheet records.
type SheetCleaner interface {
	CleanupSheets(ctx context.Context, cutoff time.Time) (int64, error)
}

// Deps are the services the QC jobs drive.
type Deps struct {
	Scheduler ScheduleGenerator
	Sweeper   OverdueSweeper
	Sheets    SheetCleaner
	Now       func() time.Time
}

// QCJobs builds the four plant jobs from cfg.
func QCJobs(cfg config.AutomationConfig, deps Deps) []Job {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return []Job{
		{
			ID:   JobGenerateDailySchedule,
			Name: "Generate Daily Schedule",
			Spec: cfg.DailyScheduleSpec,
			Run: func(ctx context.Context) error {
				res, err := deps.Scheduler.GenerateDailySchedule(ctx, nil)
				if err != nil {
					return err
				}
				slog.Info("daily schedule job done", "date", res.Date, "scheduled_count", res.ScheduledCount)
				return nil
			},
		},
		{
			ID:   JobMarkOverdueControls,
			Name: "Mark Overdue Controls",
			Spec: cfg.OverdueSweepSpec,
			Run: func(ctx context.Context) error {
				_, err := deps.Sweeper.MarkOverdueControls(ctx)
				return err
			},
		},
		{
			ID:   JobGenerateWeeklySchedule,
			Name: "Generate Weekly Schedule",
			Spec: cfg.WeeklyScheduleSpec,
			Run: func(ctx context.Context) error {
				res, err := deps.Scheduler.GenerateWeeklySchedule(ctx)
				if err != nil {
					return err
				}
				slog.Info("weekly schedule job done", "week_start", res.Date, "scheduled_count", res.ScheduledCount)
				return nil
			},
		},
		{
			ID:   JobCleanupOldRecords,
			Name: "Cleanup Old Records",
			Spec: cfg.CleanupSpec,
			Run: func(ctx context.Context) error {
				if cfg.SheetRetentionDays == 0 {
					return nil
				}
				cutoff := now().AddDate(0, 0, -cfg.SheetRetentionDays)
				_, err := deps.Sheets.CleanupSheets(ctx, cutoff)
				return err
			},
		},
	}
}

// RegisterAll registers jobs on r, stopping at the first bad spec.
func RegisterAll(r *Runner, jobs []Job) error {
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			return fmt.Errorf("register automation jobs: %w", err)
		}
	}
	return nil
}
