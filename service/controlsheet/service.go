/*
 * @module service/controlsheet/service
 * @description Data contract consumed by the control sheet exporters, plus sheet records and retention
 * @architecture Layered architecture - domain service
 * @stateFlow schedule + measurements of a date -> per-parameter rows -> exporter; export -> ControlSheet record
 * @rules Read-only over schedules and measurements; rows follow stage order then parameter code
 * @dependencies gorm.io/gorm, ceramiqc/service/scheduling
 * @refs api/controllers/control_sheet_controller.go, service/automation/jobs.go
 */

package controlsheet

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"ceramiqc/service/scheduling"
	"ceramiqc/service/specification"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ScheduleSource provides the scheduled side of a sheet.
type ScheduleSource interface {
	GetDailySchedule(ctx context.Context, date string, shift *models.Shift) ([]models.ScheduledControl, error)
	GetScheduleSummary(ctx context.Context, date string) (scheduling.ScheduleSummary, error)
}

// Service builds control sheet contracts.
type Service struct {
	db       *gorm.DB
	schedule ScheduleSource
	resolver specification.Resolver
	now      func() time.Time
}

// NewService creates a control sheet service.
func NewService(db *gorm.DB, schedule ScheduleSource, resolver specification.Resolver) *Service {
	return &Service{db: db, schedule: schedule, resolver: resolver, now: time.Now}
}

// MeasurementEntry is one recorded reading on a sheet row.
type MeasurementEntry struct {
	MeasurementID       string                  `json:"measurement_id"`
	Time                string                  `json:"time"`
	Shift               models.Shift            `json:"shift"`
	Value               models.MeasurementValue `json:"value" swaggertype:"object"`
	IsConforming        *bool                   `json:"is_conforming"`
	DeviationPercentage *float64                `json:"deviation_percentage,omitempty"`
	NCNumber            *string                 `json:"nc_number,omitempty"`
	Operator            string                  `json:"operator"`
	Observations        string                  `json:"observations,omitempty"`
}

// RowStatus summarizes one parameter row.
type RowStatus string

const (
	RowMissing       RowStatus = "missing"
	RowConforming    RowStatus = "conforming"
	RowNonConforming RowStatus = "non_conforming"
)

// ParameterRow is everything a sheet prints for one parameter.
type ParameterRow struct {
	StageCode       string             `json:"stage_code"`
	StageName       string             `json:"stage_name"`
	ParameterID     string             `json:"parameter_id"`
	ParameterCode   string             `json:"parameter_code"`
	ParameterName   string             `json:"parameter_name"`
	Specification   string             `json:"specification"`
	Frequency       string             `json:"frequency"`
	Unit            string             `json:"unit,omitempty"`
	ScheduledTimes  []string           `json:"scheduled_times"`
	Measurements    []MeasurementEntry `json:"measurements"`
	ConformingCount int                `json:"conforming_count"`
	MeasuredCount   int                `json:"measured_count"`
	Deviations      []float64          `json:"deviations"`
	NCNumbers       []string           `json:"nc_numbers"`
	Observations    []string           `json:"observations"`
	Status          RowStatus          `json:"status"`

	sortOrder int
}

// SheetSummary closes a daily sheet.
type SheetSummary struct {
	ParametersTotal      int      `json:"parameters_total"`
	ParametersControlled int      `json:"parameters_controlled"`
	ParametersConforming int      `json:"parameters_conforming"`
	ConformityRate       *float64 `json:"conformity_rate"`
}

// DailySheet is the contract of a daily (or per-shift) control sheet.
type DailySheet struct {
	Date     string         `json:"date"`
	Shift    *models.Shift  `json:"shift,omitempty"`
	Title    string         `json:"title"`
	FileName string         `json:"file_name"`
	Rows     []ParameterRow `json:"rows"`
	Summary  SheetSummary   `json:"summary"`
}

func frequencyText(p *models.ControlParameter) string {
	if p.Weekly {
		return "weekly"
	}
	return fmt.Sprintf("%dx/day", p.FrequencyPerDay)
}

func newRow(p *models.ControlParameter) *ParameterRow {
	row := &ParameterRow{
		ParameterID:    p.ID,
		ParameterCode:  p.Code,
		ParameterName:  p.Name,
		Specification:  p.SpecificationText,
		Frequency:      frequencyText(p),
		Unit:           p.Unit,
		ScheduledTimes: []string{},
		Measurements:   []MeasurementEntry{},
		Deviations:     []float64{},
		NCNumbers:      []string{},
		Observations:   []string{},
	}
	if p.Stage != nil {
		row.StageCode = p.Stage.Code
		row.StageName = p.Stage.Name
		row.sortOrder = p.Stage.SortOrder
	}
	return row
}

// DailySheet gathers the scheduled slots and the measurements of date,
// optionally restricted to one shift, grouped by parameter.
func (s *Service) DailySheet(ctx context.Context, date string, shift *models.Shift) (*DailySheet, error) {
	if _, err := models.ParseDate(date, time.Local); err != nil {
		return nil, qcerror.Validation("%v", err)
	}

	slots, err := s.schedule.GetDailySchedule(ctx, date, shift)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Preload("Parameter.Stage").Where("measurement_date = ?", date)
	if shift != nil {
		q = q.Where("shift = ?", *shift)
	}
	var measurements []models.OptimizedMeasurement
	if err := q.Order("measurement_time, created_at").Find(&measurements).Error; err != nil {
		return nil, fmt.Errorf("load measurements: %w", err)
	}

	rows := map[string]*ParameterRow{}
	rowFor := func(p *models.ControlParameter, id string) *ParameterRow {
		if row, ok := rows[id]; ok {
			return row
		}
		if p == nil {
			p = &models.ControlParameter{ID: id, Code: id}
		}
		row := newRow(p)
		rows[id] = row
		return row
	}

	for i := range slots {
		slot := &slots[i]
		row := rowFor(slot.Parameter, slot.ParameterID)
		row.ScheduledTimes = append(row.ScheduledTimes, slot.ScheduledTime)
	}
	for i := range measurements {
		m := &measurements[i]
		row := rowFor(m.Parameter, m.ParameterID)
		row.Measurements = append(row.Measurements, MeasurementEntry{
			MeasurementID:       m.ID,
			Time:                m.MeasurementTime,
			Shift:               m.Shift,
			Value:               m.MeasuredValue(),
			IsConforming:        m.IsConforming,
			DeviationPercentage: m.DeviationPercentage,
			NCNumber:            m.NCNumber,
			Operator:            m.OperatorName,
			Observations:        m.Observations,
		})
		row.MeasuredCount++
		if m.IsConforming != nil && *m.IsConforming {
			row.ConformingCount++
		}
		if m.DeviationPercentage != nil {
			row.Deviations = append(row.Deviations, *m.DeviationPercentage)
		}
		if m.NCNumber != nil {
			row.NCNumbers = append(row.NCNumbers, *m.NCNumber)
		}
		if m.Observations != "" {
			row.Observations = append(row.Observations, m.Observations)
		}
	}

	sheet := &DailySheet{
		Date:     date,
		Shift:    shift,
		Title:    sheetTitle(date, shift),
		FileName: dailyFileName(date, shift),
		Rows:     make([]ParameterRow, 0, len(rows)),
	}
	for _, row := range rows {
		switch {
		case row.MeasuredCount == 0:
			row.Status = RowMissing
		case row.ConformingCount == row.MeasuredCount:
			row.Status = RowConforming
			sheet.Summary.ParametersConforming++
		default:
			row.Status = RowNonConforming
		}
		if row.MeasuredCount > 0 {
			sheet.Summary.ParametersControlled++
		}
		sheet.Rows = append(sheet.Rows, *row)
	}
	sort.Slice(sheet.Rows, func(i, j int) bool {
		a, b := sheet.Rows[i], sheet.Rows[j]
		if a.sortOrder != b.sortOrder {
			return a.sortOrder < b.sortOrder
		}
		return a.ParameterCode < b.ParameterCode
	})
	sheet.Summary.ParametersTotal = len(sheet.Rows)
	if sheet.Summary.ParametersControlled > 0 {
		rate := roundTo(float64(sheet.Summary.ParametersConforming)/float64(sheet.Summary.ParametersControlled)*100, 1)
		sheet.Summary.ConformityRate = &rate
	}
	return sheet, nil
}

func sheetTitle(date string, shift *models.Shift) string {
	title := "CONTROL SHEET - " + date
	if shift != nil {
		title += " - Shift " + string(*shift) + " (" + shift.Label() + ")"
	}
	return title
}

func dailyFileName(date string, shift *models.Shift) string {
	name := "control_sheet_" + strings.ReplaceAll(date, "-", "")
	if shift != nil {
		name += "_" + string(*shift)
	}
	return name + ".xlsx"
}

// DayRow is one day of the weekly report.
type DayRow struct {
	Date           string  `json:"date"`
	Weekday        string  `json:"weekday"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	Skipped        int     `json:"skipped"`
	CompletionRate float64 `json:"completion_rate"`
}

// WeeklySheet is the contract of the weekly report.
type WeeklySheet struct {
	StartDate string   `json:"start_date"`
	Title     string   `json:"title"`
	FileName  string   `json:"file_name"`
	Days      []DayRow `json:"days"`
}

// WeeklySheet summarizes the seven days starting at start.
func (s *Service) WeeklySheet(ctx context.Context, start string) (*WeeklySheet, error) {
	first, err := models.ParseDate(start, time.Local)
	if err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	sheet := &WeeklySheet{
		StartDate: start,
		Title:     "WEEKLY REPORT - week of " + start,
		FileName:  "weekly_report_" + strings.ReplaceAll(start, "-", "") + ".xlsx",
		Days:      make([]DayRow, 0, 7),
	}
	for i := 0; i < 7; i++ {
		day := first.AddDate(0, 0, i)
		summary, err := s.schedule.GetScheduleSummary(ctx, models.FormatDate(day))
		if err != nil {
			return nil, err
		}
		row := DayRow{
			Date:      summary.Date,
			Weekday:   day.Weekday().String(),
			Total:     summary.Total,
			Completed: summary.ByStatus[string(models.ScheduleStatusCompleted)],
			Pending:   summary.ByStatus[string(models.ScheduleStatusPending)],
			Overdue:   summary.ByStatus[string(models.ScheduleStatusOverdue)],
			Skipped:   summary.ByStatus[string(models.ScheduleStatusSkipped)],
		}
		if row.Total > 0 {
			row.CompletionRate = roundTo(float64(row.Completed)/float64(row.Total)*100, 1)
		}
		sheet.Days = append(sheet.Days, row)
	}
	return sheet, nil
}

// SaveInput describes an exported sheet.
type SaveInput struct {
	SheetType   string        `json:"sheet_type" example:"daily"`
	Date        string        `json:"reference_date"`
	Shift       *models.Shift `json:"shift,omitempty"`
	StageID     *string       `json:"stage_id,omitempty"`
	GeneratedBy string        `json:"generated_by"`
	FilePath    string        `json:"file_path"`
}

// SaveSheet records an exported sheet as final.
func (s *Service) SaveSheet(ctx context.Context, in SaveInput) (*models.ControlSheet, error) {
	switch in.SheetType {
	case "daily", "shift", "weekly":
	default:
		return nil, qcerror.Validation("unknown sheet type %q", in.SheetType)
	}
	if in.GeneratedBy == "" {
		return nil, qcerror.Validation("generated_by is required")
	}
	if _, err := models.ParseDate(in.Date, time.Local); err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	sheet := &models.ControlSheet{
		SheetType:     in.SheetType,
		ReferenceDate: in.Date,
		Shift:         in.Shift,
		StageID:       in.StageID,
		GeneratedBy:   in.GeneratedBy,
		FilePath:      in.FilePath,
		Status:        "final",
	}
	if err := s.db.WithContext(ctx).Create(sheet).Error; err != nil {
		return nil, qcerror.Internal(err, "save control sheet")
	}
	return sheet, nil
}

// ListSheets returns the sheet records of a reference date range, newest first.
func (s *Service) ListSheets(ctx context.Context, from, to string) ([]models.ControlSheet, error) {
	q := s.db.WithContext(ctx)
	if from != "" {
		q = q.Where("reference_date >= ?", from)
	}
	if to != "" {
		q = q.Where("reference_date <= ?", to)
	}
	var sheets []models.ControlSheet
	if err := q.Order("created_at DESC").Find(&sheets).Error; err != nil {
		return nil, fmt.Errorf("list control sheets: %w", err)
	}
	return sheets, nil
}

// CleanupSheets deletes sheet records created before cutoff.
func (s *Service) CleanupSheets(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.ControlSheet{})
	if result.Error != nil {
		return 0, fmt.Errorf("cleanup control sheets: %w", result.Error)
	}
	slog.Info("old control sheets removed", "cutoff", cutoff.Format(time.RFC3339), "deleted", result.RowsAffected)
	return result.RowsAffected, nil
}
