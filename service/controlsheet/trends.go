package controlsheet

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// trendDays is the length of the compliance trend window, end date included.
const trendDays = 7

// TrendPoint is the compliance rate of one day.
type TrendPoint struct {
	Date           string   `json:"date"`
	Total          int64    `json:"total"`
	ComplianceRate *float64 `json:"compliance_rate"`
}

// StageDefects holds the average observed percentage per defect category
// over the visual measurements of one stage.
type StageDefects struct {
	StageCode    string             `json:"stage_code"`
	Measurements int                `json:"measurements"`
	Averages     map[string]float64 `json:"averages"`
}

// FormatCount is the number of measurements taken on one tile format.
type FormatCount struct {
	Format string `json:"format"`
	Count  int64  `json:"count"`
}

// dateRange restricts measurement_date to [from, to]; an empty bound is open.
func dateRange(db *gorm.DB, column, from, to string) *gorm.DB {
	if from != "" {
		db = db.Where(column+" >= ?", from)
	}
	if to != "" {
		db = db.Where(column+" <= ?", to)
	}
	return db
}

// WeeklyTrend returns the daily compliance rate of the seven days ending on
// end, oldest first. Days without a known verdict have a nil rate.
func (s *Service) WeeklyTrend(ctx context.Context, end string) ([]TrendPoint, error) {
	last, err := models.ParseDate(end, time.UTC)
	if err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	first := models.FormatDate(last.AddDate(0, 0, -(trendDays - 1)))

	var rows []struct {
		MeasurementDate string
		Total           int64
		Conforming      int64
		NonConforming   int64
	}
	err = s.db.WithContext(ctx).Model(&models.OptimizedMeasurement{}).
		Select(`measurement_date,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_conforming = ? THEN 1 ELSE 0 END), 0) AS conforming,
			COALESCE(SUM(CASE WHEN is_conforming = ? THEN 1 ELSE 0 END), 0) AS non_conforming`, true, false).
		Where("measurement_date BETWEEN ? AND ?", first, end).
		Group("measurement_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate trend: %w", err)
	}
	byDate := make(map[string]int, len(rows))
	for i, row := range rows {
		byDate[row.MeasurementDate] = i
	}

	points := make([]TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		day := models.FormatDate(last.AddDate(0, 0, -i))
		point := TrendPoint{Date: day}
		if idx, ok := byDate[day]; ok {
			row := rows[idx]
			point.Total = row.Total
			if known := row.Conforming + row.NonConforming; known > 0 {
				rate := roundTo(float64(row.Conforming)/float64(known)*100, 1)
				point.ComplianceRate = &rate
			}
		}
		points = append(points, point)
	}
	return points, nil
}

// DefectAnalysis averages the observed defect percentages of visual
// measurements per stage. A category missing from a measurement counts as 0.
func (s *Service) DefectAnalysis(ctx context.Context, from, to string) ([]StageDefects, error) {
	var rows []struct {
		StageCode  string
		JSONValues models.DefectMap `gorm:"column:json_values;type:jsonb"`
	}
	q := s.db.WithContext(ctx).Model(&models.OptimizedMeasurement{}).
		Select("control_stages.code AS stage_code, optimized_measurements.json_values").
		Joins("JOIN control_parameters ON control_parameters.id = optimized_measurements.parameter_id").
		Joins("JOIN control_stages ON control_stages.id = control_parameters.stage_id").
		Where("control_parameters.control_type = ?", models.ControlTypeVisual).
		Where("optimized_measurements.json_values IS NOT NULL")
	err := dateRange(q, "optimized_measurements.measurement_date", from, to).
		Order("control_stages.sort_order, control_stages.code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load defect observations: %w", err)
	}

	out := []StageDefects{}
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].StageCode != row.StageCode {
			out = append(out, StageDefects{StageCode: row.StageCode, Averages: map[string]float64{}})
		}
		stage := &out[len(out)-1]
		stage.Measurements++
		for category, pct := range row.JSONValues {
			stage.Averages[category] += pct
		}
	}
	for i := range out {
		for category, sum := range out[i].Averages {
			out[i].Averages[category] = roundTo(sum/float64(out[i].Measurements), 2)
		}
	}
	return out, nil
}

// FormatDistribution counts measurements per tile format, most used first.
// Measurements without a format are left out.
func (s *Service) FormatDistribution(ctx context.Context, from, to string) ([]FormatCount, error) {
	out := []FormatCount{}
	q := s.db.WithContext(ctx).Model(&models.OptimizedMeasurement{}).
		Select("format, COUNT(*) AS count").
		Where("format IS NOT NULL AND format <> ''")
	err := dateRange(q, "measurement_date", from, to).
		Group("format").
		Order("COUNT(*) DESC, format").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate formats: %w", err)
	}
	return out, nil
}
