package measurement

import (
	"ceramiqc/service/models"
	"context"
	"fmt"
)

// ListFilter narrows ListMeasurements. Empty fields match everything; From
// and To bound measurement_date inclusively.
type ListFilter struct {
	ParameterID string
	Date        string
	From        string
	To          string
	Shift       string
	NCOnly      bool
}

// ListMeasurements returns one page of measurements, newest first, with the
// total row count of the filter.
func (r *Recorder) ListMeasurements(ctx context.Context, filter ListFilter, page, size int) ([]models.OptimizedMeasurement, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 500 {
		size = 50
	}

	q := r.db.WithContext(ctx).Model(&models.OptimizedMeasurement{})
	if filter.ParameterID != "" {
		q = q.Where("parameter_id = ?", filter.ParameterID)
	}
	if filter.Date != "" {
		q = q.Where("measurement_date = ?", filter.Date)
	}
	if filter.From != "" {
		q = q.Where("measurement_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("measurement_date <= ?", filter.To)
	}
	if filter.Shift != "" {
		q = q.Where("shift = ?", filter.Shift)
	}
	if filter.NCOnly {
		q = q.Where("nc_number IS NOT NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count measurements: %w", err)
	}
	var rows []models.OptimizedMeasurement
	err := q.Preload("Parameter").
		Order("measurement_date DESC, measurement_time DESC, created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list measurements: %w", err)
	}
	return rows, total, nil
}
