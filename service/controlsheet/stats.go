package controlsheet

import (
	"ceramiqc/service/compliance"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
)

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Capability is the process capability of a numeric parameter over a period.
type Capability struct {
	ParameterID string   `json:"parameter_id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Count       int      `json:"count"`
	Mean        *float64 `json:"mean"`
	StdDev      *float64 `json:"std_dev"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	LSL         *float64 `json:"lsl"`
	USL         *float64 `json:"usl"`
	Cp          *float64 `json:"cp"`
	Cpk         *float64 `json:"cpk"`
}

// ComputeCapability derives mean, sample standard deviation, Cp and Cpk of
// values against the limits. Cp needs both limits; Cpk uses whichever exist.
// Both are nil with fewer than two values or no spread.
func ComputeCapability(values []float64, lsl, usl *float64) Capability {
	c := Capability{Count: len(values), LSL: lsl, USL: usl}
	if len(values) == 0 {
		return c
	}
	sum, lo, hi := 0.0, values[0], values[0]
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))
	c.Mean, c.Min, c.Max = &mean, &lo, &hi
	if len(values) < 2 {
		return c
	}
	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	sigma := math.Sqrt(sq / float64(len(values)-1))
	c.StdDev = &sigma
	if sigma == 0 {
		return c
	}
	if lsl != nil && usl != nil {
		cp := roundTo((*usl-*lsl)/(6*sigma), 3)
		c.Cp = &cp
	}
	var cpk *float64
	if usl != nil {
		v := (*usl - mean) / (3 * sigma)
		cpk = &v
	}
	if lsl != nil {
		v := (mean - *lsl) / (3 * sigma)
		if cpk == nil || v < *cpk {
			cpk = &v
		}
	}
	if cpk != nil {
		r := roundTo(*cpk, 3)
		c.Cpk = &r
	}
	return c
}

// ProcessCapability computes Capability for the numeric measurements of a
// parameter between from and to. Limits come from the parameter's resolved
// specification without format or enamel scope, else from the catalog.
func (s *Service) ProcessCapability(ctx context.Context, parameterID, from, to string) (*Capability, error) {
	var param models.ControlParameter
	if err := s.db.WithContext(ctx).First(&param, "id = ?", parameterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qcerror.NotFound("parameter %s not found", parameterID)
		}
		return nil, qcerror.Internal(err, "load parameter")
	}
	if param.ControlType != models.ControlTypeNumeric {
		return nil, qcerror.Validation("parameter %s is not numeric", param.Code)
	}

	bounds := compliance.BoundsFromParameter(&param)
	if param.HasSpecLink() && s.resolver != nil {
		spec, err := s.resolver.Resolve(ctx, param.SpecScope(nil, nil))
		if err != nil {
			return nil, fmt.Errorf("resolve specification: %w", err)
		}
		if spec != nil {
			bounds = compliance.BoundsFromSpecification(spec)
		}
	}

	var values []float64
	err := s.db.WithContext(ctx).Model(&models.OptimizedMeasurement{}).
		Where("parameter_id = ? AND measurement_date BETWEEN ? AND ? AND numeric_value IS NOT NULL", parameterID, from, to).
		Order("measurement_date, measurement_time").
		Pluck("numeric_value", &values).Error
	if err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}

	var lsl, usl *float64
	if bounds != nil {
		lsl, usl = bounds.Min, bounds.Max
		if bounds.Symmetric && bounds.Max != nil {
			for i := range values {
				values[i] = math.Abs(values[i])
			}
			lsl = nil
		}
	}
	c := ComputeCapability(values, lsl, usl)
	c.ParameterID, c.From, c.To = parameterID, from, to
	return &c, nil
}

// StageStats counts one stage's measurements of a day.
type StageStats struct {
	StageCode     string `json:"stage_code"`
	Total         int64  `json:"total"`
	NonConforming int64  `json:"non_conforming"`
}

// DashboardStats is the compliance overview of a day.
type DashboardStats struct {
	Date              string       `json:"date"`
	TotalMeasurements int64        `json:"total_measurements"`
	Conforming        int64        `json:"conforming"`
	NonConforming     int64        `json:"non_conforming"`
	Unknown           int64        `json:"unknown"`
	ComplianceRate    *float64     `json:"compliance_rate"`
	NCCount           int64        `json:"nc_count"`
	ByStage           []StageStats `json:"by_stage"`
}

// Dashboard aggregates the measurements of date. The compliance rate only
// counts measurements with a known verdict.
func (s *Service) Dashboard(ctx context.Context, date string) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{Date: date, ByStage: []StageStats{}}

	var row struct {
		Total         int64
		Conforming    int64
		NonConforming int64
		NCCount       int64
	}
	err := db.Model(&models.OptimizedMeasurement{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_conforming = ? THEN 1 ELSE 0 END), 0) AS conforming,
			COALESCE(SUM(CASE WHEN is_conforming = ? THEN 1 ELSE 0 END), 0) AS non_conforming,
			COUNT(nc_number) AS nc_count`, true, false).
		Where("measurement_date = ?", date).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate measurements: %w", err)
	}
	stats.TotalMeasurements = row.Total
	stats.Conforming = row.Conforming
	stats.NonConforming = row.NonConforming
	stats.Unknown = row.Total - row.Conforming - row.NonConforming
	stats.NCCount = row.NCCount
	if known := row.Conforming + row.NonConforming; known > 0 {
		rate := roundTo(float64(row.Conforming)/float64(known)*100, 1)
		stats.ComplianceRate = &rate
	}

	err = db.Model(&models.OptimizedMeasurement{}).
		Select(`control_stages.code AS stage_code,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN optimized_measurements.is_conforming = ? THEN 1 ELSE 0 END), 0) AS non_conforming`, false).
		Joins("JOIN control_parameters ON control_parameters.id = optimized_measurements.parameter_id").
		Joins("JOIN control_stages ON control_stages.id = control_parameters.stage_id").
		Where("optimized_measurements.measurement_date = ?", date).
		Group("control_stages.code, control_stages.sort_order").
		Order("control_stages.sort_order").
		Scan(&stats.ByStage).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate by stage: %w", err)
	}
	return stats, nil
}
