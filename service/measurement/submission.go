/*
 * @module service/measurement/submission
 * @description Raw measurement submissions and their coercion into typed values
 * @architecture Layered architecture - domain service
 * @stateFlow raw JSON value -> CoerceValue(control type) -> models.MeasurementValue
 * @rules An empty value is rejected; booleans accept pass/fail wording
 * @dependencies github.com/spf13/cast
 * @refs service/measurement/recorder.go, service/ingest/mqtt.go
 */

package measurement

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Submission is what an operator, a bulk import or an instrument sends for
// one reading. Timing fields default to the current time when empty.
type Submission struct {
	Value              interface{} `json:"value" swaggertype:"object"`
	IsConforming       *bool       `json:"is_conforming,omitempty"`
	MeasurementDate    string      `json:"measurement_date,omitempty" example:"2025-03-01"`
	MeasurementTime    string      `json:"measurement_time,omitempty" example:"10:05"`
	Shift              string      `json:"shift,omitempty" example:"A"`
	Format             string      `json:"format,omitempty" example:"45x45"`
	EnamelType         string      `json:"enamel_type,omitempty" example:"engobe"`
	LineNumber         string      `json:"line_number,omitempty"`
	OvenNumber         string      `json:"oven_number,omitempty"`
	PressNumber        string      `json:"press_number,omitempty"`
	SampleSize         int         `json:"sample_size,omitempty" example:"1"`
	Observations       string      `json:"observations,omitempty"`
	ScheduledControlID string      `json:"scheduled_control_id,omitempty"`
}

// timing resolves the date, time of day and shift of s at now.
func (s Submission) timing(now time.Time) (date, clock string, shift models.Shift, err error) {
	date = models.FormatDate(now)
	if s.MeasurementDate != "" {
		d, perr := models.ParseDate(s.MeasurementDate, now.Location())
		if perr != nil {
			return "", "", "", qcerror.Validation("%v", perr)
		}
		date = models.FormatDate(d)
	}

	clock = models.FormatClock(now)
	if s.MeasurementTime != "" {
		t, perr := time.Parse(models.ClockLayout, s.MeasurementTime)
		if perr != nil {
			return "", "", "", qcerror.Validation("invalid measurement_time %q, expected HH:MM", s.MeasurementTime)
		}
		clock = models.FormatClock(t)
	}

	if s.Shift != "" {
		shift, err = models.ParseShift(s.Shift)
		if err != nil {
			return "", "", "", qcerror.Validation("%v", err)
		}
		return date, clock, shift, nil
	}
	shift, err = models.ShiftForClock(clock)
	if err != nil {
		return "", "", "", qcerror.Validation("%v", err)
	}
	return date, clock, shift, nil
}

// CoerceValue converts a raw value into the typed value of controlType.
func CoerceValue(controlType models.ControlType, raw interface{}) (models.MeasurementValue, error) {
	if raw == nil {
		return nil, qcerror.Validation("value is required")
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, qcerror.Validation("value is required")
	}

	switch controlType {
	case models.ControlTypeNumeric:
		if _, ok := raw.(bool); ok {
			return nil, qcerror.Validation("numeric value expected, got a boolean")
		}
		v, err := cast.ToFloat64E(raw)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, qcerror.Validation("invalid numeric value %v", raw)
		}
		return models.NumericValue(v), nil

	case models.ControlTypeBoolean:
		if s, ok := raw.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "pass", "ok", "yes", "conforming":
				return models.BooleanValue(true), nil
			case "fail", "nok", "no", "non_conforming":
				return models.BooleanValue(false), nil
			}
		}
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, qcerror.Validation("invalid boolean value %v", raw)
		}
		return models.BooleanValue(v), nil

	case models.ControlTypeCategorical:
		v, err := cast.ToStringE(raw)
		if err != nil {
			return nil, qcerror.Validation("invalid categorical value %v", raw)
		}
		return models.CategoricalValue(strings.TrimSpace(v)), nil

	case models.ControlTypeVisual:
		m, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, qcerror.Validation("visual value must be an object of defect percentages")
		}
		defects := make(models.DefectMap, len(m))
		for category, pct := range m {
			v, err := cast.ToFloat64E(pct)
			if err != nil {
				return nil, qcerror.Validation("invalid percentage %v for defect %q", pct, category)
			}
			defects[category] = v
		}
		if err := defects.Validate(); err != nil {
			return nil, qcerror.Validation("%v", err)
		}
		return models.VisualValue(defects), nil
	}
	return nil, qcerror.Validation("unknown control type %q", controlType)
}
