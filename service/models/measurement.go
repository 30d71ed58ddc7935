/*
 * @module service/models/measurement
 * @description Recorded observations and the tagged value union stored in them
 * @architecture Layered architecture - data model layer
 * @stateFlow created by the recorder, immutable afterwards
 * @rules Exactly one value column is populated, chosen by the parameter control type
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/measurement/recorder.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementValue is the observed value of one measurement. The concrete
// type selects the column it is persisted in.
type MeasurementValue interface {
	ControlType() ControlType
	isMeasurementValue()
}

// NumericValue is a numeric reading.
type NumericValue float64

// CategoricalValue is a free-text category selection.
type CategoricalValue string

// BooleanValue is a pass/fail reading.
type BooleanValue bool

// VisualValue maps defect categories to observed percentages.
type VisualValue DefectMap

func (NumericValue) ControlType() ControlType     { return ControlTypeNumeric }
func (CategoricalValue) ControlType() ControlType { return ControlTypeCategorical }
func (BooleanValue) ControlType() ControlType     { return ControlTypeBoolean }
func (VisualValue) ControlType() ControlType      { return ControlTypeVisual }

func (NumericValue) isMeasurementValue()     {}
func (CategoricalValue) isMeasurementValue() {}
func (BooleanValue) isMeasurementValue()     {}
func (VisualValue) isMeasurementValue()      {}

// OptimizedMeasurement is one recorded observation.
type OptimizedMeasurement struct {
	ID                  string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	ParameterID         string            `gorm:"type:varchar(36);not null;index" json:"parameter_id"`
	Parameter           *ControlParameter `gorm:"foreignKey:ParameterID" json:"parameter,omitempty"`
	OperatorName        string            `gorm:"type:varchar(100);not null" json:"operator_name"`
	MeasurementDate     string            `gorm:"type:varchar(10);not null;index" json:"measurement_date" example:"2025-03-01"`
	MeasurementTime     string            `gorm:"type:varchar(5);not null" json:"measurement_time" example:"10:05"`
	Shift               Shift             `gorm:"type:varchar(2);not null" json:"shift"`
	Format              *string           `gorm:"type:varchar(20)" json:"format,omitempty"`
	EnamelType          *string           `gorm:"type:varchar(20)" json:"enamel_type,omitempty"`
	LineNumber          *string           `gorm:"type:varchar(20)" json:"line_number,omitempty"`
	OvenNumber          *string           `gorm:"type:varchar(20)" json:"oven_number,omitempty"`
	PressNumber         *string           `gorm:"type:varchar(20)" json:"press_number,omitempty"`
	NumericValue        *float64          `json:"numeric_value,omitempty"`
	TextValue           *string           `gorm:"type:varchar(255)" json:"text_value,omitempty"`
	BooleanValue        *bool             `json:"boolean_value,omitempty"`
	JSONValues          DefectMap         `gorm:"column:json_values;type:jsonb" json:"json_values,omitempty"`
	IsConforming        *bool             `json:"is_conforming"`
	DeviationPercentage *float64          `json:"deviation_percentage"`
	SampleSize          int               `gorm:"not null" json:"sample_size"`
	NCNumber            *string           `gorm:"column:nc_number;type:varchar(20);uniqueIndex" json:"nc_number,omitempty"`
	Observations        string            `gorm:"type:text" json:"observations,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// TableName overrides the table name.
func (OptimizedMeasurement) TableName() string {
	return "optimized_measurements"
}

// BeforeCreate assigns the primary key.
func (m *OptimizedMeasurement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// SetValue stores v in its column and clears the other three.
func (m *OptimizedMeasurement) SetValue(v MeasurementValue) {
	m.NumericValue, m.TextValue, m.BooleanValue, m.JSONValues = nil, nil, nil, nil
	switch val := v.(type) {
	case NumericValue:
		f := float64(val)
		m.NumericValue = &f
	case CategoricalValue:
		s := string(val)
		m.TextValue = &s
	case BooleanValue:
		b := bool(val)
		m.BooleanValue = &b
	case VisualValue:
		m.JSONValues = DefectMap(val)
	}
}

// MeasuredValue returns the populated column as a MeasurementValue, or nil.
func (m *OptimizedMeasurement) MeasuredValue() MeasurementValue {
	switch {
	case m.NumericValue != nil:
		return NumericValue(*m.NumericValue)
	case m.TextValue != nil:
		return CategoricalValue(*m.TextValue)
	case m.BooleanValue != nil:
		return BooleanValue(*m.BooleanValue)
	case m.JSONValues != nil:
		return VisualValue(m.JSONValues)
	}
	return nil
}

// ControlSheet records an exported control sheet.
type ControlSheet struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SheetType     string    `gorm:"type:varchar(20);not null" json:"sheet_type" example:"daily"`
	ReferenceDate string    `gorm:"type:varchar(10);not null;index" json:"reference_date"`
	Shift         *Shift    `gorm:"type:varchar(2)" json:"shift,omitempty"`
	StageID       *string   `gorm:"type:varchar(36)" json:"stage_id,omitempty"`
	GeneratedBy   string    `gorm:"type:varchar(100);not null" json:"generated_by"`
	FilePath      string    `gorm:"type:varchar(255)" json:"file_path,omitempty"`
	Status        string    `gorm:"type:varchar(20);not null" json:"status" example:"final"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name.
func (ControlSheet) TableName() string {
	return "control_sheets"
}

// BeforeCreate assigns the primary key.
func (s *ControlSheet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
