/*
 * @module service/models/control_catalog
 * @description Production stages and the control parameters measured in each stage
 * @architecture Layered architecture - data model layer
 * @stateFlow created at catalog initialization, rarely mutated
 * @rules Numeric bounds only apply to numeric parameters; defect categories only to visual ones
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/catalog/catalog.go
 */

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ControlStage is an ordered phase of production.
type ControlStage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"code" example:"CLAY"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" example:"Clay control"`
	SortOrder int       `gorm:"not null" json:"sort_order" example:"1"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (ControlStage) TableName() string {
	return "control_stages"
}

// BeforeCreate assigns the primary key.
func (s *ControlStage) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// ControlParameter is one measurable quantity of a stage.
type ControlParameter struct {
	ID                   string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	StageID              string        `gorm:"type:varchar(36);not null;index" json:"stage_id"`
	Stage                *ControlStage `gorm:"foreignKey:StageID" json:"stage,omitempty"`
	Code                 string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"code" example:"CLAY_HUM_BEFORE"`
	Name                 string        `gorm:"type:varchar(150);not null" json:"name"`
	SpecificationText    string        `gorm:"column:specification;type:varchar(255)" json:"specification" example:"2.5% - 4.1%"`
	Unit                 string        `gorm:"type:varchar(20)" json:"unit"`
	FrequencyPerDay      int           `gorm:"not null" json:"frequency_per_day" example:"6"`
	FrequencyDescription string        `gorm:"type:varchar(100)" json:"frequency_description,omitempty"`
	Weekly               bool          `gorm:"not null" json:"weekly"`
	ControlType          ControlType   `gorm:"type:varchar(20);not null" json:"control_type" example:"numeric"`
	MinValue             *float64      `json:"min_value,omitempty"`
	MaxValue             *float64      `json:"max_value,omitempty"`
	TargetValue          *float64      `json:"target_value,omitempty"`
	DefectCategories     DefectMap     `gorm:"type:jsonb" json:"defect_categories,omitempty"`
	Formats              FormatList    `json:"formats,omitempty" swaggertype:"array,string"`
	MethodReference      string        `gorm:"type:varchar(50)" json:"method_reference,omitempty"`
	SpecControlType      *string       `gorm:"type:varchar(50)" json:"spec_control_type,omitempty" example:"clay"`
	SpecParameterName    *string       `gorm:"type:varchar(100)" json:"spec_parameter_name,omitempty" example:"humidity_before_prep"`
	IsActive             bool          `gorm:"not null;index" json:"is_active"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// TableName overrides the table name.
func (ControlParameter) TableName() string {
	return "control_parameters"
}

// BeforeCreate assigns the primary key.
func (p *ControlParameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// HasSpecLink reports whether bounds should be resolved from the specification store.
func (p *ControlParameter) HasSpecLink() bool {
	return p.SpecControlType != nil && p.SpecParameterName != nil
}

// SpecScope builds the store query for a submission's format and enamel type.
func (p *ControlParameter) SpecScope(format, enamelType *string) SpecScope {
	return SpecScope{
		ControlType:   StrValue(p.SpecControlType),
		ParameterName: StrValue(p.SpecParameterName),
		FormatType:    format,
		EnamelType:    enamelType,
	}
}

// Validate enforces the catalog-boundary shape rules.
func (p *ControlParameter) Validate() error {
	if p.Code == "" || p.Name == "" {
		return fmt.Errorf("code and name are required")
	}
	if !p.ControlType.Valid() {
		return fmt.Errorf("unknown control type %q", p.ControlType)
	}
	if p.FrequencyPerDay < 0 {
		return fmt.Errorf("frequency_per_day must not be negative")
	}
	if p.ControlType != ControlTypeNumeric && (p.MinValue != nil || p.MaxValue != nil || p.TargetValue != nil) {
		return fmt.Errorf("numeric bounds are only allowed on numeric parameters")
	}
	if p.MinValue != nil && p.MaxValue != nil && *p.MinValue > *p.MaxValue {
		return fmt.Errorf("min_value %v is greater than max_value %v", *p.MinValue, *p.MaxValue)
	}
	if len(p.DefectCategories) > 0 {
		if p.ControlType != ControlTypeVisual {
			return fmt.Errorf("defect categories are only allowed on visual parameters")
		}
		if err := p.DefectCategories.Validate(); err != nil {
			return err
		}
	}
	if (p.SpecControlType == nil) != (p.SpecParameterName == nil) {
		return fmt.Errorf("spec_control_type and spec_parameter_name must be set together")
	}
	return nil
}
