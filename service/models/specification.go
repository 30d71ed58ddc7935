/*
 * @module service/models/specification
 * @description Specification model: min/max/target rules keyed by control type, parameter, format and enamel type
 * @architecture Layered architecture - data model layer
 * @stateFlow created -> edited -> deactivated/reactivated (soft delete via is_active)
 * @rules At most one active row per exact scope tuple; NULL format/enamel type is a wildcard
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/specification/store.go
 */

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specification holds the bounds that apply to one scope.
type Specification struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ControlType   string    `gorm:"type:varchar(50);not null;index:idx_spec_scope" json:"control_type" example:"press"`
	ParameterName string    `gorm:"type:varchar(100);not null;index:idx_spec_scope" json:"parameter_name" example:"thickness"`
	FormatType    *string   `gorm:"type:varchar(20)" json:"format_type,omitempty" example:"25x40"`
	EnamelType    *string   `gorm:"type:varchar(20)" json:"enamel_type,omitempty" example:"engobe"`
	MinValue      *float64  `json:"min_value,omitempty" example:"6.8"`
	MaxValue      *float64  `json:"max_value,omitempty" example:"7.4"`
	TargetValue   *float64  `json:"target_value,omitempty" example:"7.1"`
	Unit          string    `gorm:"type:varchar(20)" json:"unit" example:"mm"`
	Symmetric     bool      `gorm:"not null" json:"symmetric"` // evaluate |value|, for ± tolerances around zero
	Constraints   JSONB     `gorm:"type:jsonb" json:"constraints,omitempty" swaggertype:"object"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	Description   string    `gorm:"type:text" json:"description"`
	CreatedBy     string    `gorm:"type:varchar(100);not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Specification) TableName() string {
	return "specifications"
}

// BeforeCreate assigns identity and audit defaults only.
func (s *Specification) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedBy == "" {
		s.CreatedBy = "system"
	}
	return nil
}

// SpecScope identifies what a specification applies to.
type SpecScope struct {
	ControlType   string  `json:"control_type"`
	ParameterName string  `json:"parameter_name"`
	FormatType    *string `json:"format_type,omitempty"`
	EnamelType    *string `json:"enamel_type,omitempty"`
}

func (s SpecScope) String() string {
	return fmt.Sprintf("%s/%s[format=%s,enamel=%s]", s.ControlType, s.ParameterName,
		orWildcard(s.FormatType), orWildcard(s.EnamelType))
}

func orWildcard(p *string) string {
	if p == nil {
		return "*"
	}
	return *p
}

// Scope returns the scope tuple of the specification.
func (s *Specification) Scope() SpecScope {
	return SpecScope{
		ControlType:   s.ControlType,
		ParameterName: s.ParameterName,
		FormatType:    s.FormatType,
		EnamelType:    s.EnamelType,
	}
}

// SameScope reports whether the specification has exactly the given tuple
// (NULL equals NULL). This is the duplicate-detection rule.
func (s *Specification) SameScope(scope SpecScope) bool {
	return s.ControlType == scope.ControlType &&
		s.ParameterName == scope.ParameterName &&
		equalNullable(s.FormatType, scope.FormatType) &&
		equalNullable(s.EnamelType, scope.EnamelType)
}

// Matches reports whether the specification applies to a query. A NULL
// dimension on the row is a wildcard; a set dimension only matches an equal query value.
func (s *Specification) Matches(query SpecScope) bool {
	if s.ControlType != query.ControlType || s.ParameterName != query.ParameterName {
		return false
	}
	return dimensionMatches(s.FormatType, query.FormatType) &&
		dimensionMatches(s.EnamelType, query.EnamelType)
}

// Specificity counts the scoped (non-wildcard) dimensions of the row.
func (s *Specification) Specificity() int {
	n := 0
	if s.FormatType != nil {
		n++
	}
	if s.EnamelType != nil {
		n++
	}
	return n
}

// Validate checks the bound ordering.
func (s *Specification) Validate() error {
	if s.ControlType == "" || s.ParameterName == "" {
		return fmt.Errorf("control_type and parameter_name are required")
	}
	if s.MinValue != nil && s.MaxValue != nil && *s.MinValue > *s.MaxValue {
		return fmt.Errorf("min_value %v is greater than max_value %v", *s.MinValue, *s.MaxValue)
	}
	return nil
}

func dimensionMatches(row, query *string) bool {
	if row == nil {
		return true
	}
	return query != nil && *row == *query
}

func equalNullable(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
