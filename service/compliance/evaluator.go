/*
 * @module service/compliance/evaluator
 * @description Compliance evaluation: numeric bounds, visual defect thresholds, pass/fail and composite records
 * @architecture Layered architecture - domain service (pure evaluation, resolver injected)
 * @stateFlow observation -> bounds (specification or catalog) -> verdict with violations
 * @rules Bounds are inclusive; missing bounds are ignored; no specification means unconstrained
 * @dependencies golang.org/x/text/cases, ceramiqc/service/specification
 * @refs service/measurement/recorder.go, api/controllers/compliance_controller.go
 */

package compliance

import (
	"ceramiqc/service/models"
	"ceramiqc/service/specification"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDefectThreshold applies to a defect category that is observed but
// has no threshold in the catalog.
const DefaultDefectThreshold = 15.0

// Status is the outcome of an evaluation.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
	StatusPartial      Status = "partial"
	StatusUnknown      Status = "unknown"
)

// Bounds is the numeric rule applied to one value.
type Bounds struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Target    *float64 `json:"target,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Symmetric bool     `json:"symmetric,omitempty"`
}

// BoundsFromSpecification converts a resolved specification; nil stays nil.
func BoundsFromSpecification(spec *models.Specification) *Bounds {
	if spec == nil {
		return nil
	}
	return &Bounds{Min: spec.MinValue, Max: spec.MaxValue, Target: spec.TargetValue, Unit: spec.Unit, Symmetric: spec.Symmetric}
}

// BoundsFromParameter uses the catalog bounds of a numeric parameter.
func BoundsFromParameter(p *models.ControlParameter) *Bounds {
	if p.MinValue == nil && p.MaxValue == nil && p.TargetValue == nil {
		return nil
	}
	return &Bounds{Min: p.MinValue, Max: p.MaxValue, Target: p.TargetValue, Unit: p.Unit}
}

// Contains reports whether v satisfies the bounds.
func (b *Bounds) Contains(v float64) bool {
	if b == nil {
		return true
	}
	if b.Symmetric {
		v = math.Abs(v)
	}
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// RangeText renders the bounds for operators, e.g. "2.5-4.1 %" or "±2 mm".
func (b *Bounds) RangeText() string {
	if b == nil {
		return "unconstrained"
	}
	var text string
	switch {
	case b.Symmetric && b.Max != nil:
		text = "±" + formatNumber(*b.Max)
	case b.Min != nil && b.Max != nil:
		text = formatNumber(*b.Min) + "-" + formatNumber(*b.Max)
	case b.Min != nil:
		text = ">=" + formatNumber(*b.Min)
	case b.Max != nil:
		text = "<=" + formatNumber(*b.Max)
	default:
		return "unconstrained"
	}
	if b.Unit != "" {
		text += " " + b.Unit
	}
	return text
}

// Violation describes one failed check.
type Violation struct {
	Parameter string      `json:"parameter"`
	Category  string      `json:"category,omitempty"`
	Observed  interface{} `json:"observed"`
	Min       *float64    `json:"min,omitempty"`
	Max       *float64    `json:"max,omitempty"`
	Unit      string      `json:"unit,omitempty"`
	Message   string      `json:"message"`
}

// Verdict is the result of an evaluation.
type Verdict struct {
	Status       Status      `json:"status"`
	IsConforming *bool       `json:"is_conforming"`
	Violations   []Violation `json:"violations"`
}

func verdictFrom(violations []Violation) Verdict {
	if len(violations) > 0 {
		return Verdict{Status: StatusNonCompliant, IsConforming: models.BoolPtr(false), Violations: violations}
	}
	return Verdict{Status: StatusCompliant, IsConforming: models.BoolPtr(true), Violations: []Violation{}}
}

// Evaluator applies specifications to observations.
type Evaluator struct {
	resolver specification.Resolver
}

// NewEvaluator creates an evaluator resolving record specifications through resolver.
func NewEvaluator(resolver specification.Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// DisplayName turns "humidity_before_prep" into "Humidity Before Prep".
// Casers keep state, so each call gets its own.
func (e *Evaluator) DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// EvaluateNumeric checks value against b. Nil bounds always conform.
func (e *Evaluator) EvaluateNumeric(parameter string, value float64, b *Bounds) Verdict {
	if b.Contains(value) {
		return verdictFrom(nil)
	}
	v := Violation{
		Parameter: parameter,
		Observed:  value,
		Min:       b.Min,
		Max:       b.Max,
		Unit:      b.Unit,
		Message:   fmt.Sprintf("%s out of spec (%s): observed %s", e.DisplayName(parameter), b.RangeText(), formatNumber(value)),
	}
	return verdictFrom([]Violation{v})
}

// EvaluateVisual checks each observed defect percentage against its threshold,
// falling back to DefaultDefectThreshold. A category fails only when it
// strictly exceeds its threshold.
func (e *Evaluator) EvaluateVisual(parameter string, observed, thresholds models.DefectMap) Verdict {
	var violations []Violation
	for _, category := range observed.Categories() {
		pct := observed[category]
		limit, ok := thresholds[category]
		if !ok {
			limit = DefaultDefectThreshold
		}
		if pct > limit {
			threshold := limit
			violations = append(violations, Violation{
				Parameter: parameter,
				Category:  category,
				Observed:  pct,
				Max:       &threshold,
				Unit:      "%",
				Message: fmt.Sprintf("%s defects exceed limit (%s%%): observed %s%%",
					e.DisplayName(category), formatNumber(limit), formatNumber(pct)),
			})
		}
	}
	return verdictFrom(violations)
}

// EvaluateBoolean conforms iff pass is true.
func (e *Evaluator) EvaluateBoolean(parameter string, pass bool) Verdict {
	if pass {
		return verdictFrom(nil)
	}
	return verdictFrom([]Violation{{
		Parameter: parameter,
		Observed:  false,
		Message:   fmt.Sprintf("%s failed", e.DisplayName(parameter)),
	}})
}

// EvaluateCategorical uses the caller's conformity; nil is unknown.
func (e *Evaluator) EvaluateCategorical(parameter string, value string, conforming *bool) Verdict {
	if conforming == nil {
		return Verdict{Status: StatusUnknown, Violations: []Violation{}}
	}
	if *conforming {
		return verdictFrom(nil)
	}
	return verdictFrom([]Violation{{
		Parameter: parameter,
		Observed:  value,
		Message:   fmt.Sprintf("%s marked non-conforming: %s", e.DisplayName(parameter), value),
	}})
}

// Deviation returns ((observed-target)/target)*100 rounded to 2 decimals, or
// nil when target is nil or zero.
func Deviation(observed float64, target *float64) *float64 {
	if target == nil || *target == 0 {
		return nil
	}
	d := math.Round((observed-*target) / *target * 100 * 100) / 100
	return &d
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
