package compliance

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"fmt"
	"sort"
	"strings"
)

// RuptureThicknessSplit separates thick from thin tiles for rupture specifications, in mm.
const RuptureThicknessSplit = 7.5

// Observation is one named value of a composite record. A nil value was
// declared but not measured.
type Observation struct {
	ParameterName string   `json:"parameter_name"`
	Value         *float64 `json:"value"`
}

// SurfaceSample feeds the derived surface-quality check.
type SurfaceSample struct {
	TilesTested     int `json:"tiles_tested"`
	DefectFreeTiles int `json:"defect_free_tiles"`
}

// Record is a multi-parameter submission evaluated as one unit, e.g. every
// humidity reading of a clay preparation.
type Record struct {
	ControlType  string            `json:"control_type"`
	FormatType   *string           `json:"format_type,omitempty"`
	EnamelType   *string           `json:"enamel_type,omitempty"`
	Observations []Observation     `json:"observations"`
	Thickness    *float64          `json:"thickness,omitempty"`   // selects _thick/_thin rupture rules
	Surface      *SurfaceSample    `json:"surface,omitempty"`     // defect-free ratio against surface_quality
	Inspections  map[string]string `json:"inspections,omitempty"` // pass/fail flags
}

// RecordVerdict extends Verdict with the checks that were skipped.
type RecordVerdict struct {
	Verdict
	Evaluated     int      `json:"evaluated"`
	Missing       []string `json:"missing"`
	Unconstrained []string `json:"unconstrained"`
}

// EvaluateRecord evaluates every observation against its own resolved
// specification. The record is non-compliant if any check fails, partial
// when nothing failed but some declared observation had no value, and
// compliant otherwise.
func (e *Evaluator) EvaluateRecord(ctx context.Context, rec Record) (RecordVerdict, error) {
	out := RecordVerdict{Missing: []string{}, Unconstrained: []string{}}
	if rec.ControlType == "" {
		return out, qcerror.Validation("control_type is required")
	}
	var violations []Violation

	for _, obs := range rec.Observations {
		if obs.Value == nil {
			out.Missing = append(out.Missing, obs.ParameterName)
			continue
		}
		name, err := e.ruleName(obs.ParameterName, rec.Thickness)
		if err != nil {
			return out, err
		}
		b, err := e.resolveBounds(ctx, rec, name)
		if err != nil {
			return out, err
		}
		if b == nil {
			out.Unconstrained = append(out.Unconstrained, name)
		}
		out.Evaluated++
		violations = append(violations, e.EvaluateNumeric(name, *obs.Value, b).Violations...)
	}

	if rec.Surface != nil {
		if rec.Surface.TilesTested <= 0 {
			return out, qcerror.Validation("tiles_tested must be positive")
		}
		if rec.Surface.DefectFreeTiles < 0 || rec.Surface.DefectFreeTiles > rec.Surface.TilesTested {
			return out, qcerror.Validation("defect_free_tiles must be between 0 and tiles_tested")
		}
		pct := float64(rec.Surface.DefectFreeTiles) / float64(rec.Surface.TilesTested) * 100
		b, err := e.resolveBounds(ctx, rec, "surface_quality")
		if err != nil {
			return out, err
		}
		out.Evaluated++
		violations = append(violations, e.EvaluateNumeric("surface_quality", pct, b).Violations...)
	}

	for _, name := range sortedKeys(rec.Inspections) {
		switch strings.ToLower(strings.TrimSpace(rec.Inspections[name])) {
		case "pass":
			out.Evaluated++
		case "fail":
			out.Evaluated++
			violations = append(violations, e.EvaluateBoolean(name, false).Violations...)
		case "":
			out.Missing = append(out.Missing, name)
		default:
			return out, qcerror.Validation("inspection %s: expected pass or fail, got %q", name, rec.Inspections[name])
		}
	}

	out.Verdict = verdictFrom(violations)
	if len(violations) == 0 && len(out.Missing) > 0 {
		out.Status = StatusPartial
		out.IsConforming = nil
	}
	return out, nil
}

// ruleName maps rupture observations onto their thickness-specific rule.
func (e *Evaluator) ruleName(name string, thickness *float64) (string, error) {
	if name != "rupture_resistance" && name != "rupture_module" {
		return name, nil
	}
	if thickness == nil {
		return "", qcerror.Validation("%s requires the tile thickness", name)
	}
	if *thickness >= RuptureThicknessSplit {
		return name + "_thick", nil
	}
	return name + "_thin", nil
}

func (e *Evaluator) resolveBounds(ctx context.Context, rec Record, name string) (*Bounds, error) {
	if e.resolver == nil {
		return nil, nil
	}
	spec, err := e.resolver.Resolve(ctx, models.SpecScope{
		ControlType:   rec.ControlType,
		ParameterName: name,
		FormatType:    rec.FormatType,
		EnamelType:    rec.EnamelType,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s/%s: %w", rec.ControlType, name, err)
	}
	return BoundsFromSpecification(spec), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
