package compliance

import (
	"ceramiqc/service/models"
	"context"
	"fmt"
)

// ParameterVerdict is the evaluation of one catalog parameter reading.
type ParameterVerdict struct {
	Verdict
	Bounds          *Bounds  `json:"bounds,omitempty"`
	Deviation       *float64 `json:"deviation_percentage"`
	SpecificationID *string  `json:"specification_id,omitempty"`
}

// EvaluateParameter evaluates a single reading of p. Numeric parameters
// linked to the specification store use the most specific specification for
// format and enamelType, falling back to the catalog bounds when none
// matches. conforming is only read for categorical parameters.
func (e *Evaluator) EvaluateParameter(ctx context.Context, p *models.ControlParameter, value models.MeasurementValue, format, enamelType *string, conforming *bool) (ParameterVerdict, error) {
	if value == nil {
		return ParameterVerdict{}, fmt.Errorf("no value for parameter %s", p.Code)
	}
	if value.ControlType() != p.ControlType {
		return ParameterVerdict{}, fmt.Errorf("parameter %s expects a %s value, got %s", p.Code, p.ControlType, value.ControlType())
	}

	name := p.Code
	if p.SpecParameterName != nil {
		name = *p.SpecParameterName
	}

	switch v := value.(type) {
	case models.NumericValue:
		out := ParameterVerdict{Bounds: BoundsFromParameter(p)}
		if p.HasSpecLink() {
			spec, err := e.resolver.Resolve(ctx, p.SpecScope(format, enamelType))
			if err != nil {
				return ParameterVerdict{}, fmt.Errorf("resolve specification for %s: %w", p.Code, err)
			}
			if spec != nil {
				out.Bounds = BoundsFromSpecification(spec)
				out.SpecificationID = &spec.ID
			}
		}
		out.Verdict = e.EvaluateNumeric(name, float64(v), out.Bounds)
		if out.Bounds != nil {
			out.Deviation = Deviation(float64(v), out.Bounds.Target)
		}
		return out, nil
	case models.VisualValue:
		return ParameterVerdict{Verdict: e.EvaluateVisual(name, models.DefectMap(v), p.DefectCategories)}, nil
	case models.BooleanValue:
		return ParameterVerdict{Verdict: e.EvaluateBoolean(name, bool(v))}, nil
	case models.CategoricalValue:
		return ParameterVerdict{Verdict: e.EvaluateCategorical(name, string(v), conforming)}, nil
	}
	return ParameterVerdict{}, fmt.Errorf("unsupported value type %T", value)
}
