package compliance

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, scope models.SpecScope) (*models.Specification, error) {
	args := m.Called(ctx, scope)
	spec, _ := args.Get(0).(*models.Specification)
	return spec, args.Error(1)
}

func fp(v float64) *float64 { return &v }

func TestNumericBoundsAreInclusive(t *testing.T) {
	e := NewEvaluator(nil)
	b := &Bounds{Min: fp(2.5), Max: fp(4.1), Unit: "%"}
	const eps = 1e-9

	for _, v := range []float64{2.5, 3.3, 4.1} {
		assert.Equal(t, StatusCompliant, e.EvaluateNumeric("h", v, b).Status, v)
	}
	for _, v := range []float64{2.5 - eps, 4.1 + eps} {
		verdict := e.EvaluateNumeric("h", v, b)
		assert.Equal(t, StatusNonCompliant, verdict.Status, v)
		assert.False(t, *verdict.IsConforming)
		require.Len(t, verdict.Violations, 1)
	}
}

func TestNumericOneSidedAndMissingBounds(t *testing.T) {
	e := NewEvaluator(nil)

	assert.True(t, *e.EvaluateNumeric("r", 650, &Bounds{Min: fp(600)}).IsConforming)
	assert.False(t, *e.EvaluateNumeric("r", 599, &Bounds{Min: fp(600)}).IsConforming)
	assert.True(t, *e.EvaluateNumeric("x", 1e9, nil).IsConforming)
	assert.True(t, *e.EvaluateNumeric("x", -5, &Bounds{}).IsConforming)
}

func TestSymmetricBoundsUseAbsoluteValue(t *testing.T) {
	e := NewEvaluator(nil)
	b := &Bounds{Max: fp(2), Unit: "mm", Symmetric: true}

	assert.True(t, *e.EvaluateNumeric("veil", -2, b).IsConforming)
	assert.True(t, *e.EvaluateNumeric("veil", 1.5, b).IsConforming)
	verdict := e.EvaluateNumeric("veil", -2.1, b)
	assert.False(t, *verdict.IsConforming)
	assert.Equal(t, "Veil out of spec (±2 mm): observed -2.1", verdict.Violations[0].Message)

	// without the flag the sign matters
	assert.True(t, *e.EvaluateNumeric("veil", -3, &Bounds{Max: fp(2)}).IsConforming)
}

func TestViolationMessage(t *testing.T) {
	e := NewEvaluator(nil)
	verdict := e.EvaluateNumeric("humidity_before_prep", 5, &Bounds{Min: fp(2.5), Max: fp(4.1), Unit: "%"})

	require.Len(t, verdict.Violations, 1)
	v := verdict.Violations[0]
	assert.Equal(t, "Humidity Before Prep out of spec (2.5-4.1 %): observed 5", v.Message)
	assert.Equal(t, 5.0, v.Observed)
	assert.Equal(t, 2.5, *v.Min)
	assert.Equal(t, 4.1, *v.Max)
}

func TestVisualStrictlyExceeds(t *testing.T) {
	e := NewEvaluator(nil)
	thresholds := models.DefectMap{"grains": 15, "cracks": 1}

	verdict := e.EvaluateVisual("PRESS_DEFECTS", models.DefectMap{"grains": 10, "cracks": 2}, thresholds)
	assert.Equal(t, StatusNonCompliant, verdict.Status)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "cracks", verdict.Violations[0].Category)
	assert.Equal(t, 1.0, *verdict.Violations[0].Max)

	verdict = e.EvaluateVisual("PRESS_DEFECTS", models.DefectMap{"grains": 15, "cracks": 1}, thresholds)
	assert.Equal(t, StatusCompliant, verdict.Status)
}

func TestVisualDefaultThreshold(t *testing.T) {
	e := NewEvaluator(nil)
	thresholds := models.DefectMap{"cracks": 1}

	assert.True(t, *e.EvaluateVisual("p", models.DefectMap{"stains": 15}, thresholds).IsConforming)
	verdict := e.EvaluateVisual("p", models.DefectMap{"stains": 15.5}, thresholds)
	assert.False(t, *verdict.IsConforming)
	assert.Equal(t, DefaultDefectThreshold, *verdict.Violations[0].Max)
}

func TestBooleanAndCategorical(t *testing.T) {
	e := NewEvaluator(nil)

	assert.True(t, *e.EvaluateBoolean("glaze_ok", true).IsConforming)
	assert.False(t, *e.EvaluateBoolean("glaze_ok", false).IsConforming)

	unknown := e.EvaluateCategorical("tone", "B", nil)
	assert.Equal(t, StatusUnknown, unknown.Status)
	assert.Nil(t, unknown.IsConforming)
	assert.True(t, *e.EvaluateCategorical("tone", "A", models.BoolPtr(true)).IsConforming)
	assert.False(t, *e.EvaluateCategorical("tone", "C", models.BoolPtr(false)).IsConforming)
}

func TestDeviation(t *testing.T) {
	assert.Equal(t, 10.0, *Deviation(110, fp(100)))
	assert.Equal(t, -10.0, *Deviation(90, fp(100)))
	assert.Equal(t, 51.52, *Deviation(5.0, fp(3.3)))
	assert.Nil(t, Deviation(5, nil))
	assert.Nil(t, Deviation(5, fp(0)))
}

func TestRangeText(t *testing.T) {
	assert.Equal(t, ">=600 N", (&Bounds{Min: fp(600), Unit: "N"}).RangeText())
	assert.Equal(t, "<=1", (&Bounds{Max: fp(1)}).RangeText())
	assert.Equal(t, "unconstrained", (*Bounds)(nil).RangeText())
}

func clayScope(name string) models.SpecScope {
	return models.SpecScope{ControlType: "clay", ParameterName: name}
}

func TestEvaluateRecordAggregates(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, clayScope("humidity_before_prep")).
		Return(&models.Specification{MinValue: fp(2.5), MaxValue: fp(4.1), Unit: "%"}, nil)
	resolver.On("Resolve", mock.Anything, clayScope("humidity_after_sieving")).
		Return(&models.Specification{MinValue: fp(2.0), MaxValue: fp(3.5), Unit: "%"}, nil)
	resolver.On("Resolve", mock.Anything, clayScope("moisture_note")).Return(nil, nil)

	e := NewEvaluator(resolver)
	verdict, err := e.EvaluateRecord(context.Background(), Record{
		ControlType: "clay",
		Observations: []Observation{
			{ParameterName: "humidity_before_prep", Value: fp(5.0)},
			{ParameterName: "humidity_after_sieving", Value: fp(3.0)},
			{ParameterName: "moisture_note", Value: fp(99)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNonCompliant, verdict.Status)
	assert.Equal(t, 3, verdict.Evaluated)
	assert.Equal(t, []string{"moisture_note"}, verdict.Unconstrained)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "humidity_before_prep", verdict.Violations[0].Parameter)
	resolver.AssertExpectations(t)
}

func TestEvaluateRecordPartial(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, clayScope("humidity_before_prep")).
		Return(&models.Specification{MinValue: fp(2.5), MaxValue: fp(4.1)}, nil)

	verdict, err := NewEvaluator(resolver).EvaluateRecord(context.Background(), Record{
		ControlType: "clay",
		Observations: []Observation{
			{ParameterName: "humidity_before_prep", Value: fp(3)},
			{ParameterName: "humidity_after_prep"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, verdict.Status)
	assert.Nil(t, verdict.IsConforming)
	assert.Equal(t, []string{"humidity_after_prep"}, verdict.Missing)
}

func TestEvaluateRecordRuptureUsesThickness(t *testing.T) {
	scopeFor := func(name string) models.SpecScope {
		return models.SpecScope{ControlType: "email_kiln", ParameterName: name}
	}
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, scopeFor("rupture_resistance_thick")).
		Return(&models.Specification{MinValue: fp(600), Unit: "N"}, nil)
	resolver.On("Resolve", mock.Anything, scopeFor("rupture_resistance_thin")).
		Return(&models.Specification{MinValue: fp(200), Unit: "N"}, nil)
	e := NewEvaluator(resolver)

	rec := Record{ControlType: "email_kiln", Observations: []Observation{{ParameterName: "rupture_resistance", Value: fp(400)}}}

	rec.Thickness = fp(7.5)
	verdict, err := e.EvaluateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, verdict.Status)
	assert.Equal(t, "rupture_resistance_thick", verdict.Violations[0].Parameter)

	rec.Thickness = fp(7.4)
	verdict, err = e.EvaluateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, StatusCompliant, verdict.Status)

	rec.Thickness = nil
	_, err = e.EvaluateRecord(context.Background(), rec)
	assert.True(t, qcerror.IsType(err, qcerror.ErrorTypeValidation))
}

func TestEvaluateRecordSurfaceQualityAndInspections(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, models.SpecScope{ControlType: "dimensional", ParameterName: "surface_quality"}).
		Return(&models.Specification{MinValue: fp(95), Unit: "%"}, nil)
	e := NewEvaluator(resolver)

	verdict, err := e.EvaluateRecord(context.Background(), Record{
		ControlType: "dimensional",
		Surface:     &SurfaceSample{TilesTested: 40, DefectFreeTiles: 38},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompliant, verdict.Status)

	verdict, err = e.EvaluateRecord(context.Background(), Record{
		ControlType: "dimensional",
		Surface:     &SurfaceSample{TilesTested: 40, DefectFreeTiles: 37},
		Inspections: map[string]string{"sharpness": "pass", "offset": "FAIL"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNonCompliant, verdict.Status)
	require.Len(t, verdict.Violations, 2)
	assert.Equal(t, "surface_quality", verdict.Violations[0].Parameter)
	assert.Equal(t, "offset", verdict.Violations[1].Parameter)

	_, err = e.EvaluateRecord(context.Background(), Record{ControlType: "dimensional", Inspections: map[string]string{"tonality": "maybe"}})
	assert.True(t, qcerror.IsType(err, qcerror.ErrorTypeValidation))
}

func TestEvaluateRecordResolverFailure(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewEvaluator(resolver).EvaluateRecord(context.Background(), Record{
		ControlType:  "clay",
		Observations: []Observation{{ParameterName: "x", Value: fp(1)}},
	})
	assert.Error(t, err)
	assert.False(t, qcerror.IsType(err, qcerror.ErrorTypeValidation))
}
