package measurement

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceValue(t *testing.T) {
	cases := []struct {
		name string
		ct   models.ControlType
		raw  interface{}
		want models.MeasurementValue
	}{
		{"float", models.ControlTypeNumeric, 3.25, models.NumericValue(3.25)},
		{"numeric string", models.ControlTypeNumeric, "4.1", models.NumericValue(4.1)},
		{"int", models.ControlTypeNumeric, 7, models.NumericValue(7)},
		{"pass", models.ControlTypeBoolean, "PASS", models.BooleanValue(true)},
		{"fail", models.ControlTypeBoolean, "fail", models.BooleanValue(false)},
		{"bool", models.ControlTypeBoolean, true, models.BooleanValue(true)},
		{"category", models.ControlTypeCategorical, " B2 ", models.CategoricalValue("B2")},
		{"defects", models.ControlTypeVisual, map[string]interface{}{"grains": "2.5"}, models.VisualValue{"grains": 2.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CoerceValue(tc.ct, tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoerceValueRejects(t *testing.T) {
	for name, tc := range map[string]struct {
		ct  models.ControlType
		raw interface{}
	}{
		"nil":          {models.ControlTypeNumeric, nil},
		"blank":        {models.ControlTypeCategorical, "  "},
		"word":         {models.ControlTypeNumeric, "wet"},
		"bool numeric": {models.ControlTypeNumeric, true},
		"maybe":        {models.ControlTypeBoolean, "maybe"},
		"not a map":    {models.ControlTypeVisual, 12},
		"negative":     {models.ControlTypeVisual, map[string]interface{}{"grains": -2}},
		"unknown type": {models.ControlType("spectral"), 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CoerceValue(tc.ct, tc.raw)
			assert.True(t, qcerror.IsType(err, qcerror.ErrorTypeValidation), "got %v", err)
		})
	}
}

func TestSubmissionTimingDefaultsToNow(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	date, clock, shift, err := Submission{}.timing(now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", date)
	assert.Equal(t, "14:00", clock)
	assert.Equal(t, models.ShiftB, shift)

	_, clock, shift, err = Submission{MeasurementTime: "5:45"}.timing(now)
	require.NoError(t, err)
	assert.Equal(t, "05:45", clock)
	assert.Equal(t, models.ShiftC, shift)

	_, _, _, err = Submission{MeasurementTime: "25:00"}.timing(now)
	assert.Error(t, err)
}
