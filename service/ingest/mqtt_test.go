package ingest

import (
	"ceramiqc/service/measurement"
	"ceramiqc/service/metrics"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordMeasurement(ctx context.Context, parameterID, operator string, sub measurement.Submission) measurement.Result {
	return m.Called(parameterID, operator, sub).Get(0).(measurement.Result)
}

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) GetParameterByCode(ctx context.Context, code string) (*models.ControlParameter, error) {
	args := m.Called(code)
	p, _ := args.Get(0).(*models.ControlParameter)
	return p, args.Error(1)
}

func newIngestor(rec *MockRecorder, finder *MockFinder) (*Ingestor, *metrics.Collector) {
	m := metrics.NewCollector(prometheus.NewRegistry())
	return &Ingestor{source: "lab-01", recorder: rec, params: finder, metrics: m}, m
}

func TestHandleMessageUsesTopicCode(t *testing.T) {
	rec, finder := &MockRecorder{}, &MockFinder{}
	finder.On("GetParameterByCode", "CLAY_HUM_BEFORE").Return(&models.ControlParameter{ID: "p-1"}, nil)
	rec.On("RecordMeasurement", "p-1", "instrument:lab-01", mock.MatchedBy(func(s measurement.Submission) bool {
		return s.Value == 3.4 && s.MeasurementTime == "10:05"
	})).Return(measurement.Result{Success: true, MeasurementID: "m-1"})
	in, m := newIngestor(rec, finder)

	res := in.HandleMessage(context.Background(), "qc/measurements/CLAY_HUM_BEFORE",
		[]byte(`{"value": 3.4, "measurement_time": "10:05"}`))
	assert.True(t, res.Success)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestedMessages.WithLabelValues("accepted")))
	rec.AssertExpectations(t)
}

func TestHandleMessagePrefersPayloadParameter(t *testing.T) {
	rec, finder := &MockRecorder{}, &MockFinder{}
	rec.On("RecordMeasurement", "p-9", "karim", mock.Anything).
		Return(measurement.Result{Error: "bad value", ErrorType: qcerror.ErrorTypeValidation})
	in, m := newIngestor(rec, finder)

	res := in.HandleMessage(context.Background(), "qc/measurements/IGNORED",
		[]byte(`{"parameter_id": "p-9", "operator_name": "karim", "value": "x"}`))
	assert.False(t, res.Success)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestedMessages.WithLabelValues("rejected")))
	finder.AssertNotCalled(t, "GetParameterByCode", mock.Anything)
}

func TestHandleMessageRejectsBadInput(t *testing.T) {
	rec, finder := &MockRecorder{}, &MockFinder{}
	finder.On("GetParameterByCode", "UNKNOWN").Return(nil, qcerror.NotFound("parameter UNKNOWN not found"))
	in, m := newIngestor(rec, finder)
	ctx := context.Background()

	res := in.HandleMessage(ctx, "qc/measurements/X", []byte(`{not json`))
	assert.Equal(t, qcerror.ErrorTypeValidation, res.ErrorType)

	res = in.HandleMessage(ctx, "qc/measurements/UNKNOWN", []byte(`{"value": 1}`))
	assert.Equal(t, qcerror.ErrorTypeNotFound, res.ErrorType)

	res = in.HandleMessage(ctx, "", []byte(`{"value": 1}`))
	assert.Equal(t, qcerror.ErrorTypeValidation, res.ErrorType)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.IngestedMessages.WithLabelValues("invalid")))
	rec.AssertNotCalled(t, "RecordMeasurement", mock.Anything, mock.Anything, mock.Anything)
}
