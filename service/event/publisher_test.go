package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type mockDapr struct {
	mock.Mock
}

func (m *mockDapr) PublishEvent(ctx context.Context, pubsubName, topicName string, data interface{}, opts ...dapr.PublishEventOption) error {
	args := m.Called(pubsubName, topicName, data)
	return args.Error(0)
}

func (m *mockDapr) Close() {}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNonConformity(ctx context.Context, nc NonConformity) error {
	return m.Called(nc).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func sampleNC() NonConformity {
	return NonConformity{
		NCNumber:        "NC-20250301-001",
		MeasurementID:   "m-1",
		ParameterCode:   "CLAY_HUM_BEFORE",
		MeasurementDate: "2025-03-01",
		Messages:        []string{"Humidity Before Prep out of spec (2.5-4.1 %): observed 5"},
		OccurredAt:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "qc.nonconformities"}

	require.NoError(t, p.PublishNonConformity(context.Background(), sampleNC()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "NC-20250301-001", string(w.msgs[0].Key))

	var decoded NonConformity
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "CLAY_HUM_BEFORE", decoded.ParameterCode)

	w.err = errors.New("broker unavailable")
	err := p.PublishNonConformity(context.Background(), sampleNC())
	assert.ErrorContains(t, err, "qc.nonconformities")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestDaprPublisher(t *testing.T) {
	client := &mockDapr{}
	nc := sampleNC()
	client.On("PublishEvent", "pubsub", "qc-nonconformities", nc).Return(nil).Once()
	p := &DaprPublisher{client: client, pubsubName: "pubsub", topic: "qc-nonconformities"}

	require.NoError(t, p.PublishNonConformity(context.Background(), nc))
	client.AssertExpectations(t)
}

func TestComposeAndFanOut(t *testing.T) {
	assert.IsType(t, NoopPublisher{}, Compose())
	assert.IsType(t, NoopPublisher{}, Compose(nil))

	ok := &MockPublisher{}
	failing := &MockPublisher{}
	nc := sampleNC()
	ok.On("PublishNonConformity", nc).Return(nil)
	failing.On("PublishNonConformity", nc).Return(errors.New("down"))

	single := Compose(nil, ok)
	assert.Same(t, ok, single)

	multi := Compose(ok, failing)
	err := multi.PublishNonConformity(context.Background(), nc)
	assert.ErrorContains(t, err, "down")
	ok.AssertNumberOfCalls(t, "PublishNonConformity", 1)
}
