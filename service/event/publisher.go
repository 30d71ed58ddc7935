/*
 * @module service/event/publisher
 * @description Publishes non-conformity events to Kafka and Dapr pub/sub
 * @architecture Adapter pattern - wraps third-party messaging clients behind one interface
 * @stateFlow recorder commits an NC -> PublishNonConformity -> broker(s)
 * @rules Publishing happens after commit; failures are reported to the caller, which only logs them
 * @dependencies github.com/segmentio/kafka-go, github.com/dapr/go-sdk/client
 * @refs service/measurement/recorder.go, service/container.go
 */

package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/segmentio/kafka-go"
)

// NonConformity is emitted once per issued NC number.
type NonConformity struct {
	NCNumber        string    `json:"nc_number"`
	MeasurementID   string    `json:"measurement_id"`
	ParameterID     string    `json:"parameter_id"`
	ParameterCode   string    `json:"parameter_code"`
	ParameterName   string    `json:"parameter_name"`
	OperatorName    string    `json:"operator_name"`
	MeasurementDate string    `json:"measurement_date"`
	MeasurementTime string    `json:"measurement_time"`
	Shift           string    `json:"shift"`
	Messages        []string  `json:"messages"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher delivers NC events.
type Publisher interface {
	PublishNonConformity(ctx context.Context, nc NonConformity) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishNonConformity(context.Context, NonConformity) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes NC events to one topic keyed by NC number.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           10 * time.Second,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) PublishNonConformity(ctx context.Context, nc NonConformity) error {
	payload, err := json.Marshal(nc)
	if err != nil {
		return fmt.Errorf("encode nc event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(nc.NCNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("qc.nonconformity")},
		},
		Time: nc.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write nc event to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type daprClient interface {
	PublishEvent(ctx context.Context, pubsubName, topicName string, data interface{}, opts ...dapr.PublishEventOption) error
	Close()
}

// DaprPublisher sends NC events through the Dapr sidecar's pub/sub component.
type DaprPublisher struct {
	client     daprClient
	pubsubName string
	topic      string
}

// NewDaprPublisher connects to the local sidecar.
func NewDaprPublisher(pubsubName, topic string) (*DaprPublisher, error) {
	client, err := dapr.NewClient()
	if err != nil {
		return nil, fmt.Errorf("connect dapr sidecar: %w", err)
	}
	return &DaprPublisher{client: client, pubsubName: pubsubName, topic: topic}, nil
}

func (p *DaprPublisher) PublishNonConformity(ctx context.Context, nc NonConformity) error {
	err := p.client.PublishEvent(ctx, p.pubsubName, p.topic, nc, dapr.PublishEventWithContentType("application/json"))
	if err != nil {
		return fmt.Errorf("publish nc event to %s/%s: %w", p.pubsubName, p.topic, err)
	}
	return nil
}

func (p *DaprPublisher) Close() error {
	p.client.Close()
	return nil
}

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) PublishNonConformity(ctx context.Context, nc NonConformity) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishNonConformity(ctx, nc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compose returns the single publisher to use for ps, dropping nils.
func Compose(ps ...Publisher) Publisher {
	var live MultiPublisher
	for _, p := range ps {
		if p != nil {
			live = append(live, p)
		}
	}
	switch len(live) {
	case 0:
		slog.Debug("no nc event publisher configured")
		return NoopPublisher{}
	case 1:
		return live[0]
	}
	return live
}
