/*
 * @module service/ingest/mqtt
 * @description Receives lab-instrument readings over MQTT and records them as measurements
 * @architecture Adapter pattern - MQTT subscription in front of the measurement recorder
 * @stateFlow broker message -> decode -> resolve parameter -> RecordMeasurement -> metrics/log
 * @rules The parameter comes from the payload or the last topic segment; bad messages are dropped, never retried
 * @dependencies github.com/eclipse/paho.mqtt.golang
 * @refs service/measurement/recorder.go, service/container.go
 */

package ingest

import (
	"ceramiqc/service/config"
	"ceramiqc/service/measurement"
	"ceramiqc/service/metrics"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const handleTimeout = 15 * time.Second

// Recorder stores readings.
type Recorder interface {
	RecordMeasurement(ctx context.Context, parameterID, operator string, sub measurement.Submission) measurement.Result
}

// ParameterFinder maps instrument parameter codes to catalog ids.
type ParameterFinder interface {
	GetParameterByCode(ctx context.Context, code string) (*models.ControlParameter, error)
}

// InstrumentMessage is the JSON payload published by an instrument.
type InstrumentMessage struct {
	ParameterID   string `json:"parameter_id,omitempty"`
	ParameterCode string `json:"parameter_code,omitempty"`
	OperatorName  string `json:"operator_name,omitempty"`
	measurement.Submission
}

// Ingestor subscribes to the instrument topic.
type Ingestor struct {
	client   mqtt.Client
	topic    string
	qos      byte
	source   string
	recorder Recorder
	params   ParameterFinder
	metrics  *metrics.Collector
}

// NewMQTTIngestor builds an ingestor for cfg; nothing connects until Start.
func NewMQTTIngestor(cfg config.MQTTConfig, recorder Recorder, params ParameterFinder, m *metrics.Collector) *Ingestor {
	in := &Ingestor{
		topic:    cfg.Topic,
		qos:      byte(cfg.QoS),
		source:   cfg.ClientID,
		recorder: recorder,
		params:   params,
		metrics:  m,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(false)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(in.onConnected)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
	})
	in.client = mqtt.NewClient(opts)
	return in
}

// Start connects to the broker; subscription happens on every (re)connect.
func (in *Ingestor) Start() error {
	token := in.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Stop disconnects, letting in-flight handlers finish for up to 250ms.
func (in *Ingestor) Stop() {
	if in.client.IsConnected() {
		in.client.Disconnect(250)
	}
}

func (in *Ingestor) onConnected(client mqtt.Client) {
	token := client.Subscribe(in.topic, in.qos, func(_ mqtt.Client, msg mqtt.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		in.HandleMessage(ctx, msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		slog.Error("mqtt subscribe failed", "topic", in.topic, "error", token.Error())
		return
	}
	slog.Info("mqtt subscribed", "topic", in.topic)
}

// HandleMessage decodes and records one instrument message.
func (in *Ingestor) HandleMessage(ctx context.Context, topic string, payload []byte) measurement.Result {
	var msg InstrumentMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		in.metrics.MessageIngested("invalid")
		slog.Warn("invalid instrument message", "topic", topic, "error", err)
		return measurement.Result{Error: "invalid payload: " + err.Error(), ErrorType: qcerror.ErrorTypeValidation}
	}

	parameterID, err := in.parameterID(ctx, topic, msg)
	if err != nil {
		in.metrics.MessageIngested("invalid")
		slog.Warn("instrument message without known parameter", "topic", topic, "error", err)
		return measurement.Result{Error: err.Error(), ErrorType: qcerror.TypeOf(err)}
	}

	operator := msg.OperatorName
	if operator == "" {
		operator = "instrument:" + in.source
	}
	res := in.recorder.RecordMeasurement(ctx, parameterID, operator, msg.Submission)
	if res.Success {
		in.metrics.MessageIngested("accepted")
	} else {
		in.metrics.MessageIngested("rejected")
	}
	return res
}

// parameterID picks the explicit id, then the payload code, then the last
// topic segment as a code.
func (in *Ingestor) parameterID(ctx context.Context, topic string, msg InstrumentMessage) (string, error) {
	if msg.ParameterID != "" {
		return msg.ParameterID, nil
	}
	code := msg.ParameterCode
	if code == "" {
		if i := strings.LastIndex(topic, "/"); i >= 0 {
			code = topic[i+1:]
		}
	}
	if code == "" {
		return "", qcerror.Validation("message names no parameter")
	}
	param, err := in.params.GetParameterByCode(ctx, code)
	if err != nil {
		return "", err
	}
	return param.ID, nil
}
