/*
 * @module service/event/publisher
 * @description Dataset lifecycle notifications fanned out to Kafka, MQTT and in-process
 *              SSE subscribers
 * @architecture Strategy - one Publisher interface, backend chosen from configuration
 * @documentReference DESIGN.md
 * @stateFlow dataset load finished -> DatasetEvent -> Publish on every configured backend
 * @rules Publish errors are returned to the caller, which logs them; a reload never fails on them
 * @dependencies client/connectors, service/config
 * @refs service/dataset/service.go, service/event/broadcaster.go
 */

package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peer-funding-service/client/connectors"
	"peer-funding-service/service/config"
)

// Event types
const (
	TypeDatasetReloaded   = "dataset.reloaded"
	TypeDatasetLoadFailed = "dataset.load_failed"
)

// DatasetEvent announces the outcome of a dataset load.
type DatasetEvent struct {
	Type         string    `json:"type" example:"dataset.reloaded"`
	VersionID    string    `json:"version_id,omitempty"`
	Districts    int       `json:"districts"`
	CoverageRows int       `json:"coverage_rows"`
	Error        string    `json:"error,omitempty"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// Publisher delivers dataset events.
type Publisher interface {
	Publish(ctx context.Context, evt DatasetEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, DatasetEvent) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

// KafkaPublisher produces events keyed by version id.
type KafkaPublisher struct {
	connector *connectors.KafkaConnector
}

// NewKafkaPublisher connects a producer to the configured topic.
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	connector := connectors.NewKafkaConnector(connectors.KafkaConfig{
		Brokers:       cfg.Brokers,
		Topic:         cfg.Topic,
		RequiredAcks:  1,
		CustomHeaders: map[string]string{"source": "peer-funding-service"},
	})
	if err := connector.Connect(); err != nil {
		return nil, err
	}
	return &KafkaPublisher{connector: connector}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt DatasetEvent) error {
	return p.connector.Produce(ctx, evt.VersionID, evt, map[string]string{"type": evt.Type})
}

func (p *KafkaPublisher) Close() error {
	return p.connector.Disconnect()
}

// MQTTPublisher publishes events with QoS 1.
type MQTTPublisher struct {
	connector *connectors.MQTTConnector
}

// NewMQTTPublisher connects to the configured broker.
func NewMQTTPublisher(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	connector := connectors.NewMQTTConnector(connectors.MQTTConfig{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Username: cfg.Username,
		Password: cfg.Password,
		Topic:    cfg.Topic,
		QoS:      1,
	})
	if err := connector.Connect(); err != nil {
		return nil, err
	}
	return &MQTTPublisher{connector: connector}, nil
}

func (p *MQTTPublisher) Publish(_ context.Context, evt DatasetEvent) error {
	return p.connector.Publish(evt)
}

func (p *MQTTPublisher) Close() error {
	return p.connector.Disconnect()
}

// MultiPublisher publishes to every wrapped publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, evt DatasetEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
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

// NewPublisher builds the external publisher selected by cfg.Event.Backend.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.Event.Backend {
	case config.EventBackendNone, "":
		return NoopPublisher{}, nil
	case config.EventBackendKafka:
		p, err := NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		return p, nil
	case config.EventBackendMQTT:
		p, err := NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported event backend %q", cfg.Event.Backend)
	}
}
