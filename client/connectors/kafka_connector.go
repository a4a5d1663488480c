/*
 * @module KafkaConnector
 * @description Kafka producer wrapper used to announce dataset reloads
 * @architecture Adapter - wraps the third-party Kafka client behind a small produce API
 * @documentReference DESIGN.md
 * @stateFlow Connect (writer created) -> Produce -> Disconnect (writer flushed and closed)
 * @rules Values are JSON-encoded unless already []byte or string; Produce before Connect fails
 * @dependencies github.com/segmentio/kafka-go, encoding/json, log/slog
 * @refs service/event/publisher.go
 */
package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrNotConnected is returned by connectors used before Connect.
var ErrNotConnected = errors.New("connector not connected")

// KafkaConfig configures the producer.
type KafkaConfig struct {
	Brokers       []string          `json:"brokers"`
	Topic         string            `json:"topic"`
	RequiredAcks  int               `json:"required_acks"` // -1 all, 0 none, 1 leader
	BatchTimeout  time.Duration     `json:"batch_timeout"`
	WriteTimeout  time.Duration     `json:"write_timeout"`
	CustomHeaders map[string]string `json:"custom_headers"`
}

// KafkaConnector produces messages to one topic.
type KafkaConnector struct {
	config      KafkaConfig
	writer      *kafka.Writer
	mutex       sync.RWMutex
	isConnected bool
}

// NewKafkaConnector creates an unconnected connector.
func NewKafkaConnector(config KafkaConfig) *KafkaConnector {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 50 * time.Millisecond
	}
	return &KafkaConnector{config: config}
}

// Connect creates the writer. kafka-go dials lazily, so broker reachability is
// only known on the first Produce.
func (kc *KafkaConnector) Connect() error {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()

	if kc.isConnected {
		return nil
	}
	if len(kc.config.Brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}
	if kc.config.Topic == "" {
		return fmt.Errorf("kafka: no topic configured")
	}

	kc.writer = &kafka.Writer{
		Addr:         kafka.TCP(kc.config.Brokers...),
		Topic:        kc.config.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequiredAcks(kc.config.RequiredAcks),
		BatchTimeout: kc.config.BatchTimeout,
		WriteTimeout: kc.config.WriteTimeout,
	}
	kc.isConnected = true
	slog.Info("kafka connector ready", "brokers", kc.config.Brokers, "topic", kc.config.Topic)
	return nil
}

// Disconnect flushes and closes the writer.
func (kc *KafkaConnector) Disconnect() error {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()

	if !kc.isConnected {
		return nil
	}
	err := kc.writer.Close()
	kc.writer = nil
	kc.isConnected = false
	if err != nil {
		return fmt.Errorf("kafka: close writer: %w", err)
	}
	slog.Info("kafka connector closed", "topic", kc.config.Topic)
	return nil
}

// Produce writes one message keyed by key.
func (kc *KafkaConnector) Produce(ctx context.Context, key string, value interface{}, headers map[string]string) error {
	kc.mutex.RLock()
	writer := kc.writer
	connected := kc.isConnected
	kc.mutex.RUnlock()

	if !connected {
		return ErrNotConnected
	}

	msg, err := kc.buildMessage(key, value, headers)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, kc.config.WriteTimeout)
	defer cancel()
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write message: %w", err)
	}
	slog.Debug("kafka message produced", "topic", kc.config.Topic, "key", key)
	return nil
}

func (kc *KafkaConnector) buildMessage(key string, value interface{}, headers map[string]string) (kafka.Message, error) {
	valueBytes, err := serializeValue(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serialize value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: valueBytes,
		Time:  time.Now(),
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	for k, v := range kc.config.CustomHeaders {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return msg, nil
}

// IsConnected reports whether Connect succeeded.
func (kc *KafkaConnector) IsConnected() bool {
	kc.mutex.RLock()
	defer kc.mutex.RUnlock()
	return kc.isConnected
}

// Topic returns the configured topic.
func (kc *KafkaConnector) Topic() string {
	return kc.config.Topic
}

// serializeValue passes []byte and string through and JSON-encodes everything else.
func serializeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}
