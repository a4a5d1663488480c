/*
 * @module MQTTConnector
 * @description MQTT publisher wrapper used to announce dataset reloads
 * @architecture Adapter - wraps the paho client behind a small publish API
 * @documentReference DESIGN.md
 * @stateFlow Connect -> Publish -> Disconnect
 * @rules Auto-reconnect is left to paho; Publish waits for the broker acknowledgement up to the timeout
 * @dependencies github.com/eclipse/paho.mqtt.golang, log/slog
 * @refs service/event/publisher.go
 */
package connectors

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig configures the client.
type MQTTConfig struct {
	Broker         string        `json:"broker"`
	ClientID       string        `json:"client_id"`
	Username       string        `json:"username"`
	Password       string        `json:"password"`
	Topic          string        `json:"topic"`
	QoS            byte          `json:"qos"`
	Retained       bool          `json:"retained"`
	KeepAlive      time.Duration `json:"keep_alive"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

// MQTTStats counts published messages.
type MQTTStats struct {
	ConnectedAt    time.Time `json:"connected_at"`
	MessagesSent   int64     `json:"messages_sent"`
	BytesSent      int64     `json:"bytes_sent"`
	ReconnectCount int       `json:"reconnect_count"`
	LastError      string    `json:"last_error"`
}

// MQTTConnector publishes to one topic.
type MQTTConnector struct {
	config      MQTTConfig
	client      mqtt.Client
	mutex       sync.RWMutex
	isConnected bool
	connects    int
	stats       MQTTStats
}

// NewMQTTConnector creates an unconnected connector.
func NewMQTTConnector(config MQTTConfig) *MQTTConnector {
	if config.KeepAlive <= 0 {
		config.KeepAlive = 30 * time.Second
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	connector := &MQTTConnector{config: config}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetCleanSession(true)
	opts.SetKeepAlive(config.KeepAlive)
	opts.SetConnectTimeout(config.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(connector.onConnected)
	opts.SetConnectionLostHandler(connector.onConnectionLost)

	connector.client = mqtt.NewClient(opts)
	return connector
}

// Connect connects to the broker.
func (mc *MQTTConnector) Connect() error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if mc.isConnected {
		return nil
	}

	slog.Info("connecting to mqtt broker", "broker", mc.config.Broker)
	token := mc.client.Connect()
	if !token.WaitTimeout(mc.config.ConnectTimeout) {
		return fmt.Errorf("mqtt: connect to %s timed out", mc.config.Broker)
	}
	if err := token.Error(); err != nil {
		mc.stats.LastError = err.Error()
		return fmt.Errorf("mqtt: connect to %s: %w", mc.config.Broker, err)
	}

	mc.isConnected = true
	mc.stats.ConnectedAt = time.Now()
	return nil
}

// Disconnect closes the connection after letting in-flight messages drain.
func (mc *MQTTConnector) Disconnect() error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if !mc.isConnected {
		return nil
	}
	mc.client.Disconnect(250)
	mc.isConnected = false
	slog.Info("mqtt connector closed", "broker", mc.config.Broker)
	return nil
}

// Publish sends payload to the configured topic.
func (mc *MQTTConnector) Publish(payload interface{}) error {
	mc.mutex.RLock()
	connected := mc.isConnected
	mc.mutex.RUnlock()

	if !connected {
		return ErrNotConnected
	}

	data, err := serializeValue(payload)
	if err != nil {
		return fmt.Errorf("mqtt: serialize payload: %w", err)
	}

	token := mc.client.Publish(mc.config.Topic, mc.config.QoS, mc.config.Retained, data)
	if !token.WaitTimeout(mc.config.ConnectTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", mc.config.Topic)
	}
	if err := token.Error(); err != nil {
		mc.mutex.Lock()
		mc.stats.LastError = err.Error()
		mc.mutex.Unlock()
		return fmt.Errorf("mqtt: publish to %s: %w", mc.config.Topic, err)
	}

	mc.mutex.Lock()
	mc.stats.MessagesSent++
	mc.stats.BytesSent += int64(len(data))
	mc.mutex.Unlock()

	slog.Debug("mqtt message published", "topic", mc.config.Topic, "qos", mc.config.QoS)
	return nil
}

// IsConnected reports whether the client is connected.
func (mc *MQTTConnector) IsConnected() bool {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return mc.isConnected
}

// Stats returns a copy of the publish counters.
func (mc *MQTTConnector) Stats() MQTTStats {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return mc.stats
}

func (mc *MQTTConnector) onConnected(client mqtt.Client) {
	mc.mutex.Lock()
	mc.connects++
	reconnect := mc.connects > 1
	mc.isConnected = true
	if reconnect {
		mc.stats.ReconnectCount++
	}
	mc.stats.ConnectedAt = time.Now()
	mc.mutex.Unlock()
	slog.Info("mqtt connection established", "broker", mc.config.Broker, "reconnect", reconnect)
}

func (mc *MQTTConnector) onConnectionLost(client mqtt.Client, err error) {
	mc.mutex.Lock()
	mc.isConnected = false
	mc.stats.LastError = err.Error()
	mc.mutex.Unlock()
	slog.Warn("mqtt connection lost", "broker", mc.config.Broker, "error", err)
}
