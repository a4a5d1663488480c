package connectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "bytes", value: []byte("raw"), want: "raw"},
		{name: "string", value: "text", want: "text"},
		{name: "struct", value: struct {
			Type string `json:"type"`
		}{Type: "dataset.reloaded"}, want: `{"type":"dataset.reloaded"}`},
		{name: "map", value: map[string]int{"districts": 3}, want: `{"districts":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serializeValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestKafkaConnector_ConnectValidation(t *testing.T) {
	assert.Error(t, NewKafkaConnector(KafkaConfig{Topic: "t"}).Connect())
	assert.Error(t, NewKafkaConnector(KafkaConfig{Brokers: []string{"localhost:9092"}}).Connect())

	kc := NewKafkaConnector(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "peer.datasets"})
	require.NoError(t, kc.Connect())
	assert.True(t, kc.IsConnected())
	assert.Equal(t, "peer.datasets", kc.Topic())
	require.NoError(t, kc.Disconnect())
	assert.False(t, kc.IsConnected())
}

func TestKafkaConnector_ProduceBeforeConnect(t *testing.T) {
	kc := NewKafkaConnector(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "peer.datasets"})
	err := kc.Produce(context.Background(), "k", "v", nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestKafkaConnector_BuildMessageHeaders(t *testing.T) {
	kc := NewKafkaConnector(KafkaConfig{
		Brokers:       []string{"localhost:9092"},
		Topic:         "peer.datasets",
		CustomHeaders: map[string]string{"source": "peer-funding-service"},
	})
	msg, err := kc.buildMessage("v1", map[string]string{"a": "b"}, map[string]string{"type": "dataset.reloaded"})
	require.NoError(t, err)

	assert.Equal(t, "v1", string(msg.Key))
	assert.JSONEq(t, `{"a":"b"}`, string(msg.Value))
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{"type": "dataset.reloaded", "source": "peer-funding-service"}, headers)
}

func TestMQTTConnector_PublishBeforeConnect(t *testing.T) {
	mc := NewMQTTConnector(MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "test", Topic: "peer/datasets"})
	assert.False(t, mc.IsConnected())
	assert.ErrorIs(t, mc.Publish("payload"), ErrNotConnected)
	assert.NoError(t, mc.Disconnect())
}
