package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "LISTEN_PORT", "BASE_CONTEXT", "CORS_ORIGINS", "LOG_LEVEL",
	"DISTRICT_FILE", "COVERAGE_FILE", "DATA_ENCODING", "RELOAD_CRON", "DATASET_RETAIN_VERSIONS",
	"DATABASE_URL", "SQLITE_PATH", "CACHE_BACKEND", "CACHE_TTL",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"EVENT_BACKEND", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"MQTT_BROKER", "MQTT_TOPIC", "MQTT_CLIENT_ID", "MQTT_USERNAME", "MQTT_PASSWORD",
	"ADMIN_TOKEN_HASH",
}

// clearEnv blanks every key Load reads; blank values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "80", cfg.Server.ListenPort)
	assert.Equal(t, "data/app_data_wide.csv", cfg.Dataset.DistrictFile)
	assert.Equal(t, "data/leg_dist_coverage.csv", cfg.Dataset.CoverageFile)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, EventBackendNone, cfg.Event.Backend)
	assert.Equal(t, 5, cfg.Dataset.RetainVersions)
	assert.Empty(t, cfg.Admin.TokenHash)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_PORT", "8080")
	t.Setenv("DISTRICT_FILE", "/srv/wide.csv")
	t.Setenv("DATA_ENCODING", "Windows-1252")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("EVENT_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DATASET_RETAIN_VERSIONS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.ListenPort)
	assert.Equal(t, "/srv/wide.csv", cfg.Dataset.DistrictFile)
	assert.Equal(t, "windows-1252", cfg.Dataset.Encoding)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Dataset.RetainVersions)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen_port: "9000"
dataset:
  district_file: /data/file.csv
  reload_cron: "0 0 3 * * *"
mqtt:
  broker: tcp://broker:1883
event:
  backend: mqtt
`), 0o600))
	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LISTEN_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.ListenPort)
	assert.Equal(t, "/data/file.csv", cfg.Dataset.DistrictFile)
	assert.Equal(t, "data/leg_dist_coverage.csv", cfg.Dataset.CoverageFile)
	assert.Equal(t, "0 0 3 * * *", cfg.Dataset.ReloadCron)
	assert.Equal(t, EventBackendMQTT, cfg.Event.Backend)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad encoding", mutate: func(c *Config) { c.Dataset.Encoding = "latin-2" }, wantErr: true},
		{name: "bad cache", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: true},
		{name: "bad event", mutate: func(c *Config) { c.Event.Backend = "nats" }, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Event.Backend = EventBackendKafka }, wantErr: true},
		{name: "mqtt without broker", mutate: func(c *Config) { c.Event.Backend = EventBackendMQTT }, wantErr: true},
		{name: "no retained versions", mutate: func(c *Config) { c.Dataset.RetainVersions = 0 }, wantErr: true},
		{name: "no district file", mutate: func(c *Config) { c.Dataset.DistrictFile = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
