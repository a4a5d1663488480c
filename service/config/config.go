/*
 * @module service/config/config
 * @description Service configuration: defaults, optional YAML file, environment overrides
 * @architecture Layered - infrastructure configuration
 * @documentReference DESIGN.md
 * @stateFlow defaults -> YAML file (CONFIG_FILE) -> environment overrides -> Validate
 * @rules Environment wins over the file; unknown backends and encodings are rejected
 * @dependencies gopkg.in/yaml.v3, github.com/spf13/cast
 * @refs service/init.go, main.go
 */

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Event backends
const (
	EventBackendNone  = "none"
	EventBackendKafka = "kafka"
	EventBackendMQTT  = "mqtt"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	Event    EventConfig    `yaml:"event"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Admin    AdminConfig    `yaml:"admin"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenPort  string   `yaml:"listen_port"`
	BaseContext string   `yaml:"base_context"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DatasetConfig locates the source files.
type DatasetConfig struct {
	DistrictFile   string `yaml:"district_file"`
	CoverageFile   string `yaml:"coverage_file"`
	Encoding       string `yaml:"encoding"`
	ReloadCron     string `yaml:"reload_cron"`
	RetainVersions int    `yaml:"retain_versions"` // finished versions kept in the database
}

// DatabaseConfig selects the snapshot database. An empty URL selects sqlite.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlite_path"`
}

// CacheConfig selects the reshape cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// EventConfig selects the reload notification backend.
type EventConfig struct {
	Backend string `yaml:"backend"`
}

// KafkaConfig configures the kafka event backend.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// MQTTConfig configures the mqtt event backend.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AdminConfig guards the admin routes. An empty hash disables them.
type AdminConfig struct {
	TokenHash string `yaml:"token_hash"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{ListenPort: "80", CORSOrigins: []string{"*"}},
		Log:    LogConfig{Level: "info"},
		Dataset: DatasetConfig{
			DistrictFile: "data/app_data_wide.csv",
			CoverageFile: "data/leg_dist_coverage.csv",
			Encoding:       "utf-8",
			RetainVersions: 5,
		},
		Database: DatabaseConfig{SQLitePath: "file::memory:?cache=shared"},
		Cache:    CacheConfig{Backend: CacheBackendMemory, TTL: time.Hour},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Event:    EventConfig{Backend: EventBackendNone},
		Kafka:    KafkaConfig{Topic: "peer.datasets"},
		MQTT:     MQTTConfig{Topic: "peer/datasets", ClientID: "peer-funding-service"},
	}
}

// Load builds the configuration from CONFIG_FILE (optional) and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.ListenPort = getEnvWithDefault("LISTEN_PORT", c.Server.ListenPort)
	c.Server.BaseContext = getEnvWithDefault("BASE_CONTEXT", c.Server.BaseContext)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}
	c.Log.Level = getEnvWithDefault("LOG_LEVEL", c.Log.Level)

	c.Dataset.DistrictFile = getEnvWithDefault("DISTRICT_FILE", c.Dataset.DistrictFile)
	c.Dataset.CoverageFile = getEnvWithDefault("COVERAGE_FILE", c.Dataset.CoverageFile)
	c.Dataset.Encoding = strings.ToLower(getEnvWithDefault("DATA_ENCODING", c.Dataset.Encoding))
	c.Dataset.ReloadCron = getEnvWithDefault("RELOAD_CRON", c.Dataset.ReloadCron)
	c.Dataset.RetainVersions = cast.ToInt(getEnvWithDefault("DATASET_RETAIN_VERSIONS", cast.ToString(c.Dataset.RetainVersions)))

	c.Database.URL = getEnvWithDefault("DATABASE_URL", c.Database.URL)
	c.Database.SQLitePath = getEnvWithDefault("SQLITE_PATH", c.Database.SQLitePath)

	c.Cache.Backend = strings.ToLower(getEnvWithDefault("CACHE_BACKEND", c.Cache.Backend))
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		c.Cache.TTL = cast.ToDuration(ttl)
	}

	c.Redis.Host = getEnvWithDefault("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = cast.ToInt(getEnvWithDefault("REDIS_PORT", cast.ToString(c.Redis.Port)))
	c.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = cast.ToInt(getEnvWithDefault("REDIS_DB", cast.ToString(c.Redis.DB)))

	c.Event.Backend = strings.ToLower(getEnvWithDefault("EVENT_BACKEND", c.Event.Backend))
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", c.Kafka.Topic)
	c.MQTT.Broker = getEnvWithDefault("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.Topic = getEnvWithDefault("MQTT_TOPIC", c.MQTT.Topic)
	c.MQTT.ClientID = getEnvWithDefault("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.Username = getEnvWithDefault("MQTT_USERNAME", c.MQTT.Username)
	c.MQTT.Password = getEnvWithDefault("MQTT_PASSWORD", c.MQTT.Password)

	c.Admin.TokenHash = getEnvWithDefault("ADMIN_TOKEN_HASH", c.Admin.TokenHash)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Dataset.Encoding {
	case "utf-8", "windows-1252":
	default:
		return fmt.Errorf("unsupported DATA_ENCODING %q", c.Dataset.Encoding)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}
	switch c.Event.Backend {
	case EventBackendNone:
	case EventBackendKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("EVENT_BACKEND=kafka requires KAFKA_BROKERS")
		}
	case EventBackendMQTT:
		if c.MQTT.Broker == "" {
			return fmt.Errorf("EVENT_BACKEND=mqtt requires MQTT_BROKER")
		}
	default:
		return fmt.Errorf("unsupported EVENT_BACKEND %q", c.Event.Backend)
	}
	if c.Dataset.RetainVersions < 1 {
		return fmt.Errorf("DATASET_RETAIN_VERSIONS must be at least 1, got %d", c.Dataset.RetainVersions)
	}
	if c.Dataset.DistrictFile == "" || c.Dataset.CoverageFile == "" {
		return fmt.Errorf("DISTRICT_FILE and COVERAGE_FILE must be set")
	}
	return nil
}

// getEnvWithDefault returns the environment value or the default when unset or empty.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
