/*
 * @module RedisConnector
 * @description Redis client wrapper used by the shared reshape cache
 * @architecture Adapter - owns the go-redis client lifecycle
 * @documentReference DESIGN.md
 * @stateFlow Connect (ping) -> Client() used by callers -> Disconnect
 * @rules Connect fails fast when the server does not answer PING
 * @dependencies github.com/go-redis/redis/v8, log/slog
 * @refs service/cache/redis_cache.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig configures the single-node client.
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	Database     int           `json:"database"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// RedisConnector owns one redis client.
type RedisConnector struct {
	config      RedisConfig
	client      *redis.Client
	mutex       sync.RWMutex
	isConnected bool
}

// NewRedisConnector creates the client without dialing.
func NewRedisConnector(config RedisConfig) *RedisConnector {
	if config.PoolSize <= 0 {
		config.PoolSize = 10
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}
	return &RedisConnector{
		config: config,
		client: redis.NewClient(&redis.Options{
			Addr:         config.Address,
			Password:     config.Password,
			DB:           config.Database,
			PoolSize:     config.PoolSize,
			MinIdleConns: config.MinIdleConns,
			MaxRetries:   config.MaxRetries,
			DialTimeout:  config.DialTimeout,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		}),
	}
}

// Connect pings the server.
func (rc *RedisConnector) Connect(ctx context.Context) error {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if rc.isConnected {
		return nil
	}
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: connect to %s: %w", rc.config.Address, err)
	}
	rc.isConnected = true
	slog.Info("redis connector connected", "address", rc.config.Address, "db", rc.config.Database)
	return nil
}

// Ping checks the server is reachable.
func (rc *RedisConnector) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Client returns the underlying client.
func (rc *RedisConnector) Client() *redis.Client {
	return rc.client
}

// Disconnect closes the client.
func (rc *RedisConnector) Disconnect() error {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if !rc.isConnected {
		return nil
	}
	rc.isConnected = false
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("redis: close client: %w", err)
	}
	slog.Info("redis connector closed", "address", rc.config.Address)
	return nil
}

// IsConnected reports whether Connect succeeded.
func (rc *RedisConnector) IsConnected() bool {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()
	return rc.isConnected
}
