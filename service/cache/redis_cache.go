/*
 * @module service/cache/redis_cache
 * @description Shared reshape cache for multi-replica deployments
 * @architecture Adapter - JSON values in Redis with SETNX semantics
 * @documentReference DESIGN.md
 * @stateFlow SETNX with TTL -> on conflict GET the winner; Purge SCANs and deletes older versions
 * @rules Keys expire after the TTL; version ids in the key make stale entries unreachable
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs client/connectors/redis_connector.go
 */

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"peer-funding-service/service/funding"

	"github.com/go-redis/redis/v8"
)

const scanBatchSize = 100

// RedisCache stores metrics as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a connected client. A non-positive ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*funding.Metrics, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var m funding.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("decode cached metrics %s: %w", key, err)
	}
	return &m, true, nil
}

func (c *RedisCache) Add(ctx context.Context, key string, m *funding.Metrics) (*funding.Metrics, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}

	stored, err := c.client.SetNX(ctx, key, data, c.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if stored {
		return m, nil
	}

	existing, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		// expired between SETNX and GET
		return m, nil
	}
	return existing, nil
}

// Purge deletes the keys of older versions. Keys of other replicas' current version are
// removed as well and get recomputed on their next miss.
func (c *RedisCache) Purge(ctx context.Context, keepVersion string) error {
	keep := versionPrefix(keepVersion)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s*: %w", keyPrefix, err)
		}

		stale := keys[:0]
		for _, key := range keys {
			if !strings.HasPrefix(key, keep) {
				stale = append(stale, key)
			}
		}
		if len(stale) > 0 {
			if err := c.client.Del(ctx, stale...).Err(); err != nil {
				return fmt.Errorf("redis del stale metrics: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
