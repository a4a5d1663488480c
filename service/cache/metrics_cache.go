/*
 * @module service/cache/metrics_cache
 * @description Memoisation of reshaper results per dataset version and district
 * @architecture Strategy - in-process map or shared Redis behind one interface
 * @documentReference DESIGN.md
 * @stateFlow Get miss -> caller reshapes -> Add (first writer wins) -> later Gets hit
 *            dataset reload -> Purge(new version) drops every older version
 * @rules Add is atomic per key; a losing duplicate is discarded and the stored value returned
 * @dependencies sync
 * @refs service/dashboard/service.go
 */

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"peer-funding-service/service/funding"
)

// MetricsCache stores reshaper outputs. Stored values must be treated as read-only.
type MetricsCache interface {
	Get(ctx context.Context, key string) (*funding.Metrics, bool, error)
	Add(ctx context.Context, key string, m *funding.Metrics) (*funding.Metrics, error)
	// Purge removes the entries of every version other than keepVersion.
	Purge(ctx context.Context, keepVersion string) error
}

const keyPrefix = "funding:metrics:"

// Key builds the cache key of a district in a dataset version, so a reload never
// serves metrics from a previous version.
func Key(versionID, rcdts string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, versionID, rcdts)
}

func versionPrefix(versionID string) string {
	return keyPrefix + versionID + ":"
}

// MemoryCache keeps results until their version is purged.
type MemoryCache struct {
	entries sync.Map
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*funding.Metrics, bool, error) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	return v.(*funding.Metrics), true, nil
}

func (c *MemoryCache) Add(_ context.Context, key string, m *funding.Metrics) (*funding.Metrics, error) {
	actual, _ := c.entries.LoadOrStore(key, m)
	return actual.(*funding.Metrics), nil
}

func (c *MemoryCache) Purge(_ context.Context, keepVersion string) error {
	keep := versionPrefix(keepVersion)
	c.entries.Range(func(k, _ interface{}) bool {
		if !strings.HasPrefix(k.(string), keep) {
			c.entries.Delete(k)
		}
		return true
	})
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
