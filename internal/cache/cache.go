package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/kulturpfad/server/internal/lib/geo"
)

// Cache provides thread-safe in-memory caching with TTL. Entries are stored
// as JSON so callers can cache any serializable value.
type Cache struct {
	entries map[string]*CacheEntry
	mutex   sync.RWMutex
}

// CacheEntry represents a cached item with metadata
type CacheEntry struct {
	Key             string        `json:"key"`
	Data            []byte        `json:"data"`
	CreatedAt       time.Time     `json:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	Source          string        `json:"source"`
}

// NewCache creates a new in-memory cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
	}
}

// Set stores data in cache with TTL based on refresh interval
func (c *Cache) Set(key string, data interface{}, refreshInterval time.Duration, source string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	now := time.Now()
	entry := &CacheEntry{
		Key:             key,
		Data:            jsonData,
		CreatedAt:       now,
		ExpiresAt:       now.Add(refreshInterval),
		RefreshInterval: refreshInterval,
		Source:          source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry
	return nil
}

// Get retrieves data from cache if not stale
func (c *Cache) Get(key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return false, nil
	}

	if c.IsStale(key) {
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return true, nil
}

// IsStale checks if cache entry is stale (past expiration)
func (c *Cache) IsStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}

	return time.Now().After(entry.ExpiresAt)
}

// IsVeryStale checks if cache entry is very stale (2x refresh interval).
// Very stale entries are no longer acceptable as a fallback when a refresh
// fails.
func (c *Cache) IsVeryStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}

	veryStaleThreshold := entry.CreatedAt.Add(entry.RefreshInterval * 2)
	return time.Now().After(veryStaleThreshold)
}

// GetWithMetadata retrieves data and cache metadata. Metadata is returned
// even for stale entries; the caller decides how to handle staleness.
func (c *Cache) GetWithMetadata(key string, result interface{}) (*CacheEntry, bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if result != nil {
		if err := json.Unmarshal(entry.Data, result); err != nil {
			return entry, exists, fmt.Errorf("failed to unmarshal cached data: %w", err)
		}
	}

	return entry, exists, nil
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries from cache
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)
}

// Keys returns all cache keys
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	stats := CacheStats{
		TotalEntries: len(c.entries),
	}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CleanupStale removes all stale entries from cache
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	var removed int

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartPeriodicCleanup starts a goroutine that periodically cleans up stale entries
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		defer func() {
			// Recover from any panics in the cache cleanup goroutine
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			c.CleanupStale()
		}
	}()
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	OldestEntry  time.Time
	NewestEntry  time.Time
}

// RouteKey builds a cache key for a directions request. Waypoint order
// matters, so it is preserved in the key.
func RouteKey(origin, destination geo.Point, waypoints []geo.Point, mode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "route:%s:%.6f,%.6f:%.6f,%.6f",
		mode, origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
	for _, wp := range waypoints {
		fmt.Fprintf(&b, ":%.6f,%.6f", wp.Latitude, wp.Longitude)
	}
	return b.String()
}

// ProfileKey builds a cache key for an elevation profile of an encoded path.
// Paths can be arbitrarily long, so the polyline is hashed rather than
// embedded.
func ProfileKey(encodedPolyline string, samples int) string {
	h := fnv.New64a()
	h.Write([]byte(encodedPolyline))
	return fmt.Sprintf("profile:%x:%d", h.Sum64(), samples)
}
