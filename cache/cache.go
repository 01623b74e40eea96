// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package cache provides the optional retrieval cache that sits in front of
the hybrid retriever (spec component U).

The cache is keyed by (user_id, normalized_query, limit) and wraps only the
top-level retrieve call, never the Stage-1 fan-out, so that
RetrievalMetrics recorded by the hybrid retriever always reflect a real
retrieval rather than a cache hit. Any store or delete for a user must
invalidate every cache entry for that user so that the next retrieve is
always a miss.

Features:
  - LRU+TTL backing store
  - Per-user invalidation on write
  - Hit/miss/size/hit-rate metrics

Example:

	import "github.com/sage-x-project/memory-engine/cache"

	c := cache.NewMemoryCache(cache.DefaultCacheConfig())
	rc := cache.NewRetrievalCache(c, cache.DefaultRetrievalCacheConfig())

	if results, found := rc.Get(ctx, userID, query, limit); found {
	    return results, nil
	}
	results, err := retriever.Retrieve(ctx, query, userID, limit)
	rc.Set(ctx, userID, query, limit, results)
*/
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache defines the interface for caching implementations
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all entries from cache
	Clear(ctx context.Context) error

	// Stats returns cache statistics
	Stats() CacheStats

	// Close closes the cache
	Close() error
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	// MaxSize is the maximum number of entries
	MaxSize int

	// DefaultTTL is the default time-to-live
	DefaultTTL time.Duration

	// EvictionPolicy determines how entries are evicted
	EvictionPolicy EvictionPolicy

	// EnableMetrics enables cache metrics collection
	EnableMetrics bool
}

// EvictionPolicy determines how cache entries are evicted
type EvictionPolicy string

const (
	// EvictionPolicyLRU evicts least recently used entries
	EvictionPolicyLRU EvictionPolicy = "lru"

	// EvictionPolicyLFU evicts least frequently used entries
	EvictionPolicyLFU EvictionPolicy = "lfu"

	// EvictionPolicyFIFO evicts oldest entries first
	EvictionPolicyFIFO EvictionPolicy = "fifo"

	// EvictionPolicyTTL evicts based on TTL only
	EvictionPolicyTTL EvictionPolicy = "ttl"
)

// CacheStats holds cache statistics
type CacheStats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Deletes       int64
	Evictions     int64
	Size          int
	MaxSize       int
	HitRate       float64
	MemoryUsageKB int64
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize:        1000,
		DefaultTTL:     60 * time.Second,
		EvictionPolicy: EvictionPolicyLRU,
		EnableMetrics:  true,
	}
}

// RetrievalResult is the cached shape of a single hybrid retrieval hit.
// It mirrors hybrid.Result without importing it, avoiding a cache->hybrid
// dependency cycle (hybrid imports cache to wrap Retrieve).
type RetrievalResult struct {
	MemoryID     string
	Score        float64
	SourceScores map[string]float64
	SourceRanks  map[string]int
}

// RetrievalCacheConfig configures the retrieval cache.
type RetrievalCacheConfig struct {
	// Enabled enables/disables caching.
	Enabled bool

	// TTL is the cache entry lifetime.
	TTL time.Duration
}

// DefaultRetrievalCacheConfig returns the spec default: 60s TTL.
func DefaultRetrievalCacheConfig() RetrievalCacheConfig {
	return RetrievalCacheConfig{
		Enabled: true,
		TTL:     60 * time.Second,
	}
}

// RetrievalCache wraps a Cache with (user_id, normalized_query, limit)
// keying and per-user invalidation.
type RetrievalCache struct {
	mu     sync.RWMutex
	cache  Cache
	config RetrievalCacheConfig
	// userKeys tracks every cache key ever written for a user so that
	// Invalidate can drop them all without scanning the backing cache.
	userKeys map[string]map[string]struct{}
}

// NewRetrievalCache creates a new retrieval cache around the given backing
// Cache implementation.
func NewRetrievalCache(cache Cache, config RetrievalCacheConfig) *RetrievalCache {
	return &RetrievalCache{
		cache:    cache,
		config:   config,
		userKeys: make(map[string]map[string]struct{}),
	}
}

// Get returns the cached results for (userID, query, limit), if present.
func (rc *RetrievalCache) Get(ctx context.Context, userID, query string, limit int) ([]RetrievalResult, bool) {
	if !rc.config.Enabled {
		return nil, false
	}

	key := retrievalKey(userID, query, limit)
	value, found := rc.cache.Get(ctx, key)
	if !found {
		return nil, false
	}

	results, ok := value.([]RetrievalResult)
	if !ok {
		return nil, false
	}
	return results, true
}

// Set stores results for (userID, query, limit).
func (rc *RetrievalCache) Set(ctx context.Context, userID, query string, limit int, results []RetrievalResult) error {
	if !rc.config.Enabled {
		return nil
	}

	key := retrievalKey(userID, query, limit)
	if err := rc.cache.Set(ctx, key, results, rc.config.TTL); err != nil {
		return err
	}

	rc.mu.Lock()
	keys, ok := rc.userKeys[userID]
	if !ok {
		keys = make(map[string]struct{})
		rc.userKeys[userID] = keys
	}
	keys[key] = struct{}{}
	rc.mu.Unlock()

	return nil
}

// Invalidate drops every cache entry for userID. Call this on any store or
// delete so that the next retrieve for that user is a miss, per the
// linearization requirement between writes and cache state.
func (rc *RetrievalCache) Invalidate(ctx context.Context, userID string) error {
	rc.mu.Lock()
	keys := rc.userKeys[userID]
	delete(rc.userKeys, userID)
	rc.mu.Unlock()

	for key := range keys {
		if err := rc.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every cache entry for every user.
func (rc *RetrievalCache) Clear(ctx context.Context) error {
	rc.mu.Lock()
	rc.userKeys = make(map[string]map[string]struct{})
	rc.mu.Unlock()
	return rc.cache.Clear(ctx)
}

// Stats returns the backing cache's statistics.
func (rc *RetrievalCache) Stats() CacheStats {
	return rc.cache.Stats()
}

// retrievalKey builds a deterministic cache key from a normalized query.
func retrievalKey(userID, query string, limit int) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	data := fmt.Sprintf("%s\x00%s\x00%d", userID, normalized, limit)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
