// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package cache

import "github.com/sage-x-project/memory-engine/config"

// NewMemoryCacheFromConfig creates an in-memory cache sized and aged
// according to cfg, using the spec-default LRU eviction policy.
func NewMemoryCacheFromConfig(cfg config.CacheConfig) *MemoryCache {
	return NewMemoryCache(CacheConfig{
		MaxSize:        cfg.MaxSize,
		DefaultTTL:     cfg.TTL,
		EvictionPolicy: EvictionPolicyLRU,
		EnableMetrics:  true,
	})
}

// NewRetrievalCacheFromConfig wraps a config-sized MemoryCache in a
// RetrievalCache using cfg's TTL as the retrieval-entry lifetime.
func NewRetrievalCacheFromConfig(cfg config.CacheConfig) *RetrievalCache {
	backing := NewMemoryCacheFromConfig(cfg)
	return NewRetrievalCache(backing, RetrievalCacheConfig{
		Enabled: true,
		TTL:     cfg.TTL,
	})
}
