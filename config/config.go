// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"time"
)

// Config is the complete tuning configuration for the memory retrieval
// and lifecycle engine. It carries no chat-agent or transport-protocol
// settings; every section maps onto one retrieval or lifecycle
// component's own constructor.
type Config struct {
	BM25       BM25Config
	RRF        RRFConfig
	Hybrid     HybridConfig
	Recall     RecallConfig
	Provenance ProvenanceConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Janitor    JanitorConfig
	Embedding  EmbeddingConfig
	Server     ServerConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// BM25Config holds the BM25 scoring parameters (component B).
type BM25Config struct {
	K1 float64
	B  float64
}

// RRFConfig holds the Reciprocal Rank Fusion parameters (component E).
type RRFConfig struct {
	K             int
	SourceWeights map[string]float64
}

// HybridConfig holds the per-source fusion weights applied by the
// hybrid retriever (component H).
type HybridConfig struct {
	BM25Weight   float64
	VectorWeight float64
	GraphWeight  float64
}

// RecallConfig tunes recall-health monitoring (component N).
type RecallConfig struct {
	AbsoluteThreshold   float64
	DriftThreshold      float64
	BaselineStoragePath string
}

// ProvenanceConfig bounds the provenance store (component K).
type ProvenanceConfig struct {
	MaxEntries int
}

// CacheConfig tunes the retrieval cache (component U).
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// RateLimitConfig tunes per-agent MaaS rate limiting (component R).
type RateLimitConfig struct {
	RequestsPerMinute int
	WindowSeconds     int
}

// JanitorConfig tunes the janitor's periodic sweep (component M).
type JanitorConfig struct {
	Interval time.Duration
}

// EmbeddingConfig selects and configures the embedding model adapter
// shared by vectorindex, bruteforce, and the recall monitor.
type EmbeddingConfig struct {
	Provider  string // "openai", "gemini"
	Model     string
	APIKey    string
	Dimension int
	Timeout   time.Duration
}

// ServerConfig contains the HTTP server settings for the health and
// metrics endpoints a host process exposes alongside the engine.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig contains structured-logging configuration.
type LoggingConfig struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json", "text"
	OutputPath string
}

// MetricsConfig contains metrics-exposition configuration.
type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// DefaultConfig returns a configuration with the spec-mandated defaults:
// BM25 k1=1.5/b=0.75, RRF k=60, recall thresholds 0.90/0.05, a 10000-entry
// provenance store, a 60s/1000-entry cache, and a 24h janitor interval.
func DefaultConfig() *Config {
	return &Config{
		BM25: BM25Config{
			K1: 1.5,
			B:  0.75,
		},
		RRF: RRFConfig{
			K: 60,
			SourceWeights: map[string]float64{
				"bm25":   1.0,
				"vector": 1.0,
				"graph":  0.5,
			},
		},
		Hybrid: HybridConfig{
			BM25Weight:   1.0,
			VectorWeight: 1.0,
			GraphWeight:  0.5,
		},
		Recall: RecallConfig{
			AbsoluteThreshold:   0.90,
			DriftThreshold:      0.05,
			BaselineStoragePath: "./data/recall-baselines",
		},
		Provenance: ProvenanceConfig{
			MaxEntries: 10000,
		},
		Cache: CacheConfig{
			TTL:     60 * time.Second,
			MaxSize: 1000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			WindowSeconds:     60,
		},
		Janitor: JanitorConfig{
			Interval: 24 * time.Hour,
		},
		Embedding: EmbeddingConfig{
			Provider:  "",
			Dimension: 1536,
			Timeout:   30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// NewConfig creates a new default configuration. This is an alias for
// DefaultConfig().
func NewConfig() *Config {
	return DefaultConfig()
}
