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

// Package config provides tuning configuration for the memory retrieval
// and lifecycle engine.
//
// Configuration sources are applied in the following precedence, highest
// first:
//   1. Environment variables (prefixed with MEMORY_ENGINE_)
//   2. Configuration file (YAML or JSON)
//   3. Default values
//
// # Configuration Structure
//
// The configuration is organized into sections. BM25, RRF, Hybrid,
// Recall, Provenance, Cache, Janitor and Embedding are consumed through
// NewXFromConfig adapter constructors in the component packages;
// RateLimit, Server, Logging and Metrics have no adapter:
//   - BM25: sparse-scoring k1/b parameters
//   - RRF: reciprocal-rank-fusion k and per-source weights
//   - Hybrid: fusion weights for the hybrid retriever
//   - Recall: recall-health absolute/drift thresholds and baseline path
//   - Provenance: provenance-store entry bound
//   - Cache: retrieval-cache TTL and size bound
//   - RateLimit: per-agent MaaS rate-limit window
//   - Janitor: periodic sweep interval
//   - Embedding: embedding-provider selection and credentials
//   - Server: HTTP server settings for health/metrics endpoints
//   - Logging: structured-logging level, format, and output
//   - Metrics: metrics-exposition settings
//
// # Usage
//
// Loading configuration from a file, with environment overrides and
// validation applied automatically:
//
//	cfg, err := config.LoadFromFile("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Starting from defaults and applying only environment overrides:
//
//	cfg := config.DefaultConfig()
//	if err := cfg.LoadEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variable override:
//
//	export MEMORY_ENGINE_BM25_K1=1.2
//	export MEMORY_ENGINE_RECALL_ABSOLUTE_THRESHOLD=0.9
//	export MEMORY_ENGINE_EMBEDDING_PROVIDER="openai"
//	export MEMORY_ENGINE_EMBEDDING_API_KEY="sk-..."
//
// # Validation
//
// All configuration is validated before use. Validation rules include:
//   - BM25 b must be in [0, 1]
//   - RRF k must not be negative
//   - Recall absolute threshold must be in (0, 1]; drift threshold in [0, 1]
//   - Embedding provider, when set, must be "openai" or "gemini" and
//     requires an API key
//   - Server and metrics ports must be between 1 and 65535
//
// See the Config.Validate() method for complete validation rules.
package config
