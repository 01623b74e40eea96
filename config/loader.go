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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a file (YAML or JSON). The file
// format is determined by the file extension (.yaml, .yml, or .json).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv applies environment variable overrides. Environment variables
// take precedence over file-based configuration.
// Format: MEMORY_ENGINE_<SECTION>_<FIELD> (e.g. MEMORY_ENGINE_BM25_K1).
func (c *Config) LoadEnv() error {
	if v := os.Getenv("MEMORY_ENGINE_BM25_K1"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BM25.K1 = f
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_BM25_B"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BM25.B = f
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_RRF_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RRF.K = n
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_RECALL_ABSOLUTE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Recall.AbsoluteThreshold = f
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_RECALL_DRIFT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Recall.DriftThreshold = f
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_RECALL_BASELINE_PATH"); v != "" {
		c.Recall.BaselineStoragePath = v
	}
	if v := os.Getenv("MEMORY_ENGINE_PROVENANCE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Provenance.MaxEntries = n
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTL = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.MaxSize = n
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_JANITOR_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Janitor.Interval = time.Duration(n) * time.Hour
		}
	}
	if v := os.Getenv("MEMORY_ENGINE_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("MEMORY_ENGINE_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("MEMORY_ENGINE_EMBEDDING_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Embedding.APIKey == "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("MEMORY_ENGINE_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}

	return nil
}
