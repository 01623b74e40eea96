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
	"fmt"
)

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if err := c.validateBM25(); err != nil {
		return err
	}
	if err := c.validateRRF(); err != nil {
		return err
	}
	if err := c.validateRecall(); err != nil {
		return err
	}
	if err := c.validateProvenance(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	if err := c.validateJanitor(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBM25() error {
	if c.BM25.K1 < 0 {
		return fmt.Errorf("bm25 k1 must not be negative")
	}
	if c.BM25.B < 0 || c.BM25.B > 1 {
		return fmt.Errorf("bm25 b must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateRRF() error {
	if c.RRF.K < 0 {
		return fmt.Errorf("rrf k must not be negative")
	}
	return nil
}

func (c *Config) validateRecall() error {
	if c.Recall.AbsoluteThreshold <= 0 || c.Recall.AbsoluteThreshold > 1 {
		return fmt.Errorf("recall absolute threshold must be in (0, 1]")
	}
	if c.Recall.DriftThreshold < 0 || c.Recall.DriftThreshold > 1 {
		return fmt.Errorf("recall drift threshold must be in [0, 1]")
	}
	if c.Recall.BaselineStoragePath == "" {
		return fmt.Errorf("recall baseline storage path must not be empty")
	}
	return nil
}

func (c *Config) validateProvenance() error {
	if c.Provenance.MaxEntries <= 0 {
		return fmt.Errorf("provenance max entries must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache max size must be positive")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}
	return nil
}

func (c *Config) validateJanitor() error {
	if c.Janitor.Interval <= 0 {
		return fmt.Errorf("janitor interval must be positive")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if c.Embedding.Provider == "" {
		return nil
	}

	validProviders := map[string]bool{
		"openai": true,
		"gemini": true,
	}
	if !validProviders[c.Embedding.Provider] {
		return fmt.Errorf("embedding provider must be one of: openai, gemini")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key must not be empty when a provider is set")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}
	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics port must be between 1 and 65535")
	}
	if c.Metrics.Path == "" {
		return fmt.Errorf("metrics path must not be empty")
	}
	return nil
}
