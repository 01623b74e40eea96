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
	"testing"
	"time"
)

func TestConfig_Validate_ServerTimeouts(t *testing.T) {
	tests := []struct {
		name    string
		server  ServerConfig
		wantErr bool
	}{
		{
			name:    "negative read timeout",
			server:  ServerConfig{Host: "0.0.0.0", Port: 8080, ReadTimeout: -1 * time.Second, WriteTimeout: 30 * time.Second},
			wantErr: true,
		},
		{
			name:    "negative write timeout",
			server:  ServerConfig{Host: "0.0.0.0", Port: 8080, ReadTimeout: 30 * time.Second, WriteTimeout: -1 * time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Server = tt.server

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_RecallDriftThresholdNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recall.DriftThreshold = -0.01
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a negative drift threshold")
	}
}

func TestConfig_Validate_RateLimitWindowSeconds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.WindowSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a non-positive rate limit window")
	}
}

func TestConfig_Validate_EmbeddingGemini(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding = EmbeddingConfig{Provider: "gemini", APIKey: "gem-key", Dimension: 768}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for valid gemini config", err)
	}
}

func TestConfig_Validate_RunsAllSectionsInOrder(t *testing.T) {
	// A config invalid in a later section (Metrics) should still surface
	// an error even when earlier sections (BM25, RRF, ...) are valid.
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reach and reject an invalid metrics section")
	}
}
