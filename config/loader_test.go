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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFile_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
bm25:
  k1: 1.3
  b: 0.8

rrf:
  k: 40

recall:
  absolutethreshold: 0.85
  driftthreshold: 0.1
  baselinestoragepath: "/tmp/baselines"

embedding:
  provider: "openai"
  model: "text-embedding-3-small"
  apikey: "sk-test-key"
  dimension: 1536
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.BM25.K1 != 1.3 {
		t.Errorf("BM25.K1 = %v, want 1.3", cfg.BM25.K1)
	}
	if cfg.BM25.B != 0.8 {
		t.Errorf("BM25.B = %v, want 0.8", cfg.BM25.B)
	}
	if cfg.RRF.K != 40 {
		t.Errorf("RRF.K = %v, want 40", cfg.RRF.K)
	}
	if cfg.Recall.AbsoluteThreshold != 0.85 {
		t.Errorf("Recall.AbsoluteThreshold = %v, want 0.85", cfg.Recall.AbsoluteThreshold)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("Embedding.Provider = %s, want openai", cfg.Embedding.Provider)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	jsonContent := `{
  "bm25": {
    "K1": 1.1,
    "B": 0.6
  },
  "embedding": {
    "Provider": "openai",
    "APIKey": "sk-json-key",
    "Dimension": 1536
  }
}`

	if err := os.WriteFile(configPath, []byte(jsonContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.BM25.K1 != 1.1 {
		t.Errorf("BM25.K1 = %v, want 1.1", cfg.BM25.K1)
	}
	if cfg.Embedding.APIKey != "sk-json-key" {
		t.Errorf("Embedding.APIKey = %s, want sk-json-key", cfg.Embedding.APIKey)
	}
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file, got nil")
	}
}

func TestLoadFromFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
bm25:
  k1: invalid: [
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.txt")

	if err := os.WriteFile(configPath, []byte("test"), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("Expected error for unsupported file extension, got nil")
	}
}

func TestLoadEnv(t *testing.T) {
	testEnv := map[string]string{
		"MEMORY_ENGINE_BM25_K1":                    "1.25",
		"MEMORY_ENGINE_BM25_B":                     "0.65",
		"MEMORY_ENGINE_RRF_K":                      "80",
		"MEMORY_ENGINE_RECALL_ABSOLUTE_THRESHOLD":  "0.95",
		"MEMORY_ENGINE_RECALL_DRIFT_THRESHOLD":     "0.02",
		"MEMORY_ENGINE_RECALL_BASELINE_PATH":       "/env/baselines",
		"MEMORY_ENGINE_PROVENANCE_MAX_ENTRIES":     "5000",
		"MEMORY_ENGINE_CACHE_TTL_SECONDS":          "120",
		"MEMORY_ENGINE_CACHE_MAX_SIZE":             "2000",
		"MEMORY_ENGINE_RATE_LIMIT_RPM":             "30",
		"MEMORY_ENGINE_JANITOR_INTERVAL_HOURS":     "12",
		"MEMORY_ENGINE_EMBEDDING_PROVIDER":         "gemini",
		"MEMORY_ENGINE_EMBEDDING_MODEL":            "embedding-001",
		"MEMORY_ENGINE_EMBEDDING_API_KEY":          "sk-env-key",
		"MEMORY_ENGINE_SERVER_PORT":                "9091",
	}

	for k, v := range testEnv {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"BM25.K1", cfg.BM25.K1, 1.25},
		{"BM25.B", cfg.BM25.B, 0.65},
		{"RRF.K", cfg.RRF.K, 80},
		{"Recall.AbsoluteThreshold", cfg.Recall.AbsoluteThreshold, 0.95},
		{"Recall.DriftThreshold", cfg.Recall.DriftThreshold, 0.02},
		{"Recall.BaselineStoragePath", cfg.Recall.BaselineStoragePath, "/env/baselines"},
		{"Provenance.MaxEntries", cfg.Provenance.MaxEntries, 5000},
		{"Cache.TTL", cfg.Cache.TTL, 120 * time.Second},
		{"Cache.MaxSize", cfg.Cache.MaxSize, 2000},
		{"RateLimit.RequestsPerMinute", cfg.RateLimit.RequestsPerMinute, 30},
		{"Janitor.Interval", cfg.Janitor.Interval, 12 * time.Hour},
		{"Embedding.Provider", cfg.Embedding.Provider, "gemini"},
		{"Embedding.Model", cfg.Embedding.Model, "embedding-001"},
		{"Embedding.APIKey", cfg.Embedding.APIKey, "sk-env-key"},
		{"Server.Port", cfg.Server.Port, 9091},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadEnv_APIKeyFallsBackToOpenAIEnv(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "sk-fallback-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	cfg := DefaultConfig()
	cfg.Embedding.APIKey = ""
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Embedding.APIKey != "sk-fallback-key" {
		t.Errorf("Embedding.APIKey = %s, want sk-fallback-key", cfg.Embedding.APIKey)
	}
}

func TestLoadEnv_ExplicitKeyTakesPrecedenceOverFallback(t *testing.T) {
	os.Setenv("MEMORY_ENGINE_EMBEDDING_API_KEY", "sk-explicit")
	os.Setenv("OPENAI_API_KEY", "sk-fallback")
	defer os.Unsetenv("MEMORY_ENGINE_EMBEDDING_API_KEY")
	defer os.Unsetenv("OPENAI_API_KEY")

	cfg := DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Embedding.APIKey != "sk-explicit" {
		t.Errorf("Embedding.APIKey = %s, want sk-explicit", cfg.Embedding.APIKey)
	}
}

func TestLoadFromFile_WithEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
bm25:
  k1: 1.2
  b: 0.7

embedding:
  provider: "openai"
  apikey: "sk-file-key"
  dimension: 1536
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	os.Setenv("MEMORY_ENGINE_BM25_K1", "9.9")
	os.Setenv("MEMORY_ENGINE_EMBEDDING_API_KEY", "sk-env-override")
	defer os.Unsetenv("MEMORY_ENGINE_BM25_K1")
	defer os.Unsetenv("MEMORY_ENGINE_EMBEDDING_API_KEY")

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.BM25.K1 != 9.9 {
		t.Errorf("BM25.K1 = %v, want 9.9 (env should override file)", cfg.BM25.K1)
	}
	if cfg.Embedding.APIKey != "sk-env-override" {
		t.Errorf("Embedding.APIKey = %s, want sk-env-override (env should override file)", cfg.Embedding.APIKey)
	}
	if cfg.BM25.B != 0.7 {
		t.Errorf("BM25.B = %v, want 0.7 (file value should be preserved)", cfg.BM25.B)
	}
}

func TestLoadFromFile_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// recall absolute threshold out of range should fail validation
	yamlContent := `
recall:
  absolutethreshold: 5.0
  driftthreshold: 0.05
  baselinestoragepath: "/tmp/baselines"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("Expected validation error for out-of-range recall threshold, got nil")
	}
}

func TestDefaultConfigPreserved(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Minimal config - most fields should use defaults
	yamlContent := `
bm25:
  k1: 2.0
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.BM25.K1 != 2.0 {
		t.Errorf("BM25.K1 = %v, want 2.0", cfg.BM25.K1)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s (default)", cfg.Server.ReadTimeout)
	}
	if cfg.Janitor.Interval != 24*time.Hour {
		t.Errorf("Janitor.Interval = %v, want 24h (default)", cfg.Janitor.Interval)
	}
}
