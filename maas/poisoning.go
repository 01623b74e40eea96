// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package maas

import (
	"regexp"
	"strings"
)

// MaxOutputSize bounds how many bytes MemoryPoisoningDefense.Mask will
// return, truncating anything longer.
const MaxOutputSize = 16384

var secretPattern = regexp.MustCompile(`(?i)(sk-[a-z0-9]{16,}|api[_-]?key["':= ]+[a-z0-9_\-]{12,}|bearer\s+[a-z0-9_\-.]{16,}|ghp_[a-z0-9]{20,})`)

var anomalyKeywords = []string{
	"all memories", "every memory", "all passwords", "all secrets",
	"dump the database", "list all users", "system prompt", "ignore safety",
}

// MemoryPoisoningDefense masks leaked secrets in retrieved content, caps
// output size, and scores queries for exfiltration-style anomalies.
type MemoryPoisoningDefense struct{}

// NewMemoryPoisoningDefense creates a defense instance.
func NewMemoryPoisoningDefense() *MemoryPoisoningDefense {
	return &MemoryPoisoningDefense{}
}

// Mask replaces detected secrets in content with a redaction marker and
// truncates the result to MaxOutputSize bytes.
func (d *MemoryPoisoningDefense) Mask(content string) string {
	masked := secretPattern.ReplaceAllString(content, "[REDACTED]")
	if len(masked) > MaxOutputSize {
		masked = masked[:MaxOutputSize]
	}
	return masked
}

// QueryAnomalyScore returns a 0..1 score for how strongly query resembles
// a bulk-exfiltration attempt, based on keyword signature matches.
func (d *MemoryPoisoningDefense) QueryAnomalyScore(query string) float64 {
	lower := strings.ToLower(query)
	var hits int
	for _, kw := range anomalyKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	score := float64(hits) / float64(len(anomalyKeywords))
	if score > 1 {
		score = 1
	}
	return score
}
