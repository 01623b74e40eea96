// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package recall

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// NewEmbeddingVersion builds a types.EmbeddingVersion, computing its
// VersionHash from modelID, dimension, and configSnapshot.
func NewEmbeddingVersion(modelID string, dimension int, configSnapshot map[string]interface{}) types.EmbeddingVersion {
	return types.EmbeddingVersion{
		ModelID:        modelID,
		Dimension:      dimension,
		ConfigSnapshot: configSnapshot,
		VersionHash:    computeVersionHash(modelID, dimension, configSnapshot),
		CreatedAt:      time.Now(),
	}
}

// computeVersionHash derives a SHA-256 hex digest from modelID,
// dimension, and the sorted configSnapshot keys, so the same
// configuration always hashes identically regardless of map iteration
// order.
func computeVersionHash(modelID string, dimension int, configSnapshot map[string]interface{}) string {
	keys := make([]string, 0, len(configSnapshot))
	for k := range configSnapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "model_id=%s;dimension=%d", modelID, dimension)
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s=%v", k, configSnapshot[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// EmbeddingVersionTracker tracks the current embedding version and
// decides whether a stored version requires reindexing.
type EmbeddingVersionTracker struct {
	current types.EmbeddingVersion
}

// NewEmbeddingVersionTracker creates a tracker for the given current
// version.
func NewEmbeddingVersionTracker(current types.EmbeddingVersion) *EmbeddingVersionTracker {
	return &EmbeddingVersionTracker{current: current}
}

// Current returns the tracked current embedding version.
func (t *EmbeddingVersionTracker) Current() types.EmbeddingVersion {
	return t.current
}

// RequiresReindex reports whether stored differs from current in
// model_id, dimension, or version_hash.
func (t *EmbeddingVersionTracker) RequiresReindex(stored types.EmbeddingVersion) bool {
	return RequiresReindex(stored, t.current)
}

// RequiresReindex reports whether stored and current describe different
// embedding configurations.
func RequiresReindex(stored, current types.EmbeddingVersion) bool {
	return stored.ModelID != current.ModelID ||
		stored.Dimension != current.Dimension ||
		stored.VersionHash != current.VersionHash
}
