// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package provenance

import "github.com/sage-x-project/memory-engine/config"

// NewStoreFromConfig creates a provenance store capped at cfg.MaxEntries
// in place of a literal maxEntries argument.
func NewStoreFromConfig(cfg config.ProvenanceConfig) *Store {
	return NewStore(cfg.MaxEntries)
}
