// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package bm25

import "github.com/sage-x-project/memory-engine/config"

// NewIndexFromConfig creates an empty BM25 index using cfg's k1/b
// parameters in place of a bm25.Config literal.
func NewIndexFromConfig(cfg config.BM25Config) *Index {
	return NewIndex(Config{K1: cfg.K1, B: cfg.B})
}
