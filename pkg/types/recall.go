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

package types

import "time"

// RecallBaseline is a persisted measurement of ANN recall against a
// brute-force ground truth, used by the recall health monitor to detect
// drift.
type RecallBaseline struct {
	RecallAtK         float64   `json:"recall_at_k"`
	K                 int       `json:"k"`
	QueryCount        int       `json:"query_count"`
	EmbeddingModel    string    `json:"embedding_model"`
	EmbeddingVersion  string    `json:"embedding_version"`
	CreatedAt         time.Time `json:"created_at"`
	CorpusSize        int       `json:"corpus_size"`
	Filtered          bool      `json:"filtered"`
	FilterDescription string    `json:"filter_description,omitempty"`
}

// EmbeddingVersion fingerprints an embedding model configuration so that a
// change in model, dimension, or relevant config triggers a reindex.
type EmbeddingVersion struct {
	ModelID        string                 `json:"model_id"`
	VersionHash    string                 `json:"version_hash"`
	Dimension      int                    `json:"dimension"`
	CreatedAt      time.Time              `json:"created_at"`
	ConfigSnapshot map[string]interface{} `json:"config_snapshot,omitempty"`
}
