// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package janitor

import (
	"context"
	"fmt"
	"sort"

	"github.com/sage-x-project/memory-engine/embeddings"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

// DuplicateThreshold is the pairwise similarity above which two memories
// are considered duplicates.
const DuplicateThreshold = 0.85

// Store is the minimal memory-persistence contract the janitor workers
// need: list a user's memories and delete one by id.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]*types.Memory, error)
	Delete(ctx context.Context, userID, memoryID string) error
}

// Deduplicator finds near-duplicate memories (pairwise similarity above
// DuplicateThreshold) within a user's memory set and removes all but the
// best representative of each cluster: highest confidence, newest
// CreatedAt as tiebreak.
type Deduplicator struct {
	store Store
	model embeddings.Model
}

// NewDeduplicator creates a Deduplicator backed by store and model.
func NewDeduplicator(store Store, model embeddings.Model) *Deduplicator {
	return &Deduplicator{store: store, model: model}
}

// Run deduplicates userID's memories. It is idempotent: a second
// consecutive run over an already-deduplicated set reports zero removals.
func (d *Deduplicator) Run(ctx context.Context, userID string) (Result, error) {
	memories, err := d.store.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list memories for dedup: %w", err)
	}

	res := Result{Processed: len(memories)}
	removed := make(map[string]bool)

	for i := 0; i < len(memories); i++ {
		if removed[memories[i].ID] {
			continue
		}
		cluster := []*types.Memory{memories[i]}
		for j := i + 1; j < len(memories); j++ {
			if removed[memories[j].ID] {
				continue
			}
			sim, err := embeddings.Similarity(ctx, d.model, memories[i].Content, memories[j].Content)
			if err != nil {
				return res, fmt.Errorf("compute similarity: %w", err)
			}
			if sim > DuplicateThreshold {
				cluster = append(cluster, memories[j])
			}
		}
		if len(cluster) < 2 {
			continue
		}
		keep := bestOfCluster(cluster)
		for _, m := range cluster {
			if m.ID == keep.ID {
				continue
			}
			if err := d.store.Delete(ctx, userID, m.ID); err != nil {
				return res, fmt.Errorf("delete duplicate %s: %w", m.ID, err)
			}
			removed[m.ID] = true
			res.Removed++
			res.Details = append(res.Details, fmt.Sprintf("removed %s as duplicate of %s", m.ID, keep.ID))
		}
	}

	return res, nil
}

// bestOfCluster picks the highest-confidence memory, breaking ties by the
// newest CreatedAt.
func bestOfCluster(cluster []*types.Memory) *types.Memory {
	sorted := append([]*types.Memory(nil), cluster...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted[0]
}
