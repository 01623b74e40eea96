// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package provider

import (
	"context"
	"testing"

	"github.com/sage-x-project/memory-engine/pkg/types"
	"github.com/sage-x-project/memory-engine/storage"
)

func TestLocalProvider_StoreAssignsIDAndRetrieves(t *testing.T) {
	p := NewLocalProvider(nil)
	ctx := context.Background()

	id, err := p.Store(ctx, types.NewMemory("user-1", "likes dark roast coffee", types.MemoryTypePreference, 0.9, "chat"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated memory ID")
	}

	results, err := p.Retrieve(ctx, "coffee", "user-1", 10)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Fatalf("expected to retrieve the stored memory, got %+v", results)
	}
}

func TestLocalProvider_RetrieveExcludesInvalidMemories(t *testing.T) {
	p := NewLocalProvider(nil)
	ctx := context.Background()

	m := types.NewMemory("user-1", "stale fact", types.MemoryTypeFact, 0.5, "chat")
	m.Metadata["is_valid"] = false
	p.Store(ctx, m)

	results, _ := p.Retrieve(ctx, "stale", "user-1", 10)
	if len(results) != 0 {
		t.Fatalf("expected invalid memory to be excluded, got %+v", results)
	}
}

func TestLocalProvider_GetByIDAndDelete(t *testing.T) {
	p := NewLocalProvider(nil)
	ctx := context.Background()
	id, _ := p.Store(ctx, types.NewMemory("user-1", "a fact", types.MemoryTypeFact, 0.9, "chat"))

	if got, _ := p.GetByID(ctx, id); got == nil {
		t.Fatal("expected GetByID to find the stored memory")
	}

	ok, err := p.Delete(ctx, id)
	if err != nil || !ok {
		t.Fatalf("Delete failed: ok=%v err=%v", ok, err)
	}
	if got, _ := p.GetByID(ctx, id); got != nil {
		t.Fatal("expected the memory to be gone after delete")
	}
	if ok, _ := p.Delete(ctx, id); ok {
		t.Error("expected deleting an already-deleted memory to report false")
	}
}

func TestLocalProvider_SearchFiltersByTypeAndConfidence(t *testing.T) {
	p := NewLocalProvider(nil)
	ctx := context.Background()
	p.Store(ctx, types.NewMemory("user-1", "fact one", types.MemoryTypeFact, 0.9, "chat"))
	p.Store(ctx, types.NewMemory("user-1", "pref one", types.MemoryTypePreference, 0.3, "chat"))

	results, err := p.Search(ctx, "user-1", Filters{MemoryType: types.MemoryTypeFact, MinConfidence: 0.5}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].MemoryType != types.MemoryTypeFact {
		t.Fatalf("expected only the high-confidence fact, got %+v", results)
	}
}

func TestLocalProvider_UpdateMergesMetadataAndRecordsHistory(t *testing.T) {
	p := NewLocalProvider(nil)
	ctx := context.Background()
	id, _ := p.Store(ctx, types.NewMemory("user-1", "a fact", types.MemoryTypeFact, 0.9, "chat"))

	updated, err := p.Update(ctx, id, map[string]interface{}{"tag": "important"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Metadata["tag"] != "important" {
		t.Errorf("expected merged metadata field, got %+v", updated.Metadata)
	}
	history, ok := updated.Metadata["update_history"].([]interface{})
	if !ok || len(history) != 1 {
		t.Fatalf("expected one update_history entry, got %+v", updated.Metadata["update_history"])
	}
}

func TestLocalProvider_RetrieveWithScoresRequiresHybridMode(t *testing.T) {
	p := NewLocalProvider(nil)
	if _, err := p.RetrieveWithScores(context.Background(), "q", "user-1", 5, false, false); err == nil {
		t.Fatal("expected retrieve_with_scores to fail without an attached hybrid retriever")
	}
}

func TestLocalProvider_RetrieveWithMetricsRequiresHybridMode(t *testing.T) {
	p := NewLocalProvider(nil)
	if _, _, err := p.RetrieveWithMetrics(context.Background(), "q", "user-1", 5, false, false); err == nil {
		t.Fatal("expected retrieve_with_metrics to fail without an attached hybrid retriever")
	}
}

func TestLocalProvider_WithExplicitStorageBacksMemories(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	p := NewLocalProviderWithStorage(store, nil)

	id, err := p.Store(ctx, types.NewMemory("user-1", "prefers oat milk", types.MemoryTypePreference, 0.8, "chat"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := store.Get(ctx, memoryNamespace, id); err != nil {
		t.Fatalf("expected memory %s to be present in the backing store: %v", id, err)
	}

	if ok, err := p.Delete(ctx, id); err != nil || !ok {
		t.Fatalf("Delete failed: ok=%v err=%v", ok, err)
	}
	if _, err := store.Get(ctx, memoryNamespace, id); err == nil {
		t.Fatal("expected memory to be removed from the backing store after Delete")
	}
}
