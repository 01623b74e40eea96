// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package provider implements the memory provider (spec component A): the
top-level store/retrieve/search/update surface backing the engine,
delegating indexed retrieval to an optionally attached hybrid retriever.
*/
package provider

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/hybrid"
	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
	"github.com/sage-x-project/memory-engine/storage"
)

// memoryNamespace is the storage.Storage namespace LocalProvider keeps
// memories under.
const memoryNamespace = "memories"

// Filters narrows a Search call.
type Filters struct {
	MemoryType     types.MemoryType
	Source         string
	MinConfidence  float64
	IncludeInvalid bool
}

// Provider is the top-level memory store/retrieve/search/update surface.
type Provider interface {
	Store(ctx context.Context, mem *types.Memory) (string, error)
	Retrieve(ctx context.Context, query, userID string, limit int) ([]*types.Memory, error)
	GetByID(ctx context.Context, id string) (*types.Memory, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, userID string, filters Filters, limit int) ([]*types.Memory, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*types.Memory, error)
}

// LocalProvider is an in-process Provider implementation, optionally
// backed by a hybrid retriever for indexed retrieval; absent one,
// Retrieve falls back to a case-folded substring match. Memories
// themselves live in an attached storage.Storage; byUser is an
// in-process secondary index over that store's memoryNamespace.
type LocalProvider struct {
	mu     sync.RWMutex
	store  storage.Storage
	byUser map[string][]string
	hybrid *hybrid.Retriever
}

// NewLocalProvider creates a provider backed by a fresh
// storage.MemoryStorage. hybridRetriever may be nil.
func NewLocalProvider(hybridRetriever *hybrid.Retriever) *LocalProvider {
	return NewLocalProviderWithStorage(storage.NewMemoryStorage(), hybridRetriever)
}

// NewLocalProviderWithStorage creates a provider backed by store, which
// may be any storage.Storage implementation (e.g. a persistent
// backend). hybridRetriever may be nil.
func NewLocalProviderWithStorage(store storage.Storage, hybridRetriever *hybrid.Retriever) *LocalProvider {
	return &LocalProvider{
		store:  store,
		byUser: make(map[string][]string),
		hybrid: hybridRetriever,
	}
}

// getMemory fetches and type-asserts a memory from the backing store.
// It returns (nil, nil) when the store reports not-found.
func (p *LocalProvider) getMemory(ctx context.Context, id string) (*types.Memory, error) {
	v, err := p.store.Get(ctx, memoryNamespace, id)
	if err != nil {
		if memerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	m, ok := v.(*types.Memory)
	if !ok {
		return nil, memerrors.ErrInternal.WithDetail("memory_id", id)
	}
	return m, nil
}

// Store deep-copies mem, assigns a fresh ID if absent, indexes it in the
// attached hybrid retriever if any, and records it under its user.
func (p *LocalProvider) Store(ctx context.Context, mem *types.Memory) (string, error) {
	stored := mem.Clone()
	if stored.ID == "" {
		stored.ID = types.GenerateMemoryID()
	}

	p.mu.Lock()
	if err := p.store.Store(ctx, memoryNamespace, stored.ID, stored); err != nil {
		p.mu.Unlock()
		return "", memerrors.Wrap(err, "store memory")
	}
	p.byUser[stored.UserID] = append(p.byUser[stored.UserID], stored.ID)
	p.mu.Unlock()

	if p.hybrid != nil {
		if err := p.hybrid.AddMemory(ctx, stored.UserID, stored.ID, stored); err != nil {
			return "", memerrors.Wrap(err, "index memory")
		}
	}
	return stored.ID, nil
}

// Retrieve delegates to the attached hybrid retriever if present for
// userID; otherwise performs a case-folded substring match over the
// user's memories. Memories marked metadata.is_valid = false are
// excluded.
func (p *LocalProvider) Retrieve(ctx context.Context, query, userID string, limit int) ([]*types.Memory, error) {
	if p.hybrid != nil && p.hybrid.HasIndex(userID) {
		results, err := p.hybrid.RetrieveSimple(ctx, query, userID, limit)
		if err != nil {
			return nil, err
		}
		out := make([]*types.Memory, len(results))
		for i, r := range results {
			out[i] = r.Memory
		}
		return out, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	lower := strings.ToLower(query)
	var out []*types.Memory
	for _, id := range p.byUser[userID] {
		m, err := p.getMemory(ctx, id)
		if err != nil {
			return nil, err
		}
		if m == nil || !m.IsValid() {
			continue
		}
		if lower == "" || strings.Contains(strings.ToLower(m.Content), lower) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RetrieveWithScores runs the full hybrid pipeline and returns each hit
// alongside its fused score and per-source contributions. It requires a
// hybrid retriever to be attached and indexed for userID.
func (p *LocalProvider) RetrieveWithScores(ctx context.Context, query, userID string, limit int, expandQuery, useReranker bool) ([]hybrid.Result, error) {
	if p.hybrid == nil || !p.hybrid.HasIndex(userID) {
		return nil, memerrors.ErrValidationFailed.WithDetail("reason", "retrieve_with_scores requires an attached, indexed hybrid retriever")
	}
	results, _, err := p.hybrid.Retrieve(ctx, query, userID, limit, expandQuery, useReranker)
	return results, err
}

// RetrieveWithMetrics is RetrieveWithScores plus the pipeline's
// performance and composition metrics.
func (p *LocalProvider) RetrieveWithMetrics(ctx context.Context, query, userID string, limit int, expandQuery, useReranker bool) ([]hybrid.Result, hybrid.Metrics, error) {
	if p.hybrid == nil || !p.hybrid.HasIndex(userID) {
		return nil, hybrid.Metrics{}, memerrors.ErrValidationFailed.WithDetail("reason", "retrieve_with_metrics requires an attached, indexed hybrid retriever")
	}
	return p.hybrid.Retrieve(ctx, query, userID, limit, expandQuery, useReranker)
}

// GetByID returns a copy of the memory registered under id, or nil if
// none exists.
func (p *LocalProvider) GetByID(ctx context.Context, id string) (*types.Memory, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, err := p.getMemory(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Delete removes the memory registered under id, tearing down its index
// entry on success.
func (p *LocalProvider) Delete(ctx context.Context, id string) (bool, error) {
	p.mu.Lock()
	m, err := p.getMemory(ctx, id)
	if err != nil {
		p.mu.Unlock()
		return false, err
	}
	if m == nil {
		p.mu.Unlock()
		return false, nil
	}
	if err := p.store.Delete(ctx, memoryNamespace, id); err != nil {
		p.mu.Unlock()
		return false, err
	}
	ids := p.byUser[m.UserID]
	for i, existing := range ids {
		if existing == id {
			p.byUser[m.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	p.mu.Unlock()

	if p.hybrid != nil {
		p.hybrid.RemoveMemory(m.UserID, id)
	}
	return true, nil
}

// Search filters a user's memories by memory type, source, minimum
// confidence, and validity.
func (p *LocalProvider) Search(ctx context.Context, userID string, filters Filters, limit int) ([]*types.Memory, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []*types.Memory
	for _, id := range p.byUser[userID] {
		m, err := p.getMemory(ctx, id)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		if !filters.IncludeInvalid && !m.IsValid() {
			continue
		}
		if filters.MemoryType != "" && m.MemoryType != filters.MemoryType {
			continue
		}
		if filters.Source != "" && m.Source != filters.Source {
			continue
		}
		if m.Confidence < filters.MinConfidence {
			continue
		}
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update deep-merges updates into the memory's metadata and appends an
// audit row to metadata.update_history.
func (p *LocalProvider) Update(ctx context.Context, id string, updates map[string]interface{}) (*types.Memory, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, err := p.getMemory(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, memerrors.ErrNotFound.WithDetail("memory_id", id)
	}

	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	history, _ := m.Metadata["update_history"].([]interface{})
	history = append(history, map[string]interface{}{"updated_at": time.Now(), "fields": updateKeys(updates)})

	mergeMetadata(m.Metadata, updates)
	m.Metadata["update_history"] = history
	m.LastModifiedAt = time.Now()

	if err := p.store.Store(ctx, memoryNamespace, id, m); err != nil {
		return nil, memerrors.Wrap(err, "store updated memory")
	}
	return m.Clone(), nil
}

func mergeMetadata(dst, src map[string]interface{}) {
	for k, v := range src {
		if sub, ok := v.(map[string]interface{}); ok {
			if existing, ok := dst[k].(map[string]interface{}); ok {
				mergeMetadata(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func updateKeys(updates map[string]interface{}) []string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
