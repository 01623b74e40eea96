// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package provenance

import (
	"container/list"
	"sync"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// DefaultMaxEntries is the store's default LRU capacity.
const DefaultMaxEntries = 10000

type storeEntry struct {
	memoryID   string
	provenance *types.Provenance
	element    *list.Element
}

// Store is a bounded, LRU-evicted provenance record store with a
// per-memory retrieval-history ring.
type Store struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]*storeEntry
	lru        *list.List
	history    map[string][]RetrievalEvent
}

// RetrievalEvent is one entry in a memory's retrieval history ring.
type RetrievalEvent struct {
	Timestamp      int64
	Query          string
	RetrievalScore float64
}

// NewStore creates a Store bounded to maxEntries (DefaultMaxEntries when
// <= 0).
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		maxEntries: maxEntries,
		entries:    make(map[string]*storeEntry),
		lru:        list.New(),
		history:    make(map[string][]RetrievalEvent),
	}
}

// AttachToMemory re-validates p and stores it for memoryID, evicting the
// least-recently-used entry if the store is at capacity.
func (s *Store) AttachToMemory(memoryID string, p *types.Provenance) error {
	if err := ValidateIdentifier("memory_id", memoryID); err != nil {
		return err
	}
	if err := ValidateProvenance(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[memoryID]; ok {
		existing.provenance = p.Clone()
		s.lru.MoveToFront(existing.element)
		return nil
	}

	if len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	entry := &storeEntry{memoryID: memoryID, provenance: p.Clone()}
	entry.element = s.lru.PushFront(memoryID)
	s.entries[memoryID] = entry
	return nil
}

// Get returns a defensive copy of the provenance attached to memoryID,
// updating its LRU order.
func (s *Store) Get(memoryID string) (*types.Provenance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[memoryID]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(entry.element)
	return entry.provenance.Clone(), true
}

// Remove deletes memoryID's provenance and retrieval history.
func (s *Store) Remove(memoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(memoryID)
}

func (s *Store) removeLocked(memoryID string) {
	if entry, ok := s.entries[memoryID]; ok {
		s.lru.Remove(entry.element)
		delete(s.entries, memoryID)
	}
	delete(s.history, memoryID)
}

func (s *Store) evictOldestLocked() {
	back := s.lru.Back()
	if back == nil {
		return
	}
	memoryID := back.Value.(string)
	s.removeLocked(memoryID)
}

// TrackRetrieval appends a retrieval event to memoryID's history ring,
// silently no-opping when the memory has no attached provenance (this
// prevents orphan history entries).
func (s *Store) TrackRetrieval(memoryID string, event RetrievalEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[memoryID]; !ok {
		return
	}
	ring := append(s.history[memoryID], event)
	if len(ring) > RetrievalHistoryLimit {
		ring = ring[len(ring)-RetrievalHistoryLimit:]
	}
	s.history[memoryID] = ring
}

// History returns a copy of memoryID's retrieval-history ring.
func (s *Store) History(memoryID string) []RetrievalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RetrievalEvent(nil), s.history[memoryID]...)
}

// Size returns the number of provenance entries currently stored.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
