// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package hindsight implements the timeline event store (spec component
Q): an append-mostly log of entity events with by_entity, by_network,
and by_time secondary indexes, supersession chains, and a
natural-language TemporalSearch layer.
*/
package hindsight

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// Store is an in-memory event store with by_entity, by_network, and
// by_time secondary indexes over types.TemporalEvent.
type Store struct {
	mu        sync.RWMutex
	byID      map[string]*types.TemporalEvent
	byEntity  map[string][]*types.TemporalEvent
	byNetwork map[types.Network][]*types.TemporalEvent
	byTime    []*types.TemporalEvent
}

// NewStore creates an empty event store.
func NewStore() *Store {
	return &Store{
		byID:      make(map[string]*types.TemporalEvent),
		byEntity:  make(map[string][]*types.TemporalEvent),
		byNetwork: make(map[types.Network][]*types.TemporalEvent),
	}
}

// Insert appends event to the store. If event.ID is empty, one is
// assigned. If event.Supersedes names a prior event, that event's
// ValidUntil is closed to event.Timestamp — the one mutation permitted
// against an already-inserted event.
func (s *Store) Insert(event types.TemporalEvent) (*types.TemporalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = types.GenerateEventID()
	}
	if _, exists := s.byID[event.ID]; exists {
		return nil, fmt.Errorf("event %s already exists", event.ID)
	}
	if event.ValidFrom == nil {
		event.ValidFrom = &event.Timestamp
	}

	if event.Supersedes != nil {
		prior, ok := s.byID[*event.Supersedes]
		if !ok {
			return nil, fmt.Errorf("supersedes unknown event %s", *event.Supersedes)
		}
		validUntil := event.Timestamp
		prior.ValidUntil = &validUntil
	}

	stored := event.Clone()
	s.byID[stored.ID] = stored
	s.byEntity[stored.EntityID] = append(s.byEntity[stored.EntityID], stored)
	if stored.Network != "" {
		s.byNetwork[stored.Network] = append(s.byNetwork[stored.Network], stored)
	}
	s.byTime = insertSortedByTime(s.byTime, stored)

	return stored.Clone(), nil
}

func insertSortedByTime(events []*types.TemporalEvent, e *types.TemporalEvent) []*types.TemporalEvent {
	idx := sort.Search(len(events), func(i int) bool {
		return events[i].Timestamp.After(e.Timestamp)
	})
	events = append(events, nil)
	copy(events[idx+1:], events[idx:])
	events[idx] = e
	return events
}

// ByEntity returns all events for entityID, in insertion order.
func (s *Store) ByEntity(entityID string) []*types.TemporalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.byEntity[entityID])
}

// ByNetwork returns all events on network, in insertion order.
func (s *Store) ByNetwork(network types.Network) []*types.TemporalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.byNetwork[network])
}

// ByTimeRange returns events with Timestamp in [start, end], ordered by
// Timestamp ascending.
func (s *Store) ByTimeRange(start, end time.Time) []*types.TemporalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.TemporalEvent
	for _, e := range s.byTime {
		if e.Timestamp.Before(start) {
			continue
		}
		if e.Timestamp.After(end) {
			break
		}
		out = append(out, e)
	}
	return cloneAll(out)
}

// Intersect returns events matching every non-empty/non-zero filter
// supplied: entityID, network, and [start, end].
func (s *Store) Intersect(entityID string, network types.Network, start, end time.Time) []*types.TemporalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*types.TemporalEvent
	switch {
	case entityID != "":
		candidates = s.byEntity[entityID]
	case network != "":
		candidates = s.byNetwork[network]
	default:
		candidates = s.byTime
	}

	var out []*types.TemporalEvent
	for _, e := range candidates {
		if entityID != "" && e.EntityID != entityID {
			continue
		}
		if network != "" && e.Network != network {
			continue
		}
		if !start.IsZero() && e.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && e.Timestamp.After(end) {
			continue
		}
		out = append(out, e)
	}
	return cloneAll(out)
}

// GetEntityStateAt returns the latest event for entityID that is active
// at atTime (types.TemporalEvent.ActiveAt), or nil if none is.
func (s *Store) GetEntityStateAt(entityID string, atTime time.Time) *types.TemporalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *types.TemporalEvent
	for _, e := range s.byEntity[entityID] {
		if !e.ActiveAt(atTime) {
			continue
		}
		if latest == nil || e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	return latest.Clone()
}

func cloneAll(events []*types.TemporalEvent) []*types.TemporalEvent {
	out := make([]*types.TemporalEvent, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// Export serializes every stored event to JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.byTime)
}

// Import loads events from JSON produced by Export, replacing the
// store's current contents.
func (s *Store) Import(data []byte) error {
	var events []*types.TemporalEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("unmarshal hindsight events: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*types.TemporalEvent, len(events))
	s.byEntity = make(map[string][]*types.TemporalEvent)
	s.byNetwork = make(map[types.Network][]*types.TemporalEvent)
	s.byTime = nil
	for _, e := range events {
		s.byID[e.ID] = e
		s.byEntity[e.EntityID] = append(s.byEntity[e.EntityID], e)
		if e.Network != "" {
			s.byNetwork[e.Network] = append(s.byNetwork[e.Network], e)
		}
		s.byTime = insertSortedByTime(s.byTime, e)
	}
	return nil
}
