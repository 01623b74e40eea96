// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package scoped implements the cascading scope retriever (spec component
P): a USER < PROJECT < GLOBAL ordered scope hierarchy that, on a
short result set, merges in results from strictly higher scopes while
preserving rank and deduplicating by memory id.
*/
package scoped

import (
	"context"
	"fmt"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// Scope is a retrieval visibility tier, ordered USER < PROJECT < GLOBAL.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeProject
	ScopeGlobal
)

// String returns the canonical scope name.
func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeProject:
		return "project"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// higherScopes returns the scopes strictly above s, in ascending order.
func higherScopes(s Scope) []Scope {
	var out []Scope
	for candidate := s + 1; candidate <= ScopeGlobal; candidate++ {
		out = append(out, candidate)
	}
	return out
}

// UserSearch searches a single user's scope.
type UserSearch func(ctx context.Context, query, userID string, limit int) ([]*types.Memory, error)

// ProjectSearch searches a single project's scope.
type ProjectSearch func(ctx context.Context, query, projectID string, limit int) ([]*types.Memory, error)

// GlobalSearch searches the global scope.
type GlobalSearch func(ctx context.Context, query string, limit int) ([]*types.Memory, error)

// Retriever cascades retrieval across the USER/PROJECT/GLOBAL scope
// hierarchy.
type Retriever struct {
	userSearch    UserSearch
	projectSearch ProjectSearch
	globalSearch  GlobalSearch
}

// New creates a Retriever. projectSearch may be nil if no project scope
// is configured, in which case any cascade into ScopeProject is skipped.
func New(userSearch UserSearch, projectSearch ProjectSearch, globalSearch GlobalSearch) *Retriever {
	return &Retriever{userSearch: userSearch, projectSearch: projectSearch, globalSearch: globalSearch}
}

// Retrieve queries scope first; if cascade is true and fewer than limit
// results were found, it merges in results from strictly higher scopes,
// in ascending scope order, deduplicating by memory id while preserving
// the rank each memory first appeared at.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string, scope Scope, projectID string, cascade bool, limit int) ([]*types.Memory, error) {
	results, err := r.searchScope(ctx, scope, query, userID, projectID, limit)
	if err != nil {
		return nil, err
	}

	if !cascade || len(results) >= limit {
		return truncate(results, limit), nil
	}

	seen := make(map[string]bool, len(results))
	for _, m := range results {
		seen[m.ID] = true
	}

	for _, higher := range higherScopes(scope) {
		if len(results) >= limit {
			break
		}
		more, err := r.searchScope(ctx, higher, query, userID, projectID, limit)
		if err != nil {
			return nil, err
		}
		for _, m := range more {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			results = append(results, m)
			if len(results) >= limit {
				break
			}
		}
	}

	return truncate(results, limit), nil
}

func (r *Retriever) searchScope(ctx context.Context, scope Scope, query, userID, projectID string, limit int) ([]*types.Memory, error) {
	switch scope {
	case ScopeUser:
		if r.userSearch == nil {
			return nil, nil
		}
		return r.userSearch(ctx, query, userID, limit)
	case ScopeProject:
		if r.projectSearch == nil || projectID == "" {
			return nil, nil
		}
		return r.projectSearch(ctx, query, projectID, limit)
	case ScopeGlobal:
		if r.globalSearch == nil {
			return nil, nil
		}
		return r.globalSearch(ctx, query, limit)
	default:
		return nil, fmt.Errorf("unknown scope %v", scope)
	}
}

func truncate(results []*types.Memory, limit int) []*types.Memory {
	if limit >= 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
