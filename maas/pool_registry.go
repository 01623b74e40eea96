// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package maas

import (
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/observability/metrics"
	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

// PoolRegistry tracks shared-memory pools keyed by id. Every accessor
// returns a defensive copy of pool state via types.SharedMemoryPool.Clone.
type PoolRegistry struct {
	mu        sync.RWMutex
	pools     map[string]*types.SharedMemoryPool
	agents    *AgentRegistry
	collector metrics.Collector
}

// SetMetricsCollector attaches a metrics collector; every successful
// ShareMemory call increments a pool-scoped counter. Nil disables
// metrics.
func (r *PoolRegistry) SetMetricsCollector(collector metrics.Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collector = collector
}

// NewPoolRegistry creates a pool registry that resolves agent ownership
// against agents when deciding join-time permission upgrades.
func NewPoolRegistry(agents *AgentRegistry) *PoolRegistry {
	return &PoolRegistry{
		pools:  make(map[string]*types.SharedMemoryPool),
		agents: agents,
	}
}

// CreatePool registers a new pool. If id is empty one is generated; a
// supplied id that already exists fails with ErrDuplicateID.
func (r *PoolRegistry) CreatePool(id, name, ownerID string, scope types.SharedScope) (*types.SharedMemoryPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = types.GeneratePoolID()
	} else if _, exists := r.pools[id]; exists {
		return nil, memerrors.ErrDuplicateID.WithDetail("pool_id", id)
	}

	pool := &types.SharedMemoryPool{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		Scope:     scope,
		Status:    types.PoolStatusActive,
		Members:   make(map[string]types.PermissionLevel),
		CreatedAt: time.Now(),
	}
	r.pools[id] = pool
	return pool.Clone(), nil
}

// GetPool returns a copy of the pool registered under id, or nil.
func (r *PoolRegistry) GetPool(id string) *types.SharedMemoryPool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[id].Clone()
}

// JoinPool adds agentID to pool with the requested permission. It
// returns false if the pool or agent does not exist. When the agent's
// owner matches the pool's owner, the granted permission is silently
// upgraded to ADMIN regardless of what was requested.
func (r *PoolRegistry) JoinPool(poolID, agentID string, requested types.PermissionLevel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[poolID]
	if !ok {
		return false
	}
	agent := r.agents.GetAgent(agentID)
	if agent == nil {
		return false
	}

	granted := requested
	if agent.OwnerID == pool.OwnerID {
		granted = types.PermissionAdmin
	}
	pool.Members[agentID] = granted
	return true
}

// LeavePool removes agentID's membership from pool. It is a no-op if
// either does not exist.
func (r *PoolRegistry) LeavePool(poolID, agentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pool, ok := r.pools[poolID]; ok {
		delete(pool.Members, agentID)
	}
}

// CheckAccess reports whether agentID's permission on pool includes
// required.
func (r *PoolRegistry) CheckAccess(poolID, agentID string, required types.PermissionLevel) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[poolID]
	if !ok {
		return false
	}
	granted, member := pool.Members[agentID]
	return member && granted.Includes(required)
}

// ShareMemory records memoryID as shared into pool by sharingAgentID at
// scope. The sharing agent must hold at least WRITE permission.
func (r *PoolRegistry) ShareMemory(poolID, sharingAgentID, memoryID string, scope types.SharedScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[poolID]
	if !ok {
		return memerrors.ErrNotFound.WithDetail("pool_id", poolID)
	}
	granted, member := pool.Members[sharingAgentID]
	if !member || !granted.Includes(types.PermissionWrite) {
		return memerrors.ErrPermissionDenied.WithDetail("pool_id", poolID).WithDetail("agent_id", sharingAgentID)
	}

	pool.SharedMemories = append(pool.SharedMemories, types.SharedMemoryRow{
		MemoryID:       memoryID,
		SharingAgentID: sharingAgentID,
		Scope:          scope,
		SharedAt:       time.Now(),
	})
	if r.collector != nil {
		r.collector.IncrementCounter("shared_memories_total", metrics.NewLabels("pool_id", poolID))
	}
	return nil
}

// QuerySharedMemory returns the shared-memory rows in pool visible to an
// agent whose maximum scope is maxScope.
func (r *PoolRegistry) QuerySharedMemory(poolID string, maxScope types.SharedScope) ([]types.SharedMemoryRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, ok := r.pools[poolID]
	if !ok {
		return nil, memerrors.ErrNotFound.WithDetail("pool_id", poolID)
	}

	var out []types.SharedMemoryRow
	for _, row := range pool.SharedMemories {
		if row.Scope.VisibleTo(maxScope) {
			out = append(out, row)
		}
	}
	return out, nil
}

// ArchivePool transitions pool to ARCHIVED status.
func (r *PoolRegistry) ArchivePool(poolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pool, ok := r.pools[poolID]
	if !ok {
		return memerrors.ErrNotFound.WithDetail("pool_id", poolID)
	}
	pool.Status = types.PoolStatusArchived
	return nil
}

// DeletePool permanently removes pool from the registry.
func (r *PoolRegistry) DeletePool(poolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[poolID]; !ok {
		return memerrors.ErrNotFound.WithDetail("pool_id", poolID)
	}
	delete(r.pools, poolID)
	return nil
}
