// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package maas implements the Memory-as-a-Service core (spec component R):
a process-wide agent registry, shared-memory pool registry, capability
gated handoff manager, and a security suite (content validator, poisoning
defense, rate limiter, audit logger) layered on top of pkg/types's
canonical AgentIdentity, SharedMemoryPool, and Handoff models.
*/
package maas

import (
	"sync"
	"time"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

// AgentRegistry tracks every registered agent and its active sessions
// under a single sync.RWMutex. The lock is not re-entrant; no registry
// method acquires it while already holding it. All accessors return defensive
// copies so a caller can never mutate registry state through an
// aliased pointer.
type AgentRegistry struct {
	mu       sync.RWMutex
	agents   map[string]*types.AgentIdentity
	sessions map[string]*types.AgentSession
}

// NewAgentRegistry creates an empty agent registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents:   make(map[string]*types.AgentIdentity),
		sessions: make(map[string]*types.AgentSession),
	}
}

// RegisterAgent adds agent to the registry. If agent.ID is empty one is
// generated; if it is supplied and already registered, ErrDuplicateID is
// returned.
func (r *AgentRegistry) RegisterAgent(agentType types.AgentType, ownerID, requestedID string) (*types.AgentIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requestedID != "" {
		if _, exists := r.agents[requestedID]; exists {
			return nil, memerrors.ErrDuplicateID.WithDetail("agent_id", requestedID)
		}
	}

	agent := types.NewAgentIdentity(requestedID, agentType, ownerID)
	r.agents[agent.ID] = agent
	return agent.Clone(), nil
}

// GetAgent returns the agent registered under id, or nil if none exists.
func (r *AgentRegistry) GetAgent(id string) *types.AgentIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id].Clone()
}

// GetAgentsByOwner returns every agent owned by ownerID.
func (r *AgentRegistry) GetAgentsByOwner(ownerID string) []*types.AgentIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*types.AgentIdentity
	for _, a := range r.agents {
		if a.OwnerID == ownerID {
			out = append(out, a.Clone())
		}
	}
	return out
}

// GetActiveAgents returns every agent whose Active flag is set.
func (r *AgentRegistry) GetActiveAgents() []*types.AgentIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*types.AgentIdentity
	for _, a := range r.agents {
		if a.Active {
			out = append(out, a.Clone())
		}
	}
	return out
}

// DeactivateAgent marks the agent inactive. It returns ErrDIDNotFound if
// the agent does not exist.
func (r *AgentRegistry) DeactivateAgent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[id]
	if !ok {
		return memerrors.ErrDIDNotFound.WithDetail("agent_id", id)
	}
	a.Active = false
	return nil
}

// IsAgentActive reports whether id names a registered, active agent.
func (r *AgentRegistry) IsAgentActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return ok && a.Active
}

// StartSession opens a new session for agentID and records it on the
// agent identity.
func (r *AgentRegistry) StartSession(agentID string) (*types.AgentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, memerrors.ErrDIDNotFound.WithDetail("agent_id", agentID)
	}

	session := &types.AgentSession{
		SessionID: types.GenerateSessionID(),
		AgentID:   agentID,
		StartedAt: time.Now(),
	}
	r.sessions[session.SessionID] = session
	agent.SessionID = &session.SessionID

	out := *session
	return &out, nil
}

// EndSession closes an open session by stamping its EndedAt.
func (r *AgentRegistry) EndSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return memerrors.ErrNotFound.WithDetail("session_id", sessionID)
	}
	if session.EndedAt == nil {
		now := time.Now()
		session.EndedAt = &now
	}
	return nil
}

// GetSession returns a copy of the session registered under sessionID, or
// nil if none exists.
func (r *AgentRegistry) GetSession(sessionID string) *types.AgentSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	out := *session
	if session.EndedAt != nil {
		ended := *session.EndedAt
		out.EndedAt = &ended
	}
	return &out
}
