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

// MaxHandoffs bounds the total number of handoffs a HandoffManager will
// track, regardless of status.
const MaxHandoffs = 50000

// MaxPendingPerTarget bounds how many PENDING handoffs may target a
// single agent at once.
const MaxPendingPerTarget = 100

// AuditLogger receives handoff denial and permission events. Any
// component satisfying this may be attached; nil disables logging.
type AuditLogger interface {
	LogPermissionDenied(actorID, operation, reason string)
}

// HandoffManager issues and tracks capability-gated task handoffs
// between agents, enforcing the DoS caps and strict FSM transitions of
// types.HandoffStatus.
type HandoffManager struct {
	mu              sync.Mutex
	agents          *AgentRegistry
	handoffs        map[string]*types.Handoff
	pendingByTarget map[string]int
	audit           AuditLogger
	collector       metrics.Collector
}

// SetMetricsCollector attaches a metrics collector; InitiateHandoff and
// every status transition increment a counter tagged by status. Nil
// disables metrics.
func (m *HandoffManager) SetMetricsCollector(collector metrics.Collector) {
	m.collector = collector
}

// NewHandoffManager creates a handoff manager resolving capabilities
// against agents. audit may be nil.
func NewHandoffManager(agents *AgentRegistry, audit AuditLogger) *HandoffManager {
	return &HandoffManager{
		agents:          agents,
		handoffs:        make(map[string]*types.Handoff),
		pendingByTarget: make(map[string]int),
		audit:           audit,
	}
}

// InitiateHandoff validates capabilities, enforces capacity caps, and
// creates a PENDING handoff from source to target. It returns nil (not
// an error) when a capability check fails, after logging a denial event;
// it returns an error only for capacity exhaustion.
func (m *HandoffManager) InitiateHandoff(sourceAgentID, targetAgentID string, context *types.HandoffContext, ttl time.Duration) (*types.Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	source := m.agents.GetAgent(sourceAgentID)
	if source == nil || !source.HasCapability(types.CapabilityHandoffInitiate) {
		m.deny(sourceAgentID, "initiate_handoff", "source lacks HANDOFF_INITIATE")
		return nil, nil
	}
	target := m.agents.GetAgent(targetAgentID)
	if target == nil || !target.HasCapability(types.CapabilityHandoffReceive) {
		m.deny(sourceAgentID, "initiate_handoff", "target lacks HANDOFF_RECEIVE")
		return nil, nil
	}

	if len(m.handoffs) >= MaxHandoffs {
		return nil, memerrors.ErrCapacityExceeded.WithDetail("limit", MaxHandoffs).WithDetail("resource", "handoffs")
	}
	if m.pendingByTarget[targetAgentID] >= MaxPendingPerTarget {
		return nil, memerrors.ErrCapacityExceeded.WithDetail("limit", MaxPendingPerTarget).WithDetail("resource", "pending_handoffs_per_target")
	}

	h := &types.Handoff{
		ID:            types.GenerateHandoffID(),
		SourceAgentID: sourceAgentID,
		TargetAgentID: targetAgentID,
		Context:       context.Clone(),
		Status:        types.HandoffPending,
		CreatedAt:     time.Now(),
	}
	if ttl > 0 {
		expires := h.CreatedAt.Add(ttl)
		h.ExpiresAt = &expires
	}

	m.handoffs[h.ID] = h
	m.pendingByTarget[targetAgentID]++
	if m.collector != nil {
		m.collector.IncrementCounter("handoffs_total", metrics.NewLabels("status", string(types.HandoffPending)))
	}
	return h.Clone(), nil
}

// Accept transitions a PENDING handoff to ACCEPTED. Only the target
// agent may accept; a mismatch logs PERMISSION_DENIED and returns nil.
func (m *HandoffManager) Accept(handoffID, callerAgentID string) *types.Handoff {
	return m.transition(handoffID, callerAgentID, types.HandoffAccepted, func(h *types.Handoff) {
		now := time.Now()
		h.AcceptedAt = &now
	})
}

// Reject transitions a PENDING handoff to REJECTED with reason.
func (m *HandoffManager) Reject(handoffID, callerAgentID, reason string) *types.Handoff {
	return m.transition(handoffID, callerAgentID, types.HandoffRejected, func(h *types.Handoff) {
		h.RejectionReason = reason
	})
}

// Complete transitions an ACCEPTED handoff to COMPLETED, recording
// result.
func (m *HandoffManager) Complete(handoffID, callerAgentID string, result map[string]interface{}) *types.Handoff {
	return m.transition(handoffID, callerAgentID, types.HandoffCompleted, func(h *types.Handoff) {
		now := time.Now()
		h.CompletedAt = &now
		h.Result = result
	})
}

func (m *HandoffManager) transition(handoffID, callerAgentID string, next types.HandoffStatus, apply func(*types.Handoff)) *types.Handoff {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handoffs[handoffID]
	if !ok {
		return nil
	}
	if h.TargetAgentID != callerAgentID {
		m.deny(callerAgentID, "handoff_transition", "caller is not the handoff target")
		return nil
	}
	if !h.Status.CanTransition(next) {
		m.deny(callerAgentID, "handoff_transition", "illegal status transition")
		return nil
	}

	wasPending := h.Status == types.HandoffPending
	h.Status = next
	apply(h)
	if wasPending {
		m.pendingByTarget[h.TargetAgentID]--
	}
	if m.collector != nil {
		m.collector.IncrementCounter("handoffs_total", metrics.NewLabels("status", string(next)))
	}
	return h.Clone()
}

// GetHandoff returns a defensive copy of the handoff registered under id.
func (m *HandoffManager) GetHandoff(id string) *types.Handoff {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handoffs[id].Clone()
}

// ExpireOldHandoffs transitions every PENDING handoff whose TTL has
// elapsed as of now to EXPIRED, returning how many were expired.
func (m *HandoffManager) ExpireOldHandoffs(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired int
	for _, h := range m.handoffs {
		if h.Status == types.HandoffPending && h.IsExpired(now) {
			h.Status = types.HandoffExpired
			m.pendingByTarget[h.TargetAgentID]--
			expired++
			if m.collector != nil {
				m.collector.IncrementCounter("handoffs_total", metrics.NewLabels("status", string(types.HandoffExpired)))
			}
		}
	}
	return expired
}

func (m *HandoffManager) deny(actorID, operation, reason string) {
	if m.audit != nil {
		m.audit.LogPermissionDenied(actorID, operation, reason)
	}
}
