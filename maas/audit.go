// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package maas

import (
	"context"
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/observability/logging"
)

// AuditEventType classifies a MaaSAuditLogger entry.
type AuditEventType string

const (
	AuditAgentOperation   AuditEventType = "agent_operation"
	AuditCrossAgentAccess AuditEventType = "cross_agent_access"
	AuditPermissionDenied AuditEventType = "permission_denied"
)

// AuditEvent is one append-only MaaSAuditLogger entry.
type AuditEvent struct {
	Type      AuditEventType
	ActorID   string
	Operation string
	Detail    string
	At        time.Time
}

// MaaSAuditLogger is an append-only, in-memory structured log of MaaS
// operations. It implements AuditLogger so a HandoffManager can attach
// it directly.
type MaaSAuditLogger struct {
	mu     sync.Mutex
	events []AuditEvent
	logger logging.Logger
}

// NewMaaSAuditLogger creates an empty audit logger.
func NewMaaSAuditLogger() *MaaSAuditLogger {
	return &MaaSAuditLogger{}
}

// SetLogger attaches a structured logger; every recorded event is
// forwarded to it at a severity matching its AuditEventType. Nil
// disables forwarding without affecting GetRecentLogs.
func (l *MaaSAuditLogger) SetLogger(logger logging.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

func (l *MaaSAuditLogger) append(e AuditEvent) {
	l.mu.Lock()
	e.At = time.Now()
	l.events = append(l.events, e)
	logger := l.logger
	l.mu.Unlock()

	if logger == nil {
		return
	}
	fields := []logging.Field{
		logging.String("actor_id", e.ActorID),
		logging.String("operation", e.Operation),
		logging.String("detail", e.Detail),
	}
	switch e.Type {
	case AuditPermissionDenied:
		logger.Warn(context.Background(), "maas permission denied", fields...)
	default:
		logger.Info(context.Background(), "maas "+string(e.Type), fields...)
	}
}

// LogAgentOperation records a routine agent-initiated operation.
func (l *MaaSAuditLogger) LogAgentOperation(actorID, operation, detail string) {
	l.append(AuditEvent{Type: AuditAgentOperation, ActorID: actorID, Operation: operation, Detail: detail})
}

// LogCrossAgentAccess records one agent reading or sharing another
// agent's memory.
func (l *MaaSAuditLogger) LogCrossAgentAccess(actorID, operation, detail string) {
	l.append(AuditEvent{Type: AuditCrossAgentAccess, ActorID: actorID, Operation: operation, Detail: detail})
}

// LogPermissionDenied records a denied operation. Satisfies AuditLogger.
func (l *MaaSAuditLogger) LogPermissionDenied(actorID, operation, reason string) {
	l.append(AuditEvent{Type: AuditPermissionDenied, ActorID: actorID, Operation: operation, Detail: reason})
}

// GetRecentLogs returns up to limit of the most recently recorded
// events, newest first.
func (l *MaaSAuditLogger) GetRecentLogs(limit int) []AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.events) {
		limit = len(l.events)
	}
	out := make([]AuditEvent, limit)
	for i := 0; i < limit; i++ {
		out[i] = l.events[len(l.events)-1-i]
	}
	return out
}
