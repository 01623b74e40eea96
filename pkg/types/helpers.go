// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerateMemoryID generates a new unique memory ID.
func GenerateMemoryID() string {
	return "mem-" + uuid.New().String()
}

// GenerateProvenanceID generates a new unique provenance source ID.
func GenerateProvenanceID() string {
	return "prov-" + uuid.New().String()
}

// GenerateAgentID generates a new unique agent ID.
func GenerateAgentID() string {
	return "agent-" + uuid.New().String()
}

// GenerateSessionID generates a new unique agent session ID.
func GenerateSessionID() string {
	return "session-" + uuid.New().String()
}

// GeneratePoolID generates a new unique shared-memory pool ID.
func GeneratePoolID() string {
	return "pool-" + uuid.New().String()
}

// GenerateHandoffID generates a new unique handoff ID.
func GenerateHandoffID() string {
	return "handoff-" + uuid.New().String()
}

// GenerateEventID generates a new unique hindsight event ID.
func GenerateEventID() string {
	return "event-" + uuid.New().String()
}

// NewMemory constructs a Memory with a generated ID and the invariant
// LastAccessedAt == CreatedAt.
func NewMemory(userID, content string, memType MemoryType, confidence float64, source string) *Memory {
	now := time.Now()
	return &Memory{
		ID:             GenerateMemoryID(),
		UserID:         userID,
		Content:        content,
		MemoryType:     memType,
		Confidence:     confidence,
		Source:         source,
		CreatedAt:      now,
		LastAccessedAt: now,
		Metadata:       make(map[string]interface{}),
	}
}

// NewAgentIdentity constructs an AgentIdentity with the default capability
// set for its agent type, unless id is supplied by the caller.
func NewAgentIdentity(id string, agentType AgentType, ownerID string) *AgentIdentity {
	if id == "" {
		id = GenerateAgentID()
	}
	return &AgentIdentity{
		ID:           id,
		AgentType:    agentType,
		OwnerID:      ownerID,
		Capabilities: DefaultCapabilities(agentType),
		Metadata:     make(map[string]interface{}),
		CreatedAt:    time.Now(),
		Active:       true,
	}
}
