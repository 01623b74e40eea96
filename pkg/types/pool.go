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

import "time"

// PoolStatus is the lifecycle state of a SharedMemoryPool.
type PoolStatus string

const (
	PoolStatusActive   PoolStatus = "ACTIVE"
	PoolStatusArchived PoolStatus = "ARCHIVED"
)

// SharedMemoryRow records one memory shared into a pool.
type SharedMemoryRow struct {
	MemoryID       string      `json:"memory_id"`
	SharingAgentID string      `json:"sharing_agent_id"`
	Scope          SharedScope `json:"scope"`
	SharedAt       time.Time   `json:"shared_at"`
}

// SharedMemoryPool is a permissioned collection of shared memories owned
// by a single principal. The pool owner's agents are always granted ADMIN
// regardless of the permission they request when joining.
type SharedMemoryPool struct {
	ID              string                       `json:"id"`
	Name            string                       `json:"name"`
	OwnerID         string                       `json:"owner_id"`
	Scope           SharedScope                  `json:"scope"`
	Status          PoolStatus                   `json:"status"`
	Members         map[string]PermissionLevel   `json:"members"`
	SharedMemories  []SharedMemoryRow            `json:"shared_memories"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// Clone returns a deep copy of the pool suitable for returning across a
// package boundary.
func (p *SharedMemoryPool) Clone() *SharedMemoryPool {
	if p == nil {
		return nil
	}
	out := *p
	if p.Members != nil {
		out.Members = make(map[string]PermissionLevel, len(p.Members))
		for k, v := range p.Members {
			out.Members[k] = v
		}
	}
	if p.SharedMemories != nil {
		out.SharedMemories = append([]SharedMemoryRow(nil), p.SharedMemories...)
	}
	return &out
}
