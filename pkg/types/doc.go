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

// Package types provides the core data model for the memory retrieval and
// lifecycle engine.
//
// It defines the entities shared across every component: the Memory record
// and its Provenance, the five-block prompt model, the MaaS principal and
// sharing types (AgentIdentity, SharedScope, PermissionLevel,
// SharedMemoryPool, Handoff), the knowledge-graph node/edge pair, the
// hindsight timeline event, and the recall-health baseline/version records.
//
// # Ownership
//
// Providers, registries, and indexes exclusively own the records they
// contain. Anything handed back across a package boundary is a defensive
// deep copy; callers may mutate their own copy freely without affecting
// engine state.
package types
