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

// Package storage provides a namespaced key-value abstraction. Its one
// consumer in the engine is provider.LocalProvider, which keeps its memory
// records here; MaaS and janitor state lives in their own in-process maps.
//
// Persistent storage backends beyond in-process indexes are an external
// collaborator of this engine (Pixeltable-equivalent column stores, a
// Redis- or Postgres-backed Storage implementation) and are not provided
// here; only the interface and an in-memory implementation are.
//
// # Storage Interface
//
//	type Storage interface {
//	    Store(ctx context.Context, namespace, key string, value interface{}) error
//	    Get(ctx context.Context, namespace, key string) (interface{}, error)
//	    List(ctx context.Context, namespace string) ([]interface{}, error)
//	    Delete(ctx context.Context, namespace, key string) error
//	    Clear(ctx context.Context, namespace string) error
//	    Exists(ctx context.Context, namespace, key string) (bool, error)
//	}
//
// # Basic Usage
//
//	store := storage.NewMemoryStorage()
//
//	err := store.Store(ctx, "session:agent-1", sessionID, session)
//
//	retrieved, err := store.Get(ctx, "session:agent-1", sessionID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session := retrieved.(*types.AgentSession)
//
// # Namespace Organization
//
//	// provider.LocalProvider memory records
//	store.Store(ctx, "memories", memory.ID, memory)
//
// # Memory Storage
//
// MemoryStorage is an in-memory, thread-safe implementation:
//
//	store := storage.NewMemoryStorage()
//
//	var wg sync.WaitGroup
//	for i := 0; i < 100; i++ {
//	    wg.Add(1)
//	    go func(n int) {
//	        defer wg.Done()
//	        store.Store(ctx, "test", fmt.Sprintf("key-%d", n), n)
//	    }(i)
//	}
//	wg.Wait()
//
// Characteristics:
//   - O(1) access time for Get/Store/Delete
//   - O(n) for List operations
//   - No serialization overhead
//   - Data lost when the process exits
//
// # Error Handling
//
//	val, err := store.Get(ctx, "test", "nonexistent")
//	if errors.Is(err, errors.ErrNotFound) {
//	    // key not found
//	}
package storage
