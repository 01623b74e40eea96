// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/sage-x-project/memory-engine/lifecycle"
)

// ExpirationCleaner deletes memories whose ExpiresAt has passed.
type ExpirationCleaner struct {
	store Store
	now   func() time.Time
}

// NewExpirationCleaner creates an ExpirationCleaner backed by store, using
// time.Now for the current time.
func NewExpirationCleaner(store Store) *ExpirationCleaner {
	return &ExpirationCleaner{store: store, now: time.Now}
}

// Run deletes userID's expired memories. It is idempotent: a memory once
// deleted cannot be found expired again.
func (c *ExpirationCleaner) Run(ctx context.Context, userID string) (Result, error) {
	memories, err := c.store.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list memories for expiration cleanup: %w", err)
	}

	res := Result{Processed: len(memories)}
	now := c.now()

	for _, m := range memories {
		if !lifecycle.IsExpired(m.ExpiresAt, now) {
			continue
		}
		if err := c.store.Delete(ctx, userID, m.ID); err != nil {
			return res, fmt.Errorf("delete expired memory %s: %w", m.ID, err)
		}
		res.Removed++
		res.Details = append(res.Details, fmt.Sprintf("removed expired memory %s", m.ID))
	}

	return res, nil
}
