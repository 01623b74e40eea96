// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package janitor implements the background maintenance workers that keep
a user's memory store clean: deduplication, contradiction detection, and
expiration cleanup (spec component M).
*/
package janitor

import (
	"context"
	"fmt"
)

// Result reports what one worker did during a single pass over a user's
// memories. All three workers are idempotent: re-running immediately
// after a clean pass reports zero further changes.
type Result struct {
	Processed int
	Removed   int
	Resolved  int
	Flagged   int
	Details   []string
}

// RunnerResult bundles each worker's result from one JanitorRunner pass.
type RunnerResult struct {
	Deduplication Result
	Contradiction Result
	Expiration    Result
}

// Runner invokes the three maintenance workers for a user, in a fixed
// order: deduplicate first (so contradiction detection doesn't waste
// work on soon-to-be-deleted duplicates), then contradictions, then
// expiration cleanup.
type Runner struct {
	Deduplicator  *Deduplicator
	Contradiction *ContradictionHandler
	Expiration    *ExpirationCleaner
}

// NewRunner creates a Runner wiring all three workers.
func NewRunner(dedup *Deduplicator, contradiction *ContradictionHandler, expiration *ExpirationCleaner) *Runner {
	return &Runner{Deduplicator: dedup, Contradiction: contradiction, Expiration: expiration}
}

// Run invokes all three workers for userID, in order: dedup,
// contradiction resolution, expiration cleanup.
func (r *Runner) Run(ctx context.Context, userID string) (RunnerResult, error) {
	var out RunnerResult
	var err error

	out.Deduplication, err = r.Deduplicator.Run(ctx, userID)
	if err != nil {
		return out, fmt.Errorf("deduplication pass: %w", err)
	}
	out.Contradiction, err = r.Contradiction.Run(ctx, userID)
	if err != nil {
		return out, fmt.Errorf("contradiction pass: %w", err)
	}
	out.Expiration, err = r.Expiration.Run(ctx, userID)
	if err != nil {
		return out, fmt.Errorf("expiration pass: %w", err)
	}
	return out, nil
}
