// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package janitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// HighConfidenceThreshold is the confidence above which a memory counts
// as "high confidence" for contradiction flagging purposes.
const HighConfidenceThreshold = 0.8

// contradictionCategories groups mutually-exclusive terms: a memory
// containing one term from a category and another memory (of the same
// memory_type) containing a different term from the same category are
// considered contradictory.
var contradictionCategories = [][]string{
	// database engines
	{"postgres", "postgresql", "mysql", "mariadb", "sqlite", "mongodb", "redis", "cassandra"},
	// frameworks
	{"react", "vue", "angular", "svelte", "django", "flask", "fastapi", "rails", "express"},
	// languages
	{"python", "javascript", "typescript", "go", "rust", "java", "ruby", "kotlin"},
	// formatting
	{"tabs", "spaces", "camelcase", "snake_case", "kebab-case"},
}

// ContradictionHandler detects opposing-term contradictions within a
// user's memories of the same memory_type. The newer memory wins: the
// older loser is evicted. When both sides are high confidence, the pair
// is flagged for human review instead and neither memory is deleted.
type ContradictionHandler struct {
	store Store
}

// NewContradictionHandler creates a ContradictionHandler backed by store.
func NewContradictionHandler(store Store) *ContradictionHandler {
	return &ContradictionHandler{store: store}
}

// Run resolves contradictions within userID's memories. Resolution is
// idempotent: once a contradiction's loser has been evicted, re-running
// finds no further matching pair. Flagged high-confidence pairs are kept,
// so each run reports them again.
func (h *ContradictionHandler) Run(ctx context.Context, userID string) (Result, error) {
	memories, err := h.store.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list memories for contradiction check: %w", err)
	}

	res := Result{Processed: len(memories)}
	evicted := make(map[string]bool)

	byType := make(map[types.MemoryType][]*types.Memory)
	for _, m := range memories {
		byType[m.MemoryType] = append(byType[m.MemoryType], m)
	}

	for _, group := range byType {
		for i := 0; i < len(group); i++ {
			if evicted[group[i].ID] {
				continue
			}
			for j := i + 1; j < len(group); j++ {
				if evicted[group[j].ID] {
					continue
				}
				category, termA, termB := findOpposingTerms(group[i].Content, group[j].Content)
				if category < 0 {
					continue
				}

				older, newer := group[i], group[j]
				if newer.CreatedAt.Before(older.CreatedAt) {
					older, newer = newer, older
				}

				if older.Confidence >= HighConfidenceThreshold && newer.Confidence >= HighConfidenceThreshold {
					res.Flagged++
					res.Details = append(res.Details, fmt.Sprintf(
						"flagged for review (%s vs %s): both %s and %s are high-confidence, neither evicted", termA, termB, older.ID, newer.ID))
					continue
				}

				if err := h.store.Delete(ctx, userID, older.ID); err != nil {
					return res, fmt.Errorf("evict contradiction loser %s: %w", older.ID, err)
				}
				evicted[older.ID] = true
				res.Resolved++
				res.Details = append(res.Details, fmt.Sprintf(
					"resolved contradiction (%s vs %s): evicted %s, kept %s", termA, termB, older.ID, newer.ID))
			}
		}
	}

	return res, nil
}

// findOpposingTerms reports the category index and the two distinct
// terms found in a and b, or -1 if no category has terms in both.
func findOpposingTerms(a, b string) (category int, termA, termB string) {
	lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
	for idx, terms := range contradictionCategories {
		var foundA, foundB string
		for _, term := range terms {
			if strings.Contains(lowerA, term) && foundA == "" {
				foundA = term
			}
			if strings.Contains(lowerB, term) && foundB == "" {
				foundB = term
			}
		}
		if foundA != "" && foundB != "" && foundA != foundB {
			return idx, foundA, foundB
		}
	}
	return -1, "", ""
}
