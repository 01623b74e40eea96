// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package hindsight

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

var (
	lastNDaysPattern = regexp.MustCompile(`(?i)last\s+(\d+)\s+days?`)
	quarterPattern   = regexp.MustCompile(`(?i)\bQ([1-4])\s+(\d{4})\b`)
	beforeIDPattern  = regexp.MustCompile(`(?i)before\s+([a-zA-Z0-9_-]+)`)
)

// TimeRange is a resolved [Start, End] window, either bound inclusive.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// TemporalSearch parses natural-language temporal references into a
// TimeRange and scores a Store's events against an optional entity,
// network, keyword, and memory-type filter within that range.
type TemporalSearch struct {
	store *Store
	now   func() time.Time
}

// NewTemporalSearch creates a TemporalSearch over store.
func NewTemporalSearch(store *Store) *TemporalSearch {
	return &TemporalSearch{store: store, now: time.Now}
}

// ParseTimeExpression resolves a natural-language temporal reference
// ("last N days", "Q4 2025", "before incident-123") into a TimeRange.
// "before X" resolves X against an event id in the store, using that
// event's Timestamp as the range's (inclusive) end. Returns false if no
// pattern matched.
func (ts *TemporalSearch) ParseTimeExpression(expr string) (TimeRange, bool) {
	now := ts.now()

	if m := lastNDaysPattern.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return TimeRange{Start: now.AddDate(0, 0, -n), End: now}, true
		}
	}

	if m := quarterPattern.FindStringSubmatch(expr); m != nil {
		quarter, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		startMonth := (quarter-1)*3 + 1
		start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 3, 0)
		return TimeRange{Start: start, End: end}, true
	}

	if m := beforeIDPattern.FindStringSubmatch(expr); m != nil {
		ts.store.mu.RLock()
		referenced, ok := ts.store.byID[m[1]]
		ts.store.mu.RUnlock()
		if ok {
			return TimeRange{Start: time.Time{}, End: referenced.Timestamp}, true
		}
	}

	return TimeRange{}, false
}

// ScoredEvent is a temporal search hit with its relevance score.
type ScoredEvent struct {
	Event *types.TemporalEvent
	Score float64
}

// Query holds the optional filters layered on top of the resolved time
// range.
type Query struct {
	EntityID string
	Network  types.Network
	Keywords []string
}

// Search parses expr into a time range, gathers candidate events within
// it (optionally pre-filtered by q.EntityID/q.Network), and scores each
// by entity match, network match, keyword overlap, plus recency within
// the range. Results are sorted by descending score.
func (ts *TemporalSearch) Search(expr string, q Query) ([]ScoredEvent, bool) {
	timeRange, ok := ts.ParseTimeExpression(expr)
	if !ok {
		return nil, false
	}

	candidates := ts.store.Intersect(q.EntityID, q.Network, timeRange.Start, timeRange.End)

	scored := make([]ScoredEvent, 0, len(candidates))
	for _, e := range candidates {
		scored = append(scored, ScoredEvent{Event: e, Score: ts.score(e, q, timeRange)})
	}

	sortByScoreDesc(scored)
	return scored, true
}

func (ts *TemporalSearch) score(e *types.TemporalEvent, q Query, r TimeRange) float64 {
	var score float64

	if q.EntityID != "" && e.EntityID == q.EntityID {
		score += 0.3
	}
	if q.Network != "" && e.Network == q.Network {
		score += 0.2
	}
	if len(q.Keywords) > 0 {
		content := strings.ToLower(e.Content)
		var matched int
		for _, kw := range q.Keywords {
			if strings.Contains(content, strings.ToLower(kw)) {
				matched++
			}
		}
		score += 0.3 * float64(matched) / float64(len(q.Keywords))
	}

	score += 0.2 * recencyWithinRange(e.Timestamp, r)
	return score
}

// recencyWithinRange scores how close t is to the end of the range,
// linearly from 0 at Start to 1 at End.
func recencyWithinRange(t time.Time, r TimeRange) float64 {
	if r.Start.IsZero() || r.End.IsZero() || !r.End.After(r.Start) {
		return 0
	}
	span := r.End.Sub(r.Start)
	offset := t.Sub(r.Start)
	frac := float64(offset) / float64(span)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

func sortByScoreDesc(scored []ScoredEvent) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
