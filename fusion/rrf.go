// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package fusion implements Reciprocal Rank Fusion (spec component E):
score-agnostic combination of multiple ranked lists into one.
*/
package fusion

import (
	"sort"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// DefaultK is the spec default RRF constant.
const DefaultK = 60

// RankedList is one source's ranked item list, best first.
type RankedList = []string

// Scored is a single fused (item, score) pair.
type Scored struct {
	Item  string
	Score float64
}

// RRF fuses ranked lists with the constant k. k must be >= 0.
type RRF struct {
	K int
}

// New creates an RRF fuser with the given k.
func New(k int) (*RRF, error) {
	if k < 0 {
		return nil, memerrors.ErrValidationFailed.WithDetail("reason", "RRF k must be >= 0")
	}
	return &RRF{K: k}, nil
}

// Fuse combines named ranked lists with equal weight, returning items
// sorted by descending fused score.
func (r *RRF) Fuse(lists map[string]RankedList) []Scored {
	return r.WeightedFuse(nil, lists)
}

// WeightedFuse combines named ranked lists with per-source weights
// (default 1 for any source absent from weights).
func (r *RRF) WeightedFuse(weights map[string]float64, lists map[string]RankedList) []Scored {
	scores := make(map[string]float64)
	for source, list := range lists {
		w := 1.0
		if weights != nil {
			if v, ok := weights[source]; ok {
				w = v
			}
		}
		for rank, item := range list {
			scores[item] += w / float64(r.K+rank+1)
		}
	}
	return sortScored(scores)
}

// DetailedResult carries per-source rank and score contributions for one
// fused item.
type DetailedResult struct {
	Item         string
	Score        float64
	SourceRanks  map[string]int
	SourceScores map[string]float64
}

// FuseWithDetails is Fuse but also reports each source's contribution.
func (r *RRF) FuseWithDetails(lists map[string]RankedList) []DetailedResult {
	return r.WeightedFuseWithDetails(nil, lists)
}

// WeightedFuseWithDetails is WeightedFuse but also reports each source's
// per-item rank and weighted score contribution.
func (r *RRF) WeightedFuseWithDetails(weights map[string]float64, lists map[string]RankedList) []DetailedResult {
	details := make(map[string]*DetailedResult)
	for source, list := range lists {
		w := 1.0
		if weights != nil {
			if v, ok := weights[source]; ok {
				w = v
			}
		}
		for rank, item := range list {
			d, ok := details[item]
			if !ok {
				d = &DetailedResult{
					Item:         item,
					SourceRanks:  make(map[string]int),
					SourceScores: make(map[string]float64),
				}
				details[item] = d
			}
			contribution := w / float64(r.K+rank+1)
			d.SourceRanks[source] = rank + 1
			d.SourceScores[source] = contribution
			d.Score += contribution
		}
	}

	out := make([]DetailedResult, 0, len(details))
	for _, d := range details {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Item < out[j].Item
	})
	return out
}

// Interleave round-robins through the supplied lists, de-duplicating
// items and assigning a monotonically decreasing positional score.
func Interleave(lists map[string]RankedList) []Scored {
	sources := make([]string, 0, len(lists))
	for s := range lists {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	seen := make(map[string]bool)
	var order []string
	maxLen := 0
	for _, l := range lists {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}

	for i := 0; i < maxLen; i++ {
		for _, s := range sources {
			list := lists[s]
			if i >= len(list) {
				continue
			}
			item := list[i]
			if seen[item] {
				continue
			}
			seen[item] = true
			order = append(order, item)
		}
	}

	out := make([]Scored, len(order))
	n := len(order)
	for i, item := range order {
		out[i] = Scored{Item: item, Score: float64(n-i) / float64(n)}
	}
	return out
}

// NormalizeScores maps the minimum score to 0 and the maximum to 1.
// Degenerate (all-equal) inputs map every score to 1.
func NormalizeScores(scored []Scored) []Scored {
	if len(scored) == 0 {
		return nil
	}
	min, max := scored[0].Score, scored[0].Score
	for _, s := range scored {
		if s.Score < min {
			min = s.Score
		}
		if s.Score > max {
			max = s.Score
		}
	}

	out := make([]Scored, len(scored))
	spread := max - min
	for i, s := range scored {
		if spread == 0 {
			out[i] = Scored{Item: s.Item, Score: 1}
			continue
		}
		out[i] = Scored{Item: s.Item, Score: (s.Score - min) / spread}
	}
	return out
}

// TopK truncates scored to at most k entries.
func TopK(scored []Scored, k int) []Scored {
	if k < 0 || k >= len(scored) {
		return scored
	}
	return scored[:k]
}

func sortScored(scores map[string]float64) []Scored {
	out := make([]Scored, 0, len(scores))
	for item, score := range scores {
		out = append(out, Scored{Item: item, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Item < out[j].Item
	})
	return out
}
