// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package ranker implements the legacy linear-weighted ranking path (spec
component O): a Jaccard-similarity/recency/confidence blend kept for
callers that have not migrated to the hybrid retriever.
*/
package ranker

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// LinearWeights are the legacy ranker's default blend weights.
type LinearWeights struct {
	Similarity float64
	Recency    float64
	Confidence float64
}

// DefaultLinearWeights returns the spec-default weights (0.5, 0.3, 0.2).
func DefaultLinearWeights() LinearWeights {
	return LinearWeights{Similarity: 0.5, Recency: 0.3, Confidence: 0.2}
}

// SubstringBonus is added to the Jaccard score when query appears as an
// exact substring of content (case-folded), capped at 1.0.
const SubstringBonus = 0.3

// LinearRecencyDays is the window used by the linear recency fallback
// when no exponential half-life is configured.
const LinearRecencyDays = 90.0

// Ranker scores memories against a query using the legacy linear blend.
type Ranker struct {
	weights      LinearWeights
	halfLifeDays *float64
	now          func() time.Time
}

// Config configures a Ranker. HalfLifeDays, when non-nil, selects
// exponential recency decay with that half-life; nil selects the linear
// 90-day fallback.
type Config struct {
	Weights      LinearWeights
	HalfLifeDays *float64
}

// New creates a Ranker. A zero-value Weights uses DefaultLinearWeights.
func New(cfg Config) *Ranker {
	w := cfg.Weights
	if w.Similarity == 0 && w.Recency == 0 && w.Confidence == 0 {
		w = DefaultLinearWeights()
	}
	return &Ranker{weights: w, halfLifeDays: cfg.HalfLifeDays, now: time.Now}
}

// jaccardSimilarity computes Jaccard similarity on case-folded word sets,
// plus SubstringBonus (capped at 1.0) when query is an exact substring of
// content.
func jaccardSimilarity(query, content string) float64 {
	qWords := wordSet(query)
	cWords := wordSet(content)

	var score float64
	if len(qWords) == 0 || len(cWords) == 0 {
		score = 0
	} else {
		intersection := 0
		union := make(map[string]bool, len(qWords)+len(cWords))
		for w := range qWords {
			union[w] = true
			if cWords[w] {
				intersection++
			}
		}
		for w := range cWords {
			union[w] = true
		}
		score = float64(intersection) / float64(len(union))
	}

	if strings.Contains(strings.ToLower(content), strings.ToLower(query)) {
		score += SubstringBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func wordSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// recencyScore scores a memory's age: exponential decay when
// halfLifeDays is configured, otherwise a linear 1 - age/90 fallback
// clamped to [0, 1].
func (r *Ranker) recencyScore(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	if r.halfLifeDays != nil {
		return math.Pow(0.5, ageDays/(*r.halfLifeDays))
	}
	score := 1.0 - ageDays/LinearRecencyDays
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Score returns the legacy linear-blend score for mem against query.
func (r *Ranker) Score(query string, mem *types.Memory) float64 {
	return r.scoreAt(query, mem, r.now())
}

func (r *Ranker) scoreAt(query string, mem *types.Memory, now time.Time) float64 {
	sim := jaccardSimilarity(query, mem.Content)
	recency := r.recencyScore(mem.CreatedAt, now)
	return r.weights.Similarity*sim + r.weights.Recency*recency + r.weights.Confidence*mem.Confidence
}

// Rank scores and sorts memories against query, descending by score.
func (r *Ranker) Rank(query string, memories []*types.Memory) []*types.Memory {
	ranked, _ := r.rankAt(query, memories, r.now())
	return ranked
}

func (r *Ranker) rankAt(query string, memories []*types.Memory, now time.Time) ([]*types.Memory, map[string]float64) {
	sorted := append([]*types.Memory(nil), memories...)
	scores := make(map[string]float64, len(sorted))
	for _, m := range sorted {
		scores[m.ID] = r.scoreAt(query, m, now)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return scores[sorted[i].ID] > scores[sorted[j].ID]
	})
	return sorted, scores
}

// RankWithProvenance scores, sorts, and attaches/updates a Provenance
// record on each returned memory so that provenance.retrieval_score
// equals its final blended score.
func (r *Ranker) RankWithProvenance(ctx context.Context, query string, memories []*types.Memory) []*types.Memory {
	now := r.now()
	ranked, scores := r.rankAt(query, memories, now)
	for _, m := range ranked {
		score := scores[m.ID]
		if m.Provenance == nil {
			m.Provenance = &types.Provenance{
				SourceID:   "ranker:legacy",
				SourceType: "legacy_rank",
				CreatedAt:  now,
			}
		}
		m.Provenance.RetrievalScore = &score
	}
	return ranked
}
