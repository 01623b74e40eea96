// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package rerank implements cross-encoder reranking of retrieved documents
(spec component F), with a deterministic fallback used when no
cross-encoder is configured or available.
*/
package rerank

import (
	"context"
	"sort"
)

// Pair is one (query, document) scoring request.
type Pair struct {
	Query    string
	Document string
}

// CrossEncoder scores (query, document) pairs jointly.
type CrossEncoder interface {
	Predict(ctx context.Context, pairs []Pair) ([]float64, error)
}

// Result is one reranked document.
type Result struct {
	Document      string
	Score         float64
	OriginalIndex int
}

// Reranker reorders a document list for a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topK int) ([]Result, error)
}

// CrossEncoderReranker scores every (query, document) pair with a
// CrossEncoder model and returns the top-scoring documents.
type CrossEncoderReranker struct {
	Model CrossEncoder
}

// NewCrossEncoderReranker wraps model as a Reranker.
func NewCrossEncoderReranker(model CrossEncoder) *CrossEncoderReranker {
	return &CrossEncoderReranker{Model: model}
}

// Rerank scores every document against query and returns the top-scoring
// topK entries, sorted by descending score.
func (r *CrossEncoderReranker) Rerank(ctx context.Context, query string, documents []string, topK int) ([]Result, error) {
	pairs := make([]Pair, len(documents))
	for i, d := range documents {
		pairs[i] = Pair{Query: query, Document: d}
	}
	scores, err := r.Model.Predict(ctx, pairs)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(documents))
	for i, d := range documents {
		results[i] = Result{Document: d, Score: scores[i], OriginalIndex: i}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// FallbackReranker preserves the input order, scoring each document
// 1/(rank+1). It is used when a cross-encoder is disabled or unavailable.
type FallbackReranker struct{}

// NewFallbackReranker creates an identity reranker.
func NewFallbackReranker() *FallbackReranker {
	return &FallbackReranker{}
}

// Rerank implements Reranker by preserving input order.
func (r *FallbackReranker) Rerank(_ context.Context, _ string, documents []string, topK int) ([]Result, error) {
	results := make([]Result, len(documents))
	for i, d := range documents {
		results[i] = Result{Document: d, Score: 1.0 / float64(i+1), OriginalIndex: i}
	}
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
