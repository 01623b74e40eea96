// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package rerank

import (
	"context"
	"testing"
)

func TestFallbackReranker_PreservesOrderWithDecayingScore(t *testing.T) {
	r := NewFallbackReranker()
	docs := []string{"first", "second", "third"}

	results, err := r.Rerank(context.Background(), "query", docs, -1)
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Document != docs[i] {
			t.Errorf("expected order preserved at %d: got %s", i, res.Document)
		}
		if res.OriginalIndex != i {
			t.Errorf("expected OriginalIndex %d, got %d", i, res.OriginalIndex)
		}
		want := 1.0 / float64(i+1)
		if res.Score != want {
			t.Errorf("expected score %v at %d, got %v", want, i, res.Score)
		}
	}
}

func TestFallbackReranker_RespectsTopK(t *testing.T) {
	r := NewFallbackReranker()
	results, err := r.Rerank(context.Background(), "q", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

type stubCrossEncoder struct {
	scores []float64
}

func (s *stubCrossEncoder) Predict(_ context.Context, pairs []Pair) ([]float64, error) {
	return s.scores, nil
}

func TestCrossEncoderReranker_SortsByDescendingScore(t *testing.T) {
	model := &stubCrossEncoder{scores: []float64{0.2, 0.9, 0.5}}
	r := NewCrossEncoderReranker(model)

	results, err := r.Rerank(context.Background(), "q", []string{"low", "high", "mid"}, -1)
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Document != "high" || results[1].Document != "mid" || results[2].Document != "low" {
		t.Errorf("unexpected order: %+v", results)
	}
	if results[0].OriginalIndex != 1 {
		t.Errorf("expected original index 1 for top result, got %d", results[0].OriginalIndex)
	}
}

func TestCrossEncoderReranker_RespectsTopK(t *testing.T) {
	model := &stubCrossEncoder{scores: []float64{0.1, 0.2, 0.3}}
	r := NewCrossEncoderReranker(model)

	results, err := r.Rerank(context.Background(), "q", []string{"a", "b", "c"}, 1)
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document != "c" {
		t.Errorf("expected highest scorer 'c', got %s", results[0].Document)
	}
}
