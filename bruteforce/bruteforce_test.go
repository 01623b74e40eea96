// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package bruteforce

import (
	"context"
	"testing"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

type fakeEncoder struct{ dim int }

func (f *fakeEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v := make([]float64, f.dim)
		for _, r := range t {
			v[int(r)%f.dim]++
		}
		out[i] = v
	}
	return out, nil
}

func TestSearcher_SearchReturnsTopK(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeEncoder{dim: 16}, 2)
	if err := s.Index(ctx, []string{"d1", "d2", "d3"}, []string{
		"database storage engine", "unrelated zzz content", "another database mention",
	}); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	results, err := s.Search(ctx, "database storage", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearcher_RejectsOversizedCorpus(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeEncoder{dim: 4}, 1)

	ids := make([]string, MaxDocuments+1)
	contents := make([]string, MaxDocuments+1)
	for i := range ids {
		ids[i] = "d"
		contents[i] = "x"
	}

	err := s.Index(ctx, ids, contents)
	if !memerrors.Is(err, memerrors.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestSearcher_SearchWithFilter(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeEncoder{dim: 16}, 1)
	s.Index(ctx, []string{"d1", "d2"}, []string{"database", "database"})

	results, err := s.SearchWithFilter(ctx, "database", 5, func(id string) bool {
		return id == "d2"
	})
	if err != nil {
		t.Fatalf("SearchWithFilter failed: %v", err)
	}
	if len(results) != 1 || results[0].DocumentID != "d2" {
		t.Errorf("expected only d2, got %+v", results)
	}
}

func TestSearcher_SearchAsync(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeEncoder{dim: 8}, 2)
	s.Index(ctx, []string{"d1"}, []string{"hello"})

	results, err := s.SearchAsync(ctx, "hello", 1)
	if err != nil {
		t.Fatalf("SearchAsync failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}
