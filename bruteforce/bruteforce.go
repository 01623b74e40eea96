// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package bruteforce implements the bounded exact-cosine ground-truth
searcher used by the recall health monitor (spec component D).

Search is O(n) per query; Searcher therefore rejects corpora larger than
MaxDocuments. SearchAsync runs Search on the caller's goroutine through
a resilience.Bulkhead, which bounds how many such searches run at once;
it blocks the caller until the search returns.
*/
package bruteforce

import (
	"context"
	"math"
	"sort"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/resilience"
)

// MaxDocuments bounds the corpus size accepted by a Searcher.
const MaxDocuments = 50000

// Encoder is the embedding-model contract shared with vectorindex.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Scored is a single (document, score) hit.
type Scored struct {
	DocumentID string
	Score      float64
}

// Predicate filters candidate documents by id before ranking.
type Predicate func(documentID string) bool

// Searcher holds an L2-normalized embedding matrix for exact cosine
// search, used as ground truth against which an ANN index's recall is
// measured.
type Searcher struct {
	encoder Encoder
	docIDs  []string
	vectors [][]float64
	pool    *resilience.Bulkhead
}

// NewSearcher creates an empty Searcher. concurrency bounds how many
// SearchAsync calls may run simultaneously through the bulkhead;
// a value <= 0 defaults to 4.
func NewSearcher(encoder Encoder, concurrency int64) *Searcher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Searcher{
		encoder: encoder,
		pool:    resilience.NewBulkhead(&resilience.BulkheadConfig{MaxConcurrent: int(concurrency)}),
	}
}

// Index encodes and L2-normalizes the supplied batch of documents,
// replacing any prior contents. It rejects batches larger than
// MaxDocuments.
func (s *Searcher) Index(ctx context.Context, docIDs []string, contents []string) error {
	if len(docIDs) > MaxDocuments {
		return memerrors.ErrCapacityExceeded.WithDetail("corpus_size", len(docIDs))
	}
	vecs, err := s.encoder.Encode(ctx, contents)
	if err != nil {
		return memerrors.Wrap(err, "encode brute-force corpus")
	}
	normalized := make([][]float64, len(vecs))
	for i, v := range vecs {
		normalized[i] = l2Normalize(v)
	}
	s.docIDs = append([]string(nil), docIDs...)
	s.vectors = normalized
	return nil
}

func l2Normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return append([]float64(nil), v...)
	}
	norm := math.Sqrt(sumSq)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Search returns the top-k documents by exact cosine similarity to query.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]Scored, error) {
	return s.SearchWithFilter(ctx, query, k, nil)
}

// SearchWithFilter applies pred to each candidate document id before
// ranking; pred == nil matches everything.
func (s *Searcher) SearchWithFilter(ctx context.Context, query string, k int, pred Predicate) ([]Scored, error) {
	vecs, err := s.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, memerrors.Wrap(err, "encode query")
	}
	if len(vecs) == 0 {
		return nil, memerrors.ErrModelUnavailable
	}
	q := l2Normalize(vecs[0])

	results := make([]Scored, 0, len(s.docIDs))
	for i, v := range s.vectors {
		if pred != nil && !pred(s.docIDs[i]) {
			continue
		}
		results = append(results, Scored{DocumentID: s.docIDs[i], Score: dotProduct(q, v)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})
	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// SearchAsync runs Search on the caller's goroutine through the
// searcher's bulkhead, waiting for a free slot first; it returns when the
// search is done.
func (s *Searcher) SearchAsync(ctx context.Context, query string, k int) ([]Scored, error) {
	var results []Scored
	err := s.pool.Execute(ctx, func(ctx context.Context) error {
		r, err := s.Search(ctx, query, k)
		results = r
		return err
	})
	return results, err
}

func dotProduct(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
