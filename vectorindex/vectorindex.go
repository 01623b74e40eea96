// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package vectorindex implements a per-tenant exact-cosine vector search
index (spec component C).

The index stores an L2-normalized embedding for every indexed memory plus
a parallel memory_id list. Embeddings are produced by the Encoder passed
to NewIndex; with a nil Encoder, Add and Search return
ErrModelUnavailable.
*/
package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// Encoder is the embedding-model contract: it maps texts to a row-major
// matrix of 32-bit-precision floats (represented here as float64 for
// arithmetic convenience) and reports its output dimension.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// Scored is a single (document, score) hit.
type Scored struct {
	MemoryID string
	Score    float64
}

// Index is a per-tenant exact-cosine vector search index.
type Index struct {
	mu       sync.RWMutex
	encoder  Encoder
	docIDs   []string
	vectors  [][]float64
	position map[string]int
}

// NewIndex creates an empty vector index bound to encoder. encoder may be
// nil; in that case Add/Search return ErrModelUnavailable, letting callers
// degrade to substring/BM25-only retrieval.
func NewIndex(encoder Encoder) *Index {
	return &Index{
		encoder:  encoder,
		position: make(map[string]int),
	}
}

// normalize returns the L2-normalized copy of v, substituting a zero
// vector unchanged to avoid a divide-by-zero.
func normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return append([]float64(nil), v...)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Add encodes content and indexes it under memoryID. Re-adding an
// existing memoryID replaces its vector in place.
func (idx *Index) Add(ctx context.Context, memoryID, content string) error {
	if idx.encoder == nil {
		return memerrors.ErrModelUnavailable
	}
	vecs, err := idx.encoder.Encode(ctx, []string{content})
	if err != nil {
		return memerrors.Wrap(err, "encode memory content")
	}
	if len(vecs) == 0 {
		return memerrors.ErrModelUnavailable
	}
	v := normalize(vecs[0])

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if pos, ok := idx.position[memoryID]; ok {
		idx.vectors[pos] = v
		return nil
	}
	idx.docIDs = append(idx.docIDs, memoryID)
	idx.vectors = append(idx.vectors, v)
	idx.position[memoryID] = len(idx.docIDs) - 1
	return nil
}

// Remove deletes memoryID from the index, shrinking the backing arrays.
func (idx *Index) Remove(memoryID string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.position[memoryID]
	if !ok {
		return false
	}
	last := len(idx.docIDs) - 1
	idx.docIDs[pos] = idx.docIDs[last]
	idx.vectors[pos] = idx.vectors[last]
	idx.position[idx.docIDs[pos]] = pos

	idx.docIDs = idx.docIDs[:last]
	idx.vectors = idx.vectors[:last]
	delete(idx.position, memoryID)
	return true
}

// Clear removes every indexed vector.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docIDs = nil
	idx.vectors = nil
	idx.position = make(map[string]int)
}

// Search returns the topK nearest neighbors of query by cosine similarity.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]Scored, error) {
	if idx.encoder == nil {
		return nil, memerrors.ErrModelUnavailable
	}
	vecs, err := idx.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, memerrors.Wrap(err, "encode query")
	}
	if len(vecs) == 0 {
		return nil, memerrors.ErrModelUnavailable
	}
	q := normalize(vecs[0])

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]Scored, 0, len(idx.docIDs))
	for i, v := range idx.vectors {
		results = append(results, Scored{MemoryID: idx.docIDs[i], Score: dot(q, v)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].MemoryID < results[j].MemoryID
	})
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}

// DocCount returns the number of indexed vectors.
func (idx *Index) DocCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docIDs)
}

// Similarity encodes two pieces of text with encoder and returns the
// cosine similarity of the two embeddings, for comparing arbitrary text
// pairs outside the index.
func Similarity(ctx context.Context, encoder Encoder, t1, t2 string) (float64, error) {
	if encoder == nil {
		return 0, memerrors.ErrModelUnavailable
	}
	vecs, err := encoder.Encode(ctx, []string{t1, t2})
	if err != nil {
		return 0, memerrors.Wrap(err, "encode similarity pair")
	}
	if len(vecs) != 2 {
		return 0, memerrors.ErrModelUnavailable
	}
	return dot(normalize(vecs[0]), normalize(vecs[1])), nil
}
