// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package bm25 implements a per-tenant Okapi BM25 inverted index (spec
component B).

Each Index is scoped to a single tenant (user_id); the caller is
responsible for keeping one Index per tenant. Tokenization lowercases the
input, strips non-alphanumeric runes, and drops tokens shorter than two
characters.
*/
package bm25

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// Config holds the BM25 scoring parameters.
type Config struct {
	// K1 controls term-frequency saturation.
	K1 float64
	// B controls document-length normalization.
	B float64
}

// DefaultConfig returns the spec default k1=1.5, b=0.75.
func DefaultConfig() Config {
	return Config{K1: 1.5, B: 0.75}
}

// Scored is a single (document, score) hit, sorted descending by Score.
type Scored struct {
	MemoryID string
	Score    float64
}

// Index is a per-tenant BM25 inverted index over memory content.
type Index struct {
	mu     sync.RWMutex
	config Config

	postings map[string]map[string]int // term -> memoryID -> term frequency
	docLen   map[string]int            // memoryID -> token count
	totalLen int64
}

// NewIndex creates an empty BM25 index with the given configuration.
func NewIndex(config Config) *Index {
	return &Index{
		config:   config,
		postings: make(map[string]map[string]int),
		docLen:   make(map[string]int),
	}
}

// Tokenize lowercases s, strips non-alphanumeric runes from each
// whitespace-delimited field, and drops tokens shorter than two
// characters.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	var b strings.Builder
	for _, f := range fields {
		b.Reset()
		for _, r := range f {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		tok := b.String()
		if len(tok) >= 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Add indexes content under memoryID. Calling Add again for an existing
// memoryID first removes its prior postings, making Add idempotent.
func (idx *Index) Add(memoryID, content string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(memoryID)

	tokens := Tokenize(content)
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	for term, f := range freq {
		bucket, ok := idx.postings[term]
		if !ok {
			bucket = make(map[string]int)
			idx.postings[term] = bucket
		}
		bucket[memoryID] = f
	}
	idx.docLen[memoryID] = len(tokens)
	idx.totalLen += int64(len(tokens))
}

// Remove deletes memoryID's postings from the index.
func (idx *Index) Remove(memoryID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(memoryID)
}

func (idx *Index) removeLocked(memoryID string) {
	oldLen, existed := idx.docLen[memoryID]
	if !existed {
		return
	}
	for term, bucket := range idx.postings {
		if _, ok := bucket[memoryID]; ok {
			delete(bucket, memoryID)
			if len(bucket) == 0 {
				delete(idx.postings, term)
			}
		}
	}
	delete(idx.docLen, memoryID)
	idx.totalLen -= int64(oldLen)
}

// avgDocLen returns the average document length, or 0 for an empty index.
func (idx *Index) avgDocLen() float64 {
	if len(idx.docLen) == 0 {
		return 0
	}
	return float64(idx.totalLen) / float64(len(idx.docLen))
}

// idf returns the inverse document frequency of term under the Robertson
// BM25 smoothing formula.
func (idx *Index) idf(term string) float64 {
	n := float64(len(idx.docLen))
	nt := float64(len(idx.postings[term]))
	return math.Log((n-nt+0.5)/(nt+0.5) + 1)
}

// Search scores every document containing at least one query term and
// returns hits sorted by descending score.
func (idx *Index) Search(query string) []Scored {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.docLen) == 0 {
		return nil
	}

	terms := Tokenize(query)
	avgdl := idx.avgDocLen()
	scores := make(map[string]float64)

	for _, term := range terms {
		bucket, ok := idx.postings[term]
		if !ok {
			continue
		}
		idf := idx.idf(term)
		for docID, f := range bucket {
			dl := float64(idx.docLen[docID])
			fq := float64(f)
			denom := fq + idx.config.K1*(1-idx.config.B+idx.config.B*dl/avgdl)
			scores[docID] += idf * (fq * (idx.config.K1 + 1)) / denom
		}
	}

	results := make([]Scored, 0, len(scores))
	for docID, score := range scores {
		results = append(results, Scored{MemoryID: docID, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].MemoryID < results[j].MemoryID
	})
	return results
}

// DocCount returns the number of indexed documents.
func (idx *Index) DocCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docLen)
}
