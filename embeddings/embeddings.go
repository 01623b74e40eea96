// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package embeddings defines the embedding-model contract shared by the
vector index and brute-force ground-truth searcher, plus concrete
OpenAI and Gemini backed adapters and a standalone cosine similarity
helper.
*/
package embeddings

import (
	"context"
	"math"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// Model encodes text into dense vectors. It structurally satisfies the
// Encoder interfaces declared independently by vectorindex and
// bruteforce.
type Model interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// Similarity returns the cosine similarity between the embeddings of a
// and b under model.
func Similarity(ctx context.Context, model Model, a, b string) (float64, error) {
	if model == nil {
		return 0, memerrors.ErrModelUnavailable
	}
	vecs, err := model.Encode(ctx, []string{a, b})
	if err != nil {
		return 0, memerrors.Wrap(err, "encode similarity pair")
	}
	if len(vecs) != 2 {
		return 0, memerrors.ErrModelUnavailable.WithDetail("reason", "incomplete embedding response")
	}
	return cosine(vecs[0], vecs[1]), nil
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
