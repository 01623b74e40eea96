// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package embeddings

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/resilience"
)

// dimensionByModel records the known output dimensionality of OpenAI's
// embedding models, since the API response carries vectors but not a
// queryable dimension constant.
var dimensionByModel = map[openai.EmbeddingModel]int{
	openai.SmallEmbedding3: 1536,
	openai.LargeEmbedding3: 3072,
	openai.AdaEmbeddingV2:  1536,
}

// OpenAIEmbedder encodes text via the OpenAI embeddings API. Calls are
// guarded by a per-call timeout, retried with exponential backoff, and
// gated by a circuit breaker so a failing API doesn't stall every
// caller behind it.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
	retry   *resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewOpenAIEmbedder creates an embedder backed by model (default
// text-embedding-3-small).
func NewOpenAIEmbedder(apiKey string, model openai.EmbeddingModel) *OpenAIEmbedder {
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &OpenAIEmbedder{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 30 * time.Second,
		retry:   resilience.DefaultRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
}

// SetTimeout overrides the per-call timeout, e.g. from a
// config.EmbeddingConfig.
func (e *OpenAIEmbedder) SetTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

// Dimension returns the embedding vector length for the configured model.
func (e *OpenAIEmbedder) Dimension() int {
	if d, ok := dimensionByModel[e.model]; ok {
		return d
	}
	return 1536
}

// Encode embeds a batch of texts.
func (e *OpenAIEmbedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp openai.EmbeddingResponse
	call := func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, &resilience.TimeoutConfig{Duration: e.timeout}, func(ctx context.Context) error {
			r, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Input: texts,
				Model: e.model,
			})
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
	}

	err := e.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, e.retry, call)
	})
	if err != nil {
		return nil, memerrors.ErrModelUnavailable.WithDetail("cause", err.Error())
	}

	out := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		v := make([]float64, len(d.Embedding))
		for j, f := range d.Embedding {
			v[j] = float64(f)
		}
		out[i] = v
	}
	return out, nil
}
