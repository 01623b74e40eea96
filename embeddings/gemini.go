// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/resilience"
)

const geminiEmbedURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiEmbedder encodes text via the Gemini embedding API over plain
// HTTP (no first-party Go SDK is wired for Gemini). Each request is
// bounded by a timeout, retried with exponential backoff, and gated by
// a circuit breaker shared across calls.
type GeminiEmbedder struct {
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	timeout    time.Duration
	retry      *resilience.RetryConfig
	breaker    *resilience.CircuitBreaker
}

// NewGeminiEmbedder creates an embedder backed by model (default
// "embedding-001", dimension 768).
func NewGeminiEmbedder(apiKey, model string) *GeminiEmbedder {
	if model == "" {
		model = "embedding-001"
	}
	return &GeminiEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimension:  768,
		httpClient: http.DefaultClient,
		timeout:    30 * time.Second,
		retry:      resilience.DefaultRetryConfig(),
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
}

// SetTimeout overrides the per-call timeout, e.g. from a
// config.EmbeddingConfig.
func (e *GeminiEmbedder) SetTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

// Dimension returns the embedding vector length for the configured model.
func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

type geminiEmbedRequest struct {
	Model   string                 `json:"model"`
	Content geminiEmbedRequestPart `json:"content"`
}

type geminiEmbedRequestPart struct {
	Parts []geminiEmbedTextPart `json:"parts"`
}

type geminiEmbedTextPart struct {
	Text string `json:"text"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Encode embeds a batch of texts, issuing one request per text since the
// Gemini embedding endpoint scores a single content block at a time.
func (e *GeminiEmbedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := e.encodeOne(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *GeminiEmbedder) encodeOne(ctx context.Context, text string) ([]float64, error) {
	reqBody := geminiEmbedRequest{
		Model:   "models/" + e.model,
		Content: geminiEmbedRequestPart{Parts: []geminiEmbedTextPart{{Text: text}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, memerrors.Wrap(err, "marshal gemini embed request")
	}

	var values []float64
	call := func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, &resilience.TimeoutConfig{Duration: e.timeout}, func(ctx context.Context) error {
			v, err := e.doEmbedContent(ctx, body)
			if err != nil {
				return err
			}
			values = v
			return nil
		})
	}

	err = e.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, e.retry, call)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (e *GeminiEmbedder) doEmbedContent(ctx context.Context, body []byte) ([]float64, error) {
	url := fmt.Sprintf("%s/%s:embedContent?key=%s", geminiEmbedURL, e.model, e.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, memerrors.Wrap(err, "build gemini embed request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, memerrors.ErrModelUnavailable.WithDetail("cause", err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, memerrors.Wrap(err, "read gemini embed response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, memerrors.ErrModelUnavailable.WithDetail("status", resp.StatusCode).WithDetail("body", string(data))
	}

	var parsed geminiEmbedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, memerrors.Wrap(err, "decode gemini embed response")
	}
	return parsed.Embedding.Values, nil
}
