// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package rerank

import (
	"context"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// AnthropicCrossEncoder scores (query, document) pairs via a Claude
// single-score completion, acting as a cross-encoder substitute.
type AnthropicCrossEncoder struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicCrossEncoder creates a cross-encoder backed by model
// (defaults to Claude 3 Haiku, the cheapest scoring-only workload).
func NewAnthropicCrossEncoder(apiKey string, model anthropic.Model) *AnthropicCrossEncoder {
	if model == "" {
		model = anthropic.ModelClaude3Haiku20240307
	}
	return &AnthropicCrossEncoder{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Predict scores every pair in [0, 1].
func (c *AnthropicCrossEncoder) Predict(ctx context.Context, pairs []Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		prompt := "Rate how relevant this document is to the query on a scale from 0 to 1. " +
			"Reply with only the number.\nQuery: " + p.Query + "\nDocument: " + p.Document

		msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: 8,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return nil, memerrors.ErrModelUnavailable.WithDetail("cause", err.Error())
		}
		if len(msg.Content) == 0 {
			return nil, memerrors.ErrModelUnavailable.WithDetail("reason", "empty response content")
		}
		score, err := parseAnthropicScore(msg.Content[0].Text)
		if err != nil {
			return nil, memerrors.Wrap(err, "parse cross-encoder score")
		}
		scores[i] = score
	}
	return scores, nil
}

func parseAnthropicScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
