// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package rerank

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// OpenAICrossEncoder scores (query, document) pairs by asking a chat
// model to emit a single relevance score, acting as a cross-encoder
// substitute (OpenAI has no dedicated cross-encoder endpoint).
type OpenAICrossEncoder struct {
	client *openai.Client
	model  string
}

// NewOpenAICrossEncoder creates a cross-encoder backed by model (default
// "gpt-4o-mini" when empty).
func NewOpenAICrossEncoder(apiKey, model string) *OpenAICrossEncoder {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAICrossEncoder{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Predict scores every pair in [0, 1] via a single-score chat completion.
func (c *OpenAICrossEncoder) Predict(ctx context.Context, pairs []Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		prompt := fmt.Sprintf(
			"Rate how relevant this document is to the query on a scale from 0 to 1.\n"+
				"Reply with only the number.\nQuery: %s\nDocument: %s",
			p.Query, p.Document,
		)
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0,
			MaxTokens:   8,
		})
		if err != nil {
			return nil, memerrors.ErrModelUnavailable.WithDetail("cause", err.Error())
		}
		if len(resp.Choices) == 0 {
			return nil, memerrors.ErrModelUnavailable.WithDetail("reason", "no completion choices")
		}
		score, err := parseScore(resp.Choices[0].Message.Content)
		if err != nil {
			return nil, memerrors.Wrap(err, "parse cross-encoder score")
		}
		scores[i] = score
	}
	return scores, nil
}

func parseScore(s string) (float64, error) {
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
