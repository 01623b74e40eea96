// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package embeddings

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sage-x-project/memory-engine/config"
	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
)

// NewFromConfig constructs the embedding Model named by cfg.Provider
// ("openai" or "gemini"). An empty or unrecognized provider is an error;
// callers that want to run without embeddings should simply not call
// this, rather than pass a zero-value config.EmbeddingConfig.
func NewFromConfig(cfg config.EmbeddingConfig) (Model, error) {
	switch cfg.Provider {
	case "openai":
		e := NewOpenAIEmbedder(cfg.APIKey, openai.EmbeddingModel(cfg.Model))
		e.SetTimeout(cfg.Timeout)
		return e, nil
	case "gemini":
		e := NewGeminiEmbedder(cfg.APIKey, cfg.Model)
		e.SetTimeout(cfg.Timeout)
		return e, nil
	default:
		return nil, memerrors.ErrInvalidInput.WithDetail("provider", fmt.Sprintf("%q", cfg.Provider))
	}
}
