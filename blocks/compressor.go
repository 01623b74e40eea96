// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package blocks implements the five-block prompt assembler and history
compressor (spec component J).
*/
package blocks

import "strings"

// EstimateTokens approximates the token count of text using the two rules
// of thumb the spec gives (~4 chars/token, ~0.75 words/token) and takes
// the larger of the two, so a budget check never undercounts.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	byChars := len(text) / 4
	words := len(strings.Fields(text))
	byWords := int(float64(words) / 0.75)
	if byWords > byChars {
		return byWords
	}
	return byChars
}

// HistoryCompressor compresses a conversation history to fit within
// maxTokens, dropping the oldest turns first.
type HistoryCompressor struct {
	MaxTokens int
}

// NewHistoryCompressor creates a compressor bounded to maxTokens.
func NewHistoryCompressor(maxTokens int) *HistoryCompressor {
	return &HistoryCompressor{MaxTokens: maxTokens}
}

// Compress joins turns (oldest first) with newlines, dropping the
// oldest turns until the estimated token count fits MaxTokens. If even
// the most recent turn alone exceeds the budget, it is line-truncated.
func (c *HistoryCompressor) Compress(turns []string) string {
	kept := append([]string(nil), turns...)
	for len(kept) > 0 {
		joined := strings.Join(kept, "\n")
		if EstimateTokens(joined) <= c.MaxTokens || len(kept) == 1 {
			return truncateToTokenBudget(joined, c.MaxTokens)
		}
		kept = kept[1:]
	}
	return ""
}
