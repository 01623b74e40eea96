// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package blocks

import (
	"sort"
	"strings"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// BudgetConfig holds the total and per-block-type token budgets used by
// an Assembler.
type BudgetConfig struct {
	TotalBudget  int
	PerBlock     map[types.BlockType]int
}

// DefaultBudgetConfig returns the spec default per-block budgets summed
// into a total budget.
func DefaultBudgetConfig() BudgetConfig {
	perBlock := map[types.BlockType]int{
		types.BlockTypeSystem:    types.DefaultBlockTokenBudget(types.BlockTypeSystem),
		types.BlockTypeProject:   types.DefaultBlockTokenBudget(types.BlockTypeProject),
		types.BlockTypeTask:      types.DefaultBlockTokenBudget(types.BlockTypeTask),
		types.BlockTypeHistory:   types.DefaultBlockTokenBudget(types.BlockTypeHistory),
		types.BlockTypeKnowledge: types.DefaultBlockTokenBudget(types.BlockTypeKnowledge),
	}
	total := 0
	for _, b := range perBlock {
		total += b
	}
	return BudgetConfig{TotalBudget: total, PerBlock: perBlock}
}

// Input supplies the raw content for each of the five blocks.
type Input struct {
	SystemInstructions string
	ProjectContext     string
	TaskDescription    string
	HistoryTurns       []string
	KnowledgeContent   string
	KnowledgeSourceID  string
}

// Assembler builds the five-block prompt context within a total token
// budget, trimming lower-priority blocks first when the sum overflows.
type Assembler struct {
	budget     BudgetConfig
	compressor *HistoryCompressor
}

// NewAssembler creates an Assembler with the given budget.
func NewAssembler(budget BudgetConfig) *Assembler {
	historyBudget := budget.PerBlock[types.BlockTypeHistory]
	return &Assembler{
		budget:     budget,
		compressor: NewHistoryCompressor(historyBudget),
	}
}

// Assemble builds all five blocks from in, sorted by ascending priority,
// then trims lower-priority (higher-priority-number) blocks at line
// boundaries until the total fits Assembler's TotalBudget.
func (a *Assembler) Assemble(in Input, now time.Time) []types.MemoryBlock {
	blocksByType := map[types.BlockType]string{
		types.BlockTypeSystem:  in.SystemInstructions,
		types.BlockTypeProject: in.ProjectContext,
		types.BlockTypeTask:    in.TaskDescription,
		types.BlockTypeHistory: a.compressor.Compress(in.HistoryTurns),
	}

	result := make([]types.MemoryBlock, 0, 5)
	for _, bt := range []types.BlockType{types.BlockTypeSystem, types.BlockTypeProject, types.BlockTypeTask, types.BlockTypeHistory} {
		content := blocksByType[bt]
		result = append(result, types.MemoryBlock{
			BlockType:  bt,
			Content:    content,
			TokenCount: EstimateTokens(content),
			Priority:   types.DefaultBlockPriority(bt),
		})
	}

	if in.KnowledgeContent != "" {
		prov := &types.Provenance{
			SourceID:   in.KnowledgeSourceID,
			SourceType: "knowledge_retrieval",
			CreatedAt:  now,
		}
		result = append(result, types.MemoryBlock{
			BlockType:  types.BlockTypeKnowledge,
			Content:    in.KnowledgeContent,
			TokenCount: EstimateTokens(in.KnowledgeContent),
			Priority:   types.DefaultBlockPriority(types.BlockTypeKnowledge),
			Provenance: prov,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})

	return a.trimToBudget(result)
}

// trimToBudget truncates blocks from lowest to highest priority (i.e.
// last to first in the ascending-sorted slice) until the total token
// count fits TotalBudget.
func (a *Assembler) trimToBudget(blocksSorted []types.MemoryBlock) []types.MemoryBlock {
	total := func() int {
		sum := 0
		for _, b := range blocksSorted {
			sum += b.TokenCount
		}
		return sum
	}

	for i := len(blocksSorted) - 1; i >= 0 && total() > a.budget.TotalBudget; i-- {
		overflow := total() - a.budget.TotalBudget
		target := blocksSorted[i].TokenCount - overflow
		if target < 0 {
			target = 0
		}
		blocksSorted[i].Content = truncateToTokenBudget(blocksSorted[i].Content, target)
		blocksSorted[i].TokenCount = EstimateTokens(blocksSorted[i].Content)
	}
	return blocksSorted
}

// ToPrompt renders blocks as XML-escaped, type-tagged sections, joined
// by a blank line, to prevent prompt injection via user content.
func ToPrompt(memBlocks []types.MemoryBlock) string {
	var sb strings.Builder
	for i, b := range memBlocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		tag := string(b.BlockType) + "_CONTEXT"
		sb.WriteString("<")
		sb.WriteString(tag)
		sb.WriteString(">")
		sb.WriteString(xmlEscape(b.Content))
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteString(">")
	}
	return sb.String()
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
