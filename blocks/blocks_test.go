// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package blocks

import (
	"strings"
	"testing"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

func TestEstimateTokens_UsesLargerOfCharAndWordEstimate(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 for empty string, got %d", got)
	}
	if got := EstimateTokens("a b c d e"); got == 0 {
		t.Errorf("expected nonzero estimate, got %d", got)
	}
}

func TestHistoryCompressor_DropsOldestTurnsToFitBudget(t *testing.T) {
	c := NewHistoryCompressor(5)
	turns := []string{
		"this is a very long opening turn that takes up a lot of budget space",
		"short reply",
	}
	out := c.Compress(turns)
	if strings.Contains(out, "opening turn") {
		t.Errorf("expected oldest turn dropped, got %q", out)
	}
}

func TestAssembler_SortsBlocksByPriority(t *testing.T) {
	a := NewAssembler(DefaultBudgetConfig())
	result := a.Assemble(Input{
		SystemInstructions: "system",
		ProjectContext:     "project",
		TaskDescription:    "task",
		HistoryTurns:       []string{"turn one"},
		KnowledgeContent:   "knowledge",
		KnowledgeSourceID:  "src-1",
	}, time.Now())

	if len(result) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].Priority < result[i-1].Priority {
			t.Errorf("expected ascending priority order, got %+v", result)
		}
	}
	if result[0].BlockType != types.BlockTypeSystem {
		t.Errorf("expected SYSTEM first, got %s", result[0].BlockType)
	}
	last := result[len(result)-1]
	if last.BlockType != types.BlockTypeKnowledge || last.Provenance == nil {
		t.Errorf("expected KNOWLEDGE last with provenance attached, got %+v", last)
	}
	if last.Provenance.SourceType != "knowledge_retrieval" {
		t.Errorf("expected knowledge_retrieval source type, got %s", last.Provenance.SourceType)
	}
}

func TestAssembler_TrimsLowestPriorityFirstWhenOverBudget(t *testing.T) {
	budget := BudgetConfig{
		TotalBudget: 38,
		PerBlock: map[types.BlockType]int{
			types.BlockTypeSystem:    1000,
			types.BlockTypeProject:   1000,
			types.BlockTypeTask:      1000,
			types.BlockTypeHistory:   1000,
			types.BlockTypeKnowledge: 1000,
		},
	}
	a := NewAssembler(budget)
	result := a.Assemble(Input{
		SystemInstructions: "critical system instructions that must survive",
		ProjectContext:     "project context line one\nproject context line two",
		TaskDescription:    "task description",
		KnowledgeContent:   "some very long knowledge content block that should be trimmed first because it has the lowest priority of all five blocks",
	}, time.Now())

	knowledge := result[len(result)-1]
	if !strings.Contains(knowledge.Content, "[truncated]") && knowledge.Content != "" {
		t.Errorf("expected knowledge block truncated or emptied, got %q", knowledge.Content)
	}
	if result[0].Content != "critical system instructions that must survive" {
		t.Errorf("expected system block fully preserved, got %q", result[0].Content)
	}
}

func TestToPrompt_EscapesAndWrapsBlocks(t *testing.T) {
	memBlocks := []types.MemoryBlock{
		{BlockType: types.BlockTypeSystem, Content: "a < b & c > d"},
	}
	out := ToPrompt(memBlocks)
	want := "<SYSTEM_CONTEXT>a &lt; b &amp; c &gt; d</SYSTEM_CONTEXT>"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestToPrompt_JoinsMultipleBlocksWithBlankLine(t *testing.T) {
	memBlocks := []types.MemoryBlock{
		{BlockType: types.BlockTypeSystem, Content: "one"},
		{BlockType: types.BlockTypeTask, Content: "two"},
	}
	out := ToPrompt(memBlocks)
	if !strings.Contains(out, "</SYSTEM_CONTEXT>\n\n<TASK_CONTEXT>") {
		t.Errorf("expected double-newline separated blocks, got %q", out)
	}
}
