// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package provenance

import (
	"strings"
	"testing"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

func TestValidateIdentifier_RejectsOverLongValue(t *testing.T) {
	long := strings.Repeat("a", MaxIdentifierLength+1)
	if err := ValidateIdentifier("source_id", long); !memerrors.Is(err, memerrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestValidateMetadata_RejectsExcessiveDepth(t *testing.T) {
	var nested interface{} = "leaf"
	for i := 0; i <= MaxMetadataDepth+1; i++ {
		nested = map[string]interface{}{"k": nested}
	}
	err := ValidateMetadata(nested.(map[string]interface{}))
	if !memerrors.Is(err, memerrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for excessive depth, got %v", err)
	}
}

func TestValidateMetadata_RejectsUnsupportedType(t *testing.T) {
	err := ValidateMetadata(map[string]interface{}{"bad": []byte("x")})
	if !memerrors.Is(err, memerrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for byte slice, got %v", err)
	}
}

func TestValidateMetadata_AcceptsWellFormedMap(t *testing.T) {
	ok := map[string]interface{}{
		"str":   "value",
		"num":   42.0,
		"flag":  true,
		"list":  []interface{}{"a", "b"},
		"inner": map[string]interface{}{"x": 1.0},
	}
	if err := ValidateMetadata(ok); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStore_AttachAndGetRoundTrips(t *testing.T) {
	s := NewStore(10)
	p := &types.Provenance{SourceID: "src-1", SourceType: "knowledge_retrieval"}
	if err := s.AttachToMemory("mem-1", p); err != nil {
		t.Fatalf("AttachToMemory failed: %v", err)
	}
	got, ok := s.Get("mem-1")
	if !ok || got.SourceID != "src-1" {
		t.Fatalf("expected round-tripped provenance, got %+v", got)
	}
}

func TestStore_LRUEvictsOldestOnOverflow(t *testing.T) {
	s := NewStore(2)
	s.AttachToMemory("mem-1", &types.Provenance{SourceID: "a"})
	s.AttachToMemory("mem-2", &types.Provenance{SourceID: "b"})
	s.AttachToMemory("mem-3", &types.Provenance{SourceID: "c"})

	if _, ok := s.Get("mem-1"); ok {
		t.Error("expected mem-1 evicted as least recently used")
	}
	if s.Size() != 2 {
		t.Errorf("expected size capped at 2, got %d", s.Size())
	}
}

func TestStore_TrackRetrievalNoOpsWithoutProvenance(t *testing.T) {
	s := NewStore(10)
	s.TrackRetrieval("orphan", RetrievalEvent{Query: "q"})
	if history := s.History("orphan"); len(history) != 0 {
		t.Errorf("expected no history for orphan memory, got %+v", history)
	}
}

func TestStore_RetrievalHistoryBoundedToLimit(t *testing.T) {
	s := NewStore(10)
	s.AttachToMemory("mem-1", &types.Provenance{SourceID: "a"})
	for i := 0; i < RetrievalHistoryLimit+10; i++ {
		s.TrackRetrieval("mem-1", RetrievalEvent{Query: "q"})
	}
	if history := s.History("mem-1"); len(history) != RetrievalHistoryLimit {
		t.Errorf("expected history capped at %d, got %d", RetrievalHistoryLimit, len(history))
	}
}

func TestValidateProvenance_RejectsOverLongSourceID(t *testing.T) {
	p := &types.Provenance{SourceID: strings.Repeat("x", MaxIdentifierLength+1)}
	if err := ValidateProvenance(p); !memerrors.Is(err, memerrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}
