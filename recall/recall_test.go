// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package recall

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

func staticSearch(ids []string) SearchFunc {
	return func(ctx context.Context, query string, k int) ([]string, error) {
		if len(ids) > k {
			return ids[:k], nil
		}
		return ids, nil
	}
}

func TestBaselineStore_SaveAndLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBaselineStore(dir)
	if err != nil {
		t.Fatalf("NewBaselineStore failed: %v", err)
	}

	baseline := types.RecallBaseline{RecallAtK: 0.95, QueryCount: 10, CreatedAt: time.Now()}
	if err := store.Save("user-1", baseline); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := store.Load("user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected baseline to be found")
	}
	if got.RecallAtK != baseline.RecallAtK {
		t.Errorf("expected recall %v, got %v", baseline.RecallAtK, got.RecallAtK)
	}
}

func TestBaselineStore_FileNameIsSanitized(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBaselineStore(dir)
	if err != nil {
		t.Fatalf("NewBaselineStore failed: %v", err)
	}
	if err := store.Save("sensitive-user-id", types.RecallBaseline{RecallAtK: 0.9}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if e.Name() == "history" {
			continue
		}
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if got := e.Name(); got == "sensitive-user-id.json" {
			t.Fatalf("expected raw filter name not to appear in file name, got %q", got)
		}
	}
}

func TestBaselineStore_ArchivesPreviousOnOverwrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBaselineStore(dir)
	if err != nil {
		t.Fatalf("NewBaselineStore failed: %v", err)
	}
	if err := store.Save("user-1", types.RecallBaseline{RecallAtK: 0.9}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save("user-1", types.RecallBaseline{RecallAtK: 0.95}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "history"))
	if err != nil {
		t.Fatalf("ReadDir history failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 archived baseline, got %d", len(entries))
	}
}

func TestBaselineStore_RejectsPathEscapingRoot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBaselineStore(dir)
	if err != nil {
		t.Fatalf("NewBaselineStore failed: %v", err)
	}
	if _, err := store.resolvePath("../escape.json"); err == nil {
		t.Error("expected containment check to reject escaping path")
	}
}

func TestEmbeddingVersionTracker_RequiresReindexOnModelChange(t *testing.T) {
	v1 := NewEmbeddingVersion("text-embedding-3-small", 1536, nil)
	v2 := NewEmbeddingVersion("text-embedding-3-large", 1536, nil)

	tracker := NewEmbeddingVersionTracker(v2)
	if !tracker.RequiresReindex(v1) {
		t.Error("expected reindex required on model id change")
	}
}

func TestEmbeddingVersionTracker_NoReindexWhenIdentical(t *testing.T) {
	v := NewEmbeddingVersion("text-embedding-3-small", 1536, map[string]interface{}{"k": "v"})
	tracker := NewEmbeddingVersionTracker(v)
	if tracker.RequiresReindex(v) {
		t.Error("expected no reindex required for identical version")
	}
}

func TestRecallHealthMonitor_PerfectOverlapScoresOne(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b", "c"}), staticSearch([]string{"a", "b", "c"}), store)

	m, err := monitor.Measure(context.Background(), []GoldenQuery{{Query: "q", K: 3}}, "user-1")
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if m.RecallAtK != 1.0 {
		t.Errorf("expected recall 1.0, got %v", m.RecallAtK)
	}
	if m.ShouldReindex {
		t.Error("expected no reindex needed for perfect recall")
	}
}

func TestRecallHealthMonitor_BelowAbsoluteTriggersReindex(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b", "c", "d"}), staticSearch([]string{"x", "y", "z", "w"}), store)

	m, err := monitor.Measure(context.Background(), []GoldenQuery{{Query: "q", K: 4}}, "user-1")
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if !m.BelowAbsolute || !m.ShouldReindex {
		t.Error("expected below-absolute-threshold reindex trigger")
	}
}

func TestRecallHealthMonitor_DriftFromBaselineBreaches(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	store.Save("user-1", types.RecallBaseline{RecallAtK: 0.99})

	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b", "c", "d"}), staticSearch([]string{"a", "b", "x", "y"}), store)
	m, err := monitor.Measure(context.Background(), []GoldenQuery{{Query: "q", K: 4}}, "user-1")
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if !m.BreachedDrift {
		t.Error("expected drift breach relative to a high baseline")
	}
}

func TestReindexTrigger_FiresCallbackAndRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b"}), staticSearch([]string{"x", "y"}), store)

	var reindexed bool
	var alerted bool
	trigger := NewReindexTrigger(monitor,
		func(ctx context.Context, m Measurement) error { reindexed = true; return nil },
		func(m Measurement) { alerted = true },
		time.Hour,
	)

	_, err := trigger.Check(context.Background(), []GoldenQuery{{Query: "q", K: 2}}, "user-1", false)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !reindexed || !alerted {
		t.Error("expected both alert and reindex callback to fire on breach")
	}
	if len(trigger.History()) != 1 {
		t.Fatalf("expected 1 history event, got %d", len(trigger.History()))
	}
}

func TestReindexTrigger_RespectsCooldownUnlessForced(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b"}), staticSearch([]string{"x", "y"}), store)

	var fireCount int
	trigger := NewReindexTrigger(monitor,
		func(ctx context.Context, m Measurement) error { fireCount++; return nil },
		nil, time.Hour,
	)

	ctx := context.Background()
	queries := []GoldenQuery{{Query: "q", K: 2}}
	trigger.Check(ctx, queries, "user-1", false)
	trigger.Check(ctx, queries, "user-1", false)
	if fireCount != 1 {
		t.Errorf("expected cooldown to suppress second firing, fired %d times", fireCount)
	}

	trigger.Check(ctx, queries, "user-1", true)
	if fireCount != 2 {
		t.Errorf("expected force=true to bypass cooldown, fired %d times", fireCount)
	}
}

func TestReindexTrigger_SchedulePeriodicCheckCancellable(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewBaselineStore(dir)
	monitor := NewRecallHealthMonitor(staticSearch([]string{"a", "b"}), staticSearch([]string{"a", "b"}), store)
	trigger := NewReindexTrigger(monitor, nil, nil, time.Hour)

	cancel := trigger.SchedulePeriodicCheck(context.Background(), time.Millisecond, []GoldenQuery{{Query: "q", K: 2}}, "user-1")
	cancel()
	trigger.CancelScheduledCheck()
}
