// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package recall

import (
	"context"
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/observability/logging"
	"github.com/sage-x-project/memory-engine/resilience"
)

// DefaultCooldown is the minimum interval between two reindex-callback
// firings, absent force=true.
const DefaultCooldown = 24 * time.Hour

// HistoryEvent records one reindex-trigger firing.
type HistoryEvent struct {
	At          time.Time
	Measurement Measurement
	Forced      bool
}

// ReindexTrigger watches a RecallHealthMonitor and, on a threshold
// breach, fires an alert and runs a reindex callback, respecting a
// cooldown between firings unless bypassed with force.
//
// The reindex callback runs on the caller's goroutine through a
// single-slot resilience.Bulkhead: at most one callback runs at a time,
// and Check blocks until the callback returns.
type ReindexTrigger struct {
	monitor  *RecallHealthMonitor
	reindex  func(ctx context.Context, m Measurement) error
	alert    func(m Measurement)
	cooldown time.Duration
	pool     *resilience.Bulkhead

	mu          sync.Mutex
	lastFired   time.Time
	history     []HistoryEvent
	cancelCheck context.CancelFunc

	logger logging.Logger
}

// SetLogger attaches a structured logger; breach detections and reindex
// firings are logged through it. Nil disables logging.
func (t *ReindexTrigger) SetLogger(logger logging.Logger) {
	t.logger = logger
}

// NewReindexTrigger creates a trigger. alertCallback may be nil.
// cooldown <= 0 uses DefaultCooldown. The reindex callback runs on a
// single-slot bulkhead, so at most one reindex is in flight at a time.
func NewReindexTrigger(monitor *RecallHealthMonitor, reindexCallback func(ctx context.Context, m Measurement) error, alertCallback func(m Measurement), cooldown time.Duration) *ReindexTrigger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &ReindexTrigger{
		monitor:  monitor,
		reindex:  reindexCallback,
		alert:    alertCallback,
		cooldown: cooldown,
		pool:     resilience.NewBulkhead(&resilience.BulkheadConfig{MaxConcurrent: 1}),
	}
}

// Check measures recall health and, if a breach is detected and the
// cooldown has elapsed (or force is true), fires the alert, runs the
// reindex callback through the bulkhead, and records a history event.
func (t *ReindexTrigger) Check(ctx context.Context, queries []GoldenQuery, filterName string, force bool) (Measurement, error) {
	measurement, err := t.monitor.Measure(ctx, queries, filterName)
	if err != nil {
		return Measurement{}, err
	}
	if !measurement.ShouldReindex {
		return measurement, nil
	}

	if t.logger != nil {
		t.logger.Warn(ctx, "recall threshold breached",
			logging.Float64("recall_at_k", measurement.RecallAtK),
			logging.Bool("below_absolute", measurement.BelowAbsolute),
			logging.Bool("breached_drift", measurement.BreachedDrift))
	}

	t.mu.Lock()
	onCooldown := !force && !t.lastFired.IsZero() && time.Since(t.lastFired) < t.cooldown
	t.mu.Unlock()
	if onCooldown {
		return measurement, nil
	}

	if t.alert != nil {
		t.alert(measurement)
	}

	if err := t.runReindex(ctx, measurement); err != nil {
		if t.logger != nil {
			t.logger.Error(ctx, "reindex callback failed", logging.Error(err))
		}
		return measurement, err
	}

	if t.logger != nil {
		t.logger.Info(ctx, "reindex fired", logging.Bool("forced", force))
	}

	t.mu.Lock()
	t.lastFired = time.Now()
	t.history = append(t.history, HistoryEvent{At: t.lastFired, Measurement: measurement, Forced: force})
	t.mu.Unlock()

	return measurement, nil
}

// runReindex runs the reindex callback on the caller's goroutine through
// the trigger's single-slot bulkhead.
func (t *ReindexTrigger) runReindex(ctx context.Context, m Measurement) error {
	if t.reindex == nil {
		return nil
	}
	return t.pool.Execute(ctx, func(ctx context.Context) error {
		return t.reindex(ctx, m)
	})
}

// History returns a copy of the recorded reindex-trigger firings.
func (t *ReindexTrigger) History() []HistoryEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]HistoryEvent(nil), t.history...)
}

// SchedulePeriodicCheck runs Check every interval until the returned
// cancel function is called or ctx is done. A single trigger supports
// only one active periodic check at a time; scheduling a new one cancels
// any prior one.
func (t *ReindexTrigger) SchedulePeriodicCheck(ctx context.Context, interval time.Duration, queries []GoldenQuery, filterName string) context.CancelFunc {
	t.mu.Lock()
	if t.cancelCheck != nil {
		t.cancelCheck()
	}
	checkCtx, cancel := context.WithCancel(ctx)
	t.cancelCheck = cancel
	t.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.Check(checkCtx, queries, filterName, false)
			case <-checkCtx.Done():
				return
			}
		}
	}()

	return cancel
}

// CancelScheduledCheck cancels any active periodic check started via
// SchedulePeriodicCheck.
func (t *ReindexTrigger) CancelScheduledCheck() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelCheck != nil {
		t.cancelCheck()
		t.cancelCheck = nil
	}
}
