// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package recall implements recall-health monitoring for the ANN index
against brute-force ground truth (spec component N): Recall@k
measurement, a baseline store, embedding-version tracking, and a
reindex trigger.
*/
package recall

import (
	"context"
	"fmt"
	"sync"

	"github.com/sage-x-project/memory-engine/observability/health"
	"github.com/sage-x-project/memory-engine/observability/logging"
	"github.com/sage-x-project/memory-engine/observability/metrics"
)

// AbsoluteThreshold is the default minimum acceptable Recall@k, used by
// NewRecallHealthMonitor absent a config-driven override.
const AbsoluteThreshold = 0.90

// DriftThreshold is the default maximum acceptable drop in Recall@k
// relative to the stored baseline, used absent a config-driven override.
const DriftThreshold = 0.05

// SearchFunc returns the top-k document/memory ids for query. Both the
// brute-force ground truth and the ANN index under test are adapted to
// this single shape so the monitor never depends on either concrete
// package directly.
type SearchFunc func(ctx context.Context, query string, k int) ([]string, error)

// GoldenQuery is one query in the golden set used to measure recall.
type GoldenQuery struct {
	Query string
	K     int
}

// Measurement is the outcome of one recall-health check.
type Measurement struct {
	RecallAtK      float64
	HasBaseline    bool
	BaselineRecall float64
	Drift          float64
	BelowAbsolute  bool
	BreachedDrift  bool
	ShouldReindex  bool
	SampleSize     int
}

// RecallHealthMonitor measures an ANN index's Recall@k against
// brute-force ground truth and a stored baseline.
type RecallHealthMonitor struct {
	bruteForce SearchFunc
	ann        SearchFunc
	baselines  *BaselineStore

	absoluteThreshold float64
	driftThreshold    float64

	logger    logging.Logger
	collector metrics.Collector

	lastMu     sync.RWMutex
	lastResult Measurement
	lastMeasured bool
}

// NewRecallHealthMonitor creates a monitor comparing ann against
// bruteForce, persisting/reading baselines via baselines, using the
// package-default AbsoluteThreshold and DriftThreshold.
func NewRecallHealthMonitor(bruteForce, ann SearchFunc, baselines *BaselineStore) *RecallHealthMonitor {
	return &RecallHealthMonitor{
		bruteForce:        bruteForce,
		ann:               ann,
		baselines:         baselines,
		absoluteThreshold: AbsoluteThreshold,
		driftThreshold:    DriftThreshold,
	}
}

// SetThresholds overrides the monitor's absolute and drift thresholds,
// e.g. from a config.RecallConfig.
func (m *RecallHealthMonitor) SetThresholds(absolute, drift float64) {
	m.absoluteThreshold = absolute
	m.driftThreshold = drift
}

// SetLogger attaches a structured logger; every Measure call logs its
// outcome through it. Nil disables logging.
func (m *RecallHealthMonitor) SetLogger(logger logging.Logger) {
	m.logger = logger
}

// SetMetricsCollector attaches a metrics collector; every Measure call
// records the resulting Recall@k as a gauge. Nil disables metrics.
func (m *RecallHealthMonitor) SetMetricsCollector(collector metrics.Collector) {
	m.collector = collector
}

// Measure runs every query in queries through both searchers, averages
// Recall@k = |BF_topk ∩ ANN_topk| / k across the set, and compares the
// result against the stored baseline for filterName.
func (m *RecallHealthMonitor) Measure(ctx context.Context, queries []GoldenQuery, filterName string) (Measurement, error) {
	if len(queries) == 0 {
		return Measurement{}, fmt.Errorf("golden query set is empty")
	}

	var totalRecall float64
	for _, q := range queries {
		bf, err := m.bruteForce(ctx, q.Query, q.K)
		if err != nil {
			return Measurement{}, fmt.Errorf("brute-force search %q: %w", q.Query, err)
		}
		ann, err := m.ann(ctx, q.Query, q.K)
		if err != nil {
			return Measurement{}, fmt.Errorf("ann search %q: %w", q.Query, err)
		}
		totalRecall += recallAtK(bf, ann, q.K)
	}
	recall := totalRecall / float64(len(queries))

	result := Measurement{
		RecallAtK:     recall,
		SampleSize:    len(queries),
		BelowAbsolute: recall < m.absoluteThreshold,
	}

	if baseline, ok, err := m.baselines.Load(filterName); err != nil {
		return Measurement{}, fmt.Errorf("load baseline: %w", err)
	} else if ok {
		result.HasBaseline = true
		result.BaselineRecall = baseline.RecallAtK
		result.Drift = baseline.RecallAtK - recall
		result.BreachedDrift = result.Drift > m.driftThreshold
	}

	result.ShouldReindex = result.BelowAbsolute || result.BreachedDrift

	if m.collector != nil {
		m.collector.SetGauge("recall_at_k", recall, metrics.NewLabels("filter", filterName))
	}
	if m.logger != nil {
		m.logger.Info(ctx, "recall health measured",
			logging.String("filter", filterName),
			logging.Float64("recall_at_k", recall),
			logging.Bool("should_reindex", result.ShouldReindex),
			logging.Bool("breached_drift", result.BreachedDrift))
	}

	m.lastMu.Lock()
	m.lastResult = result
	m.lastMeasured = true
	m.lastMu.Unlock()

	return result, nil
}

// Checker adapts the monitor's most recent Measure outcome into a
// health.Checker: unhealthy if the most recent measurement fell below the
// absolute threshold, degraded if it breached the drift threshold,
// unknown before the first measurement.
func (m *RecallHealthMonitor) Checker() health.Checker {
	return recallChecker{m}
}

type recallChecker struct {
	m *RecallHealthMonitor
}

func (c recallChecker) Name() string { return "recall_health" }

func (c recallChecker) Check(ctx context.Context) health.CheckResult {
	c.m.lastMu.RLock()
	result, measured := c.m.lastResult, c.m.lastMeasured
	c.m.lastMu.RUnlock()

	if !measured {
		return health.CheckResult{Name: c.Name(), Status: health.StatusUnknown, Message: "no measurement taken yet"}
	}

	details := map[string]interface{}{
		"recall_at_k": result.RecallAtK,
		"sample_size": result.SampleSize,
	}
	if result.BelowAbsolute {
		return health.CheckResult{Name: c.Name(), Status: health.StatusUnhealthy, Message: "recall below absolute threshold", Details: details}
	}
	if result.BreachedDrift {
		return health.CheckResult{Name: c.Name(), Status: health.StatusDegraded, Message: "recall drifted past baseline", Details: details}
	}
	return health.CheckResult{Name: c.Name(), Status: health.StatusHealthy, Details: details}
}

// recallAtK computes |bf ∩ ann| / k over the first k ids of each list.
func recallAtK(bf, ann []string, k int) float64 {
	if k <= 0 {
		return 1
	}
	if len(bf) > k {
		bf = bf[:k]
	}
	if len(ann) > k {
		ann = ann[:k]
	}
	bfSet := make(map[string]bool, len(bf))
	for _, id := range bf {
		bfSet[id] = true
	}
	var hits int
	for _, id := range ann {
		if bfSet[id] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}
