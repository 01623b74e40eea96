// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package recall

import (
	"github.com/sage-x-project/memory-engine/config"
)

// NewBaselineStoreFromConfig creates a BaselineStore rooted at
// cfg.BaselineStoragePath.
func NewBaselineStoreFromConfig(cfg config.RecallConfig) (*BaselineStore, error) {
	return NewBaselineStore(cfg.BaselineStoragePath)
}

// NewRecallHealthMonitorFromConfig creates a monitor comparing ann
// against bruteForce with thresholds taken from cfg instead of the
// package defaults.
func NewRecallHealthMonitorFromConfig(cfg config.RecallConfig, bruteForce, ann SearchFunc, baselines *BaselineStore) *RecallHealthMonitor {
	m := NewRecallHealthMonitor(bruteForce, ann, baselines)
	m.SetThresholds(cfg.AbsoluteThreshold, cfg.DriftThreshold)
	return m
}
