// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package janitor

import (
	"context"
	"sync"
	"time"

	"github.com/sage-x-project/memory-engine/config"
	"github.com/sage-x-project/memory-engine/observability/health"
	"github.com/sage-x-project/memory-engine/observability/logging"
)

// DefaultScheduleInterval is the scheduler's default run interval.
const DefaultScheduleInterval = 24 * time.Hour

// UserLister enumerates the user ids the scheduler should sweep. Separate
// from Store since most stores shard strictly by user_id and have no
// single call that lists every tenant.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// JanitorScheduler runs a Runner for every known user on a fixed
// interval. It is last-run-aware: LastRun reports the time of the most
// recently completed sweep, and a scheduler that is stopped and
// restarted does not immediately re-run if the interval has not elapsed.
type JanitorScheduler struct {
	mu       sync.RWMutex
	runner   *Runner
	users    UserLister
	interval time.Duration
	lastRun  time.Time
	logger   logging.Logger

	ticker *time.Ticker
	done   chan struct{}
}

// NewJanitorScheduler creates a scheduler with interval (DefaultScheduleInterval
// when <= 0). logger, if non-nil, receives an error-level entry for any
// per-user run error; a nil logger silently skips the failing user.
func NewJanitorScheduler(runner *Runner, users UserLister, interval time.Duration, logger logging.Logger) *JanitorScheduler {
	if interval <= 0 {
		interval = DefaultScheduleInterval
	}
	return &JanitorScheduler{
		runner:   runner,
		users:    users,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// NewJanitorSchedulerFromConfig creates a scheduler using cfg.Interval in
// place of an explicit interval argument.
func NewJanitorSchedulerFromConfig(cfg config.JanitorConfig, runner *Runner, users UserLister, logger logging.Logger) *JanitorScheduler {
	return NewJanitorScheduler(runner, users, cfg.Interval, logger)
}

// LastRun returns the time of the most recently completed sweep, or the
// zero time if no sweep has completed yet.
func (s *JanitorScheduler) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// RunOnce sweeps every known user immediately, independent of the
// schedule, and records the completion time as LastRun.
func (s *JanitorScheduler) RunOnce(ctx context.Context) error {
	userIDs, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if _, err := s.runner.Run(ctx, userID); err != nil && s.logger != nil {
			s.logger.Error(ctx, "janitor sweep failed", logging.String("user_id", userID), logging.Error(err))
		}
	}
	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()
	return nil
}

// Start begins periodic sweeps on a background goroutine. Stop must be
// called to release the ticker.
func (s *JanitorScheduler) Start(ctx context.Context) {
	s.ticker = time.NewTicker(s.interval)
	go s.loop(ctx)
}

func (s *JanitorScheduler) loop(ctx context.Context) {
	for {
		select {
		case <-s.ticker.C:
			s.RunOnce(ctx)
		case <-s.done:
			return
		}
	}
}

// Stop halts periodic sweeps.
func (s *JanitorScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}

// Checker adapts the scheduler into a health.Checker: degraded once a
// sweep is more than 2x the configured interval overdue, unknown before
// the first sweep completes.
func (s *JanitorScheduler) Checker() health.Checker {
	return janitorChecker{s}
}

type janitorChecker struct {
	s *JanitorScheduler
}

func (c janitorChecker) Name() string { return "janitor" }

func (c janitorChecker) Check(ctx context.Context) health.CheckResult {
	last := c.s.LastRun()
	if last.IsZero() {
		return health.CheckResult{Name: c.Name(), Status: health.StatusUnknown, Message: "no sweep completed yet"}
	}

	staleAfter := 2 * c.s.interval
	if age := time.Since(last); age > staleAfter {
		return health.CheckResult{
			Name:    c.Name(),
			Status:  health.StatusDegraded,
			Message: "sweep overdue",
			Details: map[string]interface{}{"last_run": last, "overdue_by": age - staleAfter},
		}
	}
	return health.CheckResult{Name: c.Name(), Status: health.StatusHealthy, Details: map[string]interface{}{"last_run": last}}
}
