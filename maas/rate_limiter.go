// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package maas

import (
	"fmt"
	"time"

	"github.com/sage-x-project/memory-engine/ratelimit"
)

// AgentRateLimiter bounds how many requests per window a single agent
// may issue, built on ratelimit.SlidingWindow.
type AgentRateLimiter struct {
	window *ratelimit.SlidingWindow
	limit  int
}

// NewAgentRateLimiter creates a limiter allowing requestsPerMinute
// requests per agent within windowSeconds. windowSeconds <= 0 defaults
// to 60.
func NewAgentRateLimiter(requestsPerMinute int, windowSeconds int) *AgentRateLimiter {
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return &AgentRateLimiter{
		window: ratelimit.NewSlidingWindow(ratelimit.SlidingWindowConfig{
			Limit:  requestsPerMinute,
			Window: time.Duration(windowSeconds) * time.Second,
			Config: ratelimit.DefaultConfig(),
		}),
		limit: requestsPerMinute,
	}
}

// Allow reports whether agentID may issue another request now, and if
// not, a human-readable reason.
func (l *AgentRateLimiter) Allow(agentID string) (bool, string) {
	if l.window.Allow(agentID) {
		return true, ""
	}
	return false, fmt.Sprintf("agent %s exceeded %d requests per window", agentID, l.limit)
}

// Close releases the limiter's background cleanup goroutine.
func (l *AgentRateLimiter) Close() error {
	return l.window.Close()
}
