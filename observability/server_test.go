// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sage-x-project/memory-engine/observability/health"
	"github.com/sage-x-project/memory-engine/observability/logging"
	"github.com/sage-x-project/memory-engine/observability/metrics"
)

type fakeChecker struct {
	name   string
	status health.Status
}

func (f fakeChecker) Name() string { return f.name }
func (f fakeChecker) Check(ctx context.Context) health.CheckResult {
	return health.CheckResult{Name: f.name, Status: f.status}
}

func TestServer_LivenessAlwaysHealthyAfterConstruction(t *testing.T) {
	s := NewServer(logging.NewStructuredLogger(logging.LevelInfo), metrics.NewPrometheusCollector())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServer_ReadinessReflectsRegisteredChecks(t *testing.T) {
	s := NewServer(logging.NewStructuredLogger(logging.LevelInfo), metrics.NewPrometheusCollector(),
		fakeChecker{name: "dep-a", status: health.StatusHealthy})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when all checks healthy, got %d", rec.Code)
	}

	s.AddReadinessCheck(fakeChecker{name: "dep-b", status: health.StatusUnhealthy})

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 once an unhealthy check is registered, got %d", rec.Code)
	}
}

func TestServer_MetricsEndpointServesCollectorHandler(t *testing.T) {
	s := NewServer(logging.NewStructuredLogger(logging.LevelInfo), metrics.NewPrometheusCollector())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics endpoint, got %d", rec.Code)
	}
}

func TestServer_MarkStoppedFailsLiveness(t *testing.T) {
	s := NewServer(logging.NewStructuredLogger(logging.LevelInfo), metrics.NewPrometheusCollector())
	s.MarkStopped()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after MarkStopped, got %d", rec.Code)
	}
}
