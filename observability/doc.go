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

// Package observability wires the engine's logging, metrics, and health
// packages into one HTTP surface for a host process that embeds the
// engine behind a sidecar.
//
// # Overview
//
//   - Metrics collection (Prometheus), via observability/metrics
//   - Structured logging, via observability/logging
//   - Liveness/readiness probes, via observability/health
//   - Request logging and metrics middleware
//   - Server ties all three into one gorilla/mux router
//
// # Building a Server
//
// janitor.JanitorScheduler and recall.RecallHealthMonitor both expose a
// Checker() method satisfying health.Checker; pass them to NewServer so
// readiness reflects the last sweep/measurement each component ran:
//
//	collector := metrics.NewPrometheusCollector()
//	logger := logging.NewStructuredLogger(logging.LevelInfo)
//
//	srv := observability.NewServer(logger, collector,
//	    janitorScheduler.Checker(),
//	    recallMonitor.Checker(),
//	)
//	http.ListenAndServe(":9090", srv.Handler())
//
// Routes: GET /metrics (Prometheus exposition), GET /health/live
// (liveness), GET /health/ready (readiness, unhealthy if any registered
// check is unhealthy).
//
// # Middleware
//
// Middleware.Handler wraps an http.Handler with request logging and
// http_requests_total / http_request_duration_seconds metrics, tagged
// by a component label:
//
//	mw := observability.NewMiddleware(logger, collector, "hybrid-api")
//	http.Handle("/retrieve", mw.Handler(retrieveHandler))
package observability
