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
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sage-x-project/memory-engine/observability/health"
	"github.com/sage-x-project/memory-engine/observability/logging"
	"github.com/sage-x-project/memory-engine/observability/metrics"
)

// Server exposes the engine's observability surface over HTTP: liveness
// and readiness probes over host-supplied health.Checkers, and a
// Prometheus scrape endpoint. It is meant to run inside a process that
// embeds the engine behind a sidecar or reverse proxy, not as a
// standalone service.
type Server struct {
	router           *mux.Router
	logger           logging.Logger
	collector        metrics.Collector
	livenessChecker  *health.LivenessChecker
	readinessChecker *health.ReadinessChecker
}

// NewServer builds an observability Server. checks are registered as
// readiness dependencies in addition to liveness; a component is ready
// only once every check reports healthy or degraded.
func NewServer(logger logging.Logger, collector metrics.Collector, checks ...health.Checker) *Server {
	liveness := health.NewLivenessChecker()
	liveness.MarkRunning()
	readiness := health.NewReadinessChecker(checks...)

	s := &Server{
		logger:           logger,
		collector:        collector,
		livenessChecker:  liveness,
		readinessChecker: readiness,
	}
	s.router = s.buildRouter()
	return s
}

// AddReadinessCheck registers an additional readiness dependency, e.g.
// a janitor.JanitorScheduler.Checker() or recall.RecallHealthMonitor.Checker()
// obtained after the server was constructed.
func (s *Server) AddReadinessCheck(check health.Checker) {
	s.readinessChecker.AddCheck(check)
}

// MarkStopped flips the liveness probe to unhealthy, e.g. during
// graceful shutdown.
func (s *Server) MarkStopped() {
	s.livenessChecker.MarkStopped()
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	mw := NewMiddleware(s.logger, s.collector, "observability")

	r.Handle("/metrics", mw.Handler(s.collector.Handler())).Methods(http.MethodGet)
	r.Handle("/health/live", mw.Handler(health.Handler(s.livenessChecker))).Methods(http.MethodGet)
	r.Handle("/health/ready", mw.Handler(health.Handler(s.readinessChecker))).Methods(http.MethodGet)
	return r
}

// Handler returns the server's http.Handler, routed via gorilla/mux.
func (s *Server) Handler() http.Handler {
	return s.router
}
