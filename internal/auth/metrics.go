// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IdentityTransitionsTotal counts provider state transitions.
	// Labels:
	//   - from, to: "loading", "present", "absent"
	//   - cause: "login", "logout", "expire", "resume", "timeout"
	IdentityTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_transitions_total",
			Help: "Total number of identity state transitions",
		},
		[]string{"from", "to", "cause"},
	)

	// LoginAttemptsTotal counts login attempts by outcome.
	// Labels:
	//   - outcome: "success", "invalid_credentials", "error", "stale"
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// ProfileFallbacksTotal counts profile fetches that fell back to a
	// locally known identity.
	ProfileFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_profile_fallbacks_total",
			Help: "Total number of profile fetches answered from a fallback identity",
		},
		[]string{"source"}, // "login_response", "minimal", "stored"
	)

	// StaleResultsTotal counts asynchronous results discarded by the
	// generation check.
	StaleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_stale_results_total",
			Help: "Total number of superseded identity results that were discarded",
		},
		[]string{"operation"},
	)

	// ActiveSessions tracks the number of providers held in memory.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "identity_active_sessions",
			Help: "Current number of in-memory session providers",
		},
	)

	// UnknownSessionsTotal counts cookies naming no live or stored session.
	UnknownSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_unknown_sessions_total",
			Help: "Total number of session cookies that matched no stored credential",
		},
	)

	// SessionsSweptTotal counts idle providers released by the sweeper.
	SessionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_sessions_swept_total",
			Help: "Total number of idle session providers released from memory",
		},
	)

	// UpstreamRequestsTotal counts identity upstream calls.
	// Labels:
	//   - operation: "authenticate", "profile"
	//   - outcome: "success", "rejected", "failure", "breaker_open"
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_upstream_requests_total",
			Help: "Total number of identity upstream requests",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamRequestDuration measures identity upstream latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_upstream_request_duration_seconds",
			Help:    "Duration of identity upstream requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// UpstreamBreakerState reports the circuit breaker state
	// (0 = closed, 1 = half-open, 2 = open).
	UpstreamBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "identity_upstream_breaker_state",
			Help: "Circuit breaker state of the identity upstream",
		},
		[]string{"name"},
	)

	// UpstreamBreakerTransitions counts circuit breaker state changes.
	UpstreamBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_upstream_breaker_transitions_total",
			Help: "Total number of identity upstream circuit breaker transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordTransition records a state change of a provider.
func RecordTransition(from, to State, cause string) {
	if from == to {
		return
	}
	IdentityTransitionsTotal.WithLabelValues(from.String(), to.String(), cause).Inc()
}

// RecordUpstreamRequest records one identity upstream call.
func RecordUpstreamRequest(operation, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
