// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Prometheus metrics for authorization decisions.
//
// Metrics Categories:
//   - Authorization Decisions: allow/deny counts, latency histograms
//   - Cache Performance: hit/miss counts, size, evictions
//   - Policy: loaded rules, casbin evaluations
//
// Usage:
//
//	RecordAuthzDecision(RoleManager, PermViewAllOrders, true, 150*time.Microsecond, false)
package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts permission decisions by role, permission and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "permission", "decision"},
	)

	// AuthzDecisionDuration tracks the latency of authorization decisions.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"cache_hit"},
	)

	// AuthzRoleChecksTotal counts hierarchy ("at least") checks.
	AuthzRoleChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_role_checks_total",
			Help: "Total number of role hierarchy checks",
		},
		[]string{"required_role", "decision"},
	)

	// AuthzCacheHitsTotal counts cache hits for authorization decisions.
	AuthzCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_hits_total",
			Help: "Total number of authorization cache hits",
		},
	)

	// AuthzCacheMissesTotal counts cache misses for authorization decisions.
	AuthzCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_misses_total",
			Help: "Total number of authorization cache misses",
		},
	)

	// AuthzCacheSize tracks the current size of the authorization cache.
	AuthzCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_cache_entries",
			Help: "Current number of entries in the authorization cache",
		},
	)

	// AuthzCacheEvictionsTotal counts cache evictions.
	AuthzCacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_evictions_total",
			Help: "Total number of authorization cache evictions (TTL expiry)",
		},
	)

	// AuthzPolicyEvaluationsTotal counts policy evaluations by the Casbin enforcer.
	AuthzPolicyEvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_policy_evaluations_total",
			Help: "Total number of Casbin policy evaluations",
		},
	)

	// AuthzPolicyRulesTotal tracks the current number of policy rules.
	AuthzPolicyRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_policy_rules_total",
			Help: "Current number of policy rules loaded",
		},
	)

	// AuthzErrorsTotal counts authorization errors (not denials).
	AuthzErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_errors_total",
			Help: "Total number of authorization errors",
		},
		[]string{"error_type"}, // "enforcer_error", "unknown_role"
	)
)

// RecordAuthzDecision records a permission decision.
func RecordAuthzDecision(role Role, perm Permission, allowed bool, duration time.Duration, cacheHit bool) {
	AuthzDecisionsTotal.WithLabelValues(string(role), string(perm), decisionLabel(allowed)).Inc()

	cacheHitLabel := "false"
	if cacheHit {
		cacheHitLabel = "true"
		AuthzCacheHitsTotal.Inc()
	} else {
		AuthzCacheMissesTotal.Inc()
	}
	AuthzDecisionDuration.WithLabelValues(cacheHitLabel).Observe(duration.Seconds())
}

// RecordRoleCheck records a hierarchy check.
func RecordRoleCheck(required Role, allowed bool) {
	AuthzRoleChecksTotal.WithLabelValues(string(required), decisionLabel(allowed)).Inc()
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
