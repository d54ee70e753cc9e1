// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuardDecisionsTotal counts route guard decisions by kind.
	GuardDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_decisions_total",
			Help: "Total number of route guard decisions",
		},
		[]string{"decision", "response"},
	)
)

// RecordDecision records a decision and how it was answered ("json",
// "redirect" or "next").
func RecordDecision(kind Kind, response string) {
	GuardDecisionsTotal.WithLabelValues(kind.String(), response).Inc()
}
