// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/oceans-admin/internal/models"
)

// readinessTimeout bounds all readiness checks of one probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests. It answers 200 while the
// process serves HTTP, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Version:   h.config.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now(),
	})
}

// HealthReady handles readiness probe requests. It answers 503 when any
// readiness check fails.
//
// @Summary Readiness probe
// @Description Runs the credential store and upstream checks. Returns 503 if any fails.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.HealthResponse} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.config.ReadinessChecks))
	for name := range h.config.ReadinessChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.config.ReadinessChecks[name](ctx); err != nil {
			checks[name] = sanitizeLogValue(err.Error())
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	respondJSON(w, r, code, models.HealthResponse{
		Status:    status,
		Version:   h.config.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Checks:    checks,
		Timestamp: time.Now(),
	})
}
