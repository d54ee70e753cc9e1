// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"context"
	"time"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/logging"
	ws "github.com/tomtom215/oceans-admin/internal/websocket"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HandlerConfig holds the optional parts of a Handler.
type HandlerConfig struct {
	// Version is reported by the health probes.
	Version string

	// ReadinessChecks are run by /health/ready, keyed by dependency name.
	ReadinessChecks map[string]ReadinessCheck

	// MaxSessionWait caps the ?wait parameter of /auth/session.
	MaxSessionWait time.Duration
}

// Handler serves the gateway endpoints.
type Handler struct {
	manager   *auth.Manager
	sessions  *auth.SessionMiddleware
	evaluator *authz.Evaluator
	guard     *guard.Guard
	hub       *ws.Hub
	security  *logging.SecurityLogger
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(manager *auth.Manager, sessions *auth.SessionMiddleware, evaluator *authz.Evaluator, g *guard.Guard, hub *ws.Hub, config HandlerConfig) *Handler {
	if config.MaxSessionWait <= 0 {
		config.MaxSessionWait = 20 * time.Second
	}
	return &Handler{
		manager:   manager,
		sessions:  sessions,
		evaluator: evaluator,
		guard:     g,
		hub:       hub,
		security:  logging.NewSecurityLogger(),
		config:    config,
		startTime: time.Now(),
	}
}
