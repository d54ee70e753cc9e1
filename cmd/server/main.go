// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/oceans-admin/docs" // Register the OpenAPI document
	"github.com/tomtom215/oceans-admin/internal/api"
	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/config"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/metrics"
	"github.com/tomtom215/oceans-admin/internal/supervisor"
	"github.com/tomtom215/oceans-admin/internal/supervisor/services"
	ws "github.com/tomtom215/oceans-admin/internal/websocket"
)

// @title Oceans Admin API
// @version 1.0
// @description Session, authorization and navigation API of the delivery-ops dashboard gateway.
// @license.name AGPL-3.0-or-later
// @BasePath /api/v1

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	started := time.Now()

	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("upstream", cfg.Upstream.BaseURL).
		Str("credential_store", cfg.Storage.Backend).
		Msg("Starting Oceans Admin gateway")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; restrict security.cors_origins in production")
	}
	if !cfg.Session.CookieSecure {
		logging.Warn().Msg("Session cookie is sent without the Secure flag. Use HTTPS in production!")
	}

	metrics.SetAppInfo(version)

	store, storeCloser, err := openCredentialStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open credential store")
	}
	defer func() {
		if err := storeCloser.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing credential store")
		}
	}()

	// Identity source with rate limiting and a circuit breaker
	client, err := auth.NewClient(clientConfig(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create upstream client")
	}

	enforcer, err := authz.NewEnforcer(enforcerConfig(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize permission enforcer")
	}
	defer enforcer.Close()
	evaluator := authz.NewEvaluator(enforcer)
	logging.Info().Int("policies", enforcer.PolicyCount()).Msg("Permission enforcer initialized")

	manager := auth.NewManager(client, store, managerConfig(cfg))
	sessions := auth.NewSessionMiddleware(manager, sessionMiddlewareConfig(cfg))
	pageGuard := guard.New(evaluator, nil)
	hub := ws.NewHub(ws.HubConfig{AllowedOrigins: cfg.Security.CORSOrigins})

	var proxy http.Handler
	if cfg.Upstream.ProxyEnabled {
		target, err := url.Parse(cfg.Upstream.BaseURL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid upstream URL")
		}
		proxy = api.NewUpstreamProxy(target, pageGuard, nil)
		logging.Info().Str("prefix", api.ProxyPrefix).Str("target", target.String()).Msg("Upstream proxy enabled")
	}

	handler := api.NewHandler(manager, sessions, evaluator, pageGuard, hub, api.HandlerConfig{
		Version:         version,
		ReadinessChecks: readinessChecks(store, client),
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(chiMiddlewareConfig(cfg)), sessions, pageGuard, proxy)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Create structured logger for supervisor using our slog adapter
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	// Session layer services
	tree.AddSessionService(manager)
	tree.AddSessionService(hub)
	tree.AddSessionService(services.NewUptimeService(started, 0))

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel receives exactly one value, when the root supervisor
	// returns.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
		stop()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Gateway stopped gracefully")
}
