// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/middleware"
	"github.com/tomtom215/oceans-admin/internal/navigation"
)

// Router assembles the gateway routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	sessions      *auth.SessionMiddleware
	guard         *guard.Guard
	proxy         http.Handler
}

// NewRouter creates a router. proxy may be nil to disable /upstream.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, sessions *auth.SessionMiddleware, g *guard.Guard, proxy http.Handler) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		sessions:      sessions,
		guard:         g,
		proxy:         proxy,
	}
}

// SetupChi returns the HTTP handler of the gateway.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflights are answered
	r.Use(router.sessions.Attach)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// authenticated is the requirement of endpoints open to every role.
	authenticated := router.guard.Protect(authz.Requirement{})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiHeaders)

		// Probes are not rate limited.
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			// Outside Compress: the stream hijacks the connection.
			r.Get("/auth/session/ws", h.SessionStream)

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Compress(5, "application/json"))

				r.With(router.chiMiddleware.RateLimitLogin()).Post("/auth/login", h.Login)
				r.Post("/auth/logout", h.Logout)
				r.Get("/auth/session", h.Session)

				r.Group(func(r chi.Router) {
					r.Use(authenticated)
					r.Get("/authz/permissions", h.Permissions)
					r.Get("/authz/check", h.Check)
					r.Get("/navigation", h.Navigation)
				})
			})
		})
	})

	if router.proxy != nil {
		r.Route(ProxyPrefix, func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(authenticated)
			r.Handle("/*", router.proxy)
		})
	}

	// ========================
	// Dashboard Pages
	// ========================
	cfg := router.guard.Config()
	r.Get(cfg.LoginPath, h.LoginPage)
	r.Get(cfg.DeniedPath, h.DeniedPage)
	for _, route := range navigation.DefaultRoutes() {
		r.With(router.guard.Protect(route.Requirement)).Get(route.Path, h.Page(route))
	}

	return r
}
