// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package middleware provides the gateway's own HTTP middleware. Generic
// middleware (RealIP, Recoverer, Compress, CORS, rate limiting) comes from
// the chi ecosystem and is wired in internal/api.
//
// RequestID runs first so that every later log line and error envelope
// carries the id:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//
// PrometheusMetrics labels requests by chi route pattern, so it must wrap
// a chi router; routes it cannot resolve are labelled "unmatched".
package middleware
