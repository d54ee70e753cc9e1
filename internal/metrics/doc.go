// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package metrics defines the gateway's HTTP-level Prometheus metrics.
//
// All collectors register with the default registry through promauto and
// are exposed on /metrics by promhttp.Handler.
//
// # HTTP
//
//	api_requests_total{method,endpoint,status_code}
//	api_request_duration_seconds{method,endpoint}
//	api_active_requests
//	api_rate_limit_hits_total{limiter}
//
// The endpoint label is the chi route pattern ("/api/v1/auth/session"),
// never the raw path, so label cardinality stays bounded.
//
// # Upstream proxy
//
//	upstream_proxy_requests_total{method,status_class}
//	upstream_proxy_session_expirations_total
//
// # WebSocket
//
//	websocket_connections
//	websocket_messages_sent_total
//	websocket_errors_total{error_type}
//
// # Process
//
//	app_info{version,go_version}
//	app_uptime_seconds
//
// Identity metrics (identity_*), authorization metrics (authz_*) and guard
// decisions (guard_decisions_total) are declared in their own packages.
package metrics
