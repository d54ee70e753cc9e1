// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package api is the HTTP surface of the gateway.

# Routes

	POST /api/v1/auth/login          credentials, returns the session and a redirect
	POST /api/v1/auth/logout         idempotent
	GET  /api/v1/auth/session        current snapshot, ?wait=2s blocks while loading
	GET  /api/v1/auth/session/ws     snapshot stream (websocket)
	GET  /api/v1/authz/permissions   role and permission list
	GET  /api/v1/authz/check         ?permission=...&role=...
	GET  /api/v1/navigation          visible sidebar entries
	GET  /api/v1/health/live|ready   probes
	GET  /metrics                    Prometheus
	GET  /swagger/*                  Swagger UI and doc.json
	*    /upstream/*                 REST API proxy with the session token
	GET  /login, /acces-refuse       public page descriptors
	GET  /, /commandes, ...          guarded page descriptors

Every request passes RequestID, RealIP, Recoverer, Prometheus metrics,
CORS and the session cookie middleware. Pages and the proxy sit behind
guard.Protect with the requirement of their route.

# Responses

JSON bodies use the models.APIResponse envelope. Errors carry a
machine-readable code:

	{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"Invalid username or password"}}

An upstream 401 seen by the proxy expires the session and is rewritten to
SESSION_EXPIRED with a login_url.
*/
package api
