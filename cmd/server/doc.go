// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package main is the entry point for the Oceans Admin gateway.

The gateway sits in front of the delivery-ops dashboard. It resolves each
browser session into an identity and a role, guards every dashboard page and
API route on the role's permissions, and serves the navigation entries the
role may see. Identities come from the delivery REST API; the gateway stores
only the API token of each session.

# Application Architecture

Processes run under a Suture v4 supervisor tree:

	RootSupervisor ("oceans-admin")
	├── SessionSupervisor ("session-layer")
	│   ├── Session Manager (idle sweeps, credential cleanup)
	│   ├── WebSocket Hub (session state streams)
	│   └── Uptime Reporter
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Credential store: BadgerDB or in-memory
 4. Identity client: REST client with rate limiting and a circuit breaker
 5. Authorization: Casbin enforcer seeded from the role registry
 6. Sessions, guard and WebSocket hub
 7. HTTP Server: Chi router with middleware stack
 8. Supervisor Tree: starts every service and handles restarts

# Configuration

Configuration is loaded from config.yaml (or the file named by CONFIG_PATH)
and overridden by environment variables:

	HTTP_PORT=8080
	UPSTREAM_URL=http://127.0.0.1:8000/api
	UPSTREAM_PROXY_ENABLED=true
	SESSION_COOKIE_SECURE=true
	CREDENTIAL_STORE=badger
	CREDENTIAL_STORE_PATH=/data/credentials
	CREDENTIAL_ENCRYPTION_KEY=<base64, 32 bytes>
	LOG_LEVEL=info
	LOG_FORMAT=json

See internal/config for every option.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server first within its shutdown timeout, then the session layer; the
credential store and the enforcer are closed last.

# Example Usage

	# Development
	LOG_FORMAT=console SESSION_COOKIE_SECURE=false CREDENTIAL_STORE=memory ./server

	# Production
	ENVIRONMENT=production CREDENTIAL_STORE_PATH=/data/credentials \
	CREDENTIAL_ENCRYPTION_KEY="$(cat /run/secrets/credential_key)" ./server
*/
package main
