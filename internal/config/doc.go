// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package config loads and validates the gateway configuration.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml or /etc/oceans-admin/config.yaml),
then environment variables. Only mapped environment variables are read:

	UPSTREAM_URL=https://api.oceans.example/api
	CREDENTIAL_STORE=badger
	CREDENTIAL_STORE_PATH=/data/credentials
	SESSION_TTL=168h
	CORS_ORIGINS=https://admin.oceans.example,https://ops.oceans.example
	LOG_LEVEL=debug

Example YAML:

	server:
	  port: 8080
	  environment: production
	upstream:
	  base_url: https://api.oceans.example/api
	  breaker_failure_rate: 0.5
	session:
	  cookie_secure: true
	  idle_timeout: 45m

Validate rejects malformed URLs, non-positive durations, unknown storage
backends and log levels, and wildcard CORS in production. In production a
Badger store on disk also needs CREDENTIAL_ENCRYPTION_KEY, so upstream
tokens are never written in clear.
*/
package config
