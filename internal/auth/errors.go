// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import "errors"

// Identity errors
var (
	// ErrAuthentication is returned when the upstream rejects the submitted
	// credentials (HTTP 400 or 401 on the token endpoint).
	ErrAuthentication = errors.New("invalid credentials")

	// ErrSessionExpired is returned when a stored credential is no longer
	// accepted by the upstream.
	ErrSessionExpired = errors.New("session expired")

	// ErrUpstreamUnavailable covers transport failures, 5xx answers and an
	// open circuit breaker.
	ErrUpstreamUnavailable = errors.New("identity upstream unavailable")

	// ErrCredentialNotFound is returned by a CredentialStore for a session
	// with no stored credential.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrStaleResult is returned when an asynchronous result was discarded
	// because a newer login, logout or expiry superseded it.
	ErrStaleResult = errors.New("result superseded by a newer session operation")
)
