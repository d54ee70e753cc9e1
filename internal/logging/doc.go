// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package logging provides the gateway's zerolog-based structured logging.

The global logger is configured once from main and is safe for concurrent
use:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("addr", addr).Msg("HTTP server listening")

Request-scoped logging picks up the request id, correlation id and session
(masked) stored in the context by the HTTP middleware:

	logging.CtxInfo(r.Context()).Str("role", string(role)).Msg("Login succeeded")

SecurityLogger records authentication events (login, logout, expiry,
access denied) with usernames and session ids masked. Never log tokens or
passwords directly; use SanitizeToken when a token must be referenced.

NewSlogHandler adapts the global logger to log/slog for libraries that
take a *slog.Logger, such as the supervisor event hook.

Always terminate log chains with .Msg() or .Send():

	logging.Warn().Err(err).Msg("Credential cleanup failed")  // emitted
	logging.Warn().Err(err)                                    // never emitted
*/
package logging
