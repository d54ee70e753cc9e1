// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package guard decides, per request, whether a protected page renders.

Decide checks, in order:

 1. Loading: the identity is loading, or present without a resolved role
 2. Unauthenticated: no identity; redirect to login with a return path
 3. Forbidden: the page requirement is not met; redirect to access denied
 4. Allow

Protect maps decisions to HTTP. Browsers get 303 redirects, API clients
get the JSON envelope with 401, 403 or 503. Return paths are always local:

	g := guard.New(evaluator, nil)
	r.With(g.Protect(authz.RequirePermission(authz.PermViewAllOrders))).Get("/commandes", h)
*/
package guard
