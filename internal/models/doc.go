// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package models defines the wire shapes of the gateway's JSON API.

  - APIResponse, APIError, APIMeta: the response envelope used by every
    endpoint and by the route guard
  - LoginRequest, LoginResponse, SessionView: session lifecycle
  - PermissionsResponse, CheckResponse: authorization queries
  - PageDescriptor, HealthResponse: pages and probes

The package has no dependencies on other internal packages so both the
guard and the API layer can share it.
*/
package models
