// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package models

import (
	"time"
)

// APIResponse is the envelope of every JSON response.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {"state": "present", "role": "manager"},
//	  "meta": {"request_id": "8d1f...", "timestamp": "2026-03-02T09:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "SESSION_EXPIRED",
//	    "message": "Session expired, sign in again",
//	    "details": {"login_url": "/login?next=%2Fcommandes"}
//	  },
//	  "meta": {"timestamp": "2026-03-02T09:00:00Z"}
//	}
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains metadata about the response
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"

	// Session lifecycle
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeSessionLoading     = "SESSION_LOADING"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
)

// LoginRequest is the body of POST /api/v1/auth/login.
//
// Next is the page to return to after a successful login. It must be a
// local absolute path.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=256"`
	Next     string `json:"next,omitempty" validate:"omitempty,returnpath"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Session  SessionView `json:"session"`
	Redirect string      `json:"redirect"`
}

// SessionView is the client view of an identity snapshot. Role fields are
// empty unless the state is "present".
type SessionView struct {
	State           string `json:"state"`
	Authenticated   bool   `json:"authenticated"`
	Expired         bool   `json:"expired,omitempty"`
	Username        string `json:"username,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role,omitempty"`
	RoleDisplayName string `json:"role_display_name,omitempty"`
	RawRole         string `json:"raw_role,omitempty"`
	Generation      uint64 `json:"generation"`
}

// PermissionsResponse lists what the current role may do.
type PermissionsResponse struct {
	Role            string   `json:"role"`
	RoleDisplayName string   `json:"role_display_name"`
	Permissions     []string `json:"permissions"`
}

// AuthzCheckRequest is the query of GET /api/v1/authz/check. At least one
// field must be set.
type AuthzCheckRequest struct {
	Permission string `json:"permission" validate:"omitempty,permission"`
	Role       string `json:"role" validate:"omitempty,role"`
}

// CheckResponse answers GET /api/v1/authz/check.
type CheckResponse struct {
	Allowed      bool   `json:"allowed"`
	Role         string `json:"role,omitempty"`
	Permission   string `json:"permission,omitempty"`
	RequiredRole string `json:"required_role,omitempty"`
}

// PageDescriptor describes a dashboard page the caller may render.
type PageDescriptor struct {
	Path  string `json:"path"`
	Title string `json:"title"`

	// Role and RoleDisplayName are set on pages that need an identity.
	Role            string `json:"role,omitempty"`
	RoleDisplayName string `json:"role_display_name,omitempty"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    float64           `json:"uptime_seconds"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
