// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package guard

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/models"
)

// Protect returns middleware enforcing req on every request.
//
//   - Loading: 503 with Retry-After and a SESSION_LOADING placeholder
//   - RedirectLogin: 303 to the login page, or 401 for JSON clients
//   - RedirectDenied: 303 to the access-denied page, or 403 for JSON clients
func (g *Guard) Protect(req authz.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := auth.SnapshotFromContext(r.Context())
			d := g.Decide(snap, r.URL.RequestURI(), req)

			switch d.Kind {
			case Allow:
				RecordDecision(d.Kind, "next")
				next.ServeHTTP(w, r)

			case Loading:
				RecordDecision(d.Kind, "json")
				w.Header().Set("Retry-After", "1")
				WriteError(w, r, http.StatusServiceUnavailable, models.ErrCodeSessionLoading,
					"Session is loading", nil)

			case RedirectLogin:
				loginURL := g.LoginURL(d.ReturnTo)
				if WantsJSON(r) {
					RecordDecision(d.Kind, "json")
					code, msg := models.ErrCodeUnauthorized, "Authentication required"
					if d.Expired {
						code, msg = models.ErrCodeSessionExpired, "Session expired, sign in again"
					}
					WriteError(w, r, http.StatusUnauthorized, code, msg, map[string]string{"login_url": loginURL})
					return
				}
				RecordDecision(d.Kind, "redirect")
				http.Redirect(w, r, loginURL, http.StatusSeeOther)

			case RedirectDenied:
				var username string
				if snap.Identity != nil {
					username = snap.Identity.Username
				}
				g.security.LogAccessDenied(username, string(d.Role), r.URL.Path, req.String(), remoteHost(r))
				if WantsJSON(r) {
					RecordDecision(d.Kind, "json")
					WriteError(w, r, http.StatusForbidden, models.ErrCodeForbidden, "Access denied", map[string]string{
						"role":              string(d.Role),
						"role_display_name": authz.DisplayName(d.Role),
						"denied_url":        g.config.DeniedPath,
					})
					return
				}
				RecordDecision(d.Kind, "redirect")
				http.Redirect(w, r, g.config.DeniedPath, http.StatusSeeOther)
			}
		})
	}
}

// remoteHost returns the client address without its port. RealIP runs
// earlier in the chain.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WantsJSON reports whether the caller is an API client rather than a
// browser navigating to a page.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/upstream/") {
		return true
	}
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(r.Context())
	resp := models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &models.APIMeta{
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
