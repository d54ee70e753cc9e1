// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/tomtom215/oceans-admin/internal/logging"
)

type contextKey string

// ProviderContextKey holds the session Provider of a request.
const ProviderContextKey contextKey = "session-provider"

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the cookie lifetime.
	SessionTTL time.Duration

	// CookiePath is the path for the session cookie.
	CookiePath string

	// CookieDomain is the domain for the session cookie.
	CookieDomain string

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool

	// CookieSameSite sets the SameSite attribute.
	CookieSameSite http.SameSite
}

// DefaultSessionMiddlewareConfig returns sensible defaults.
func DefaultSessionMiddlewareConfig() *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     "oceans_session",
		SessionTTL:     7 * 24 * time.Hour,
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware binds requests to session Providers through a cookie.
type SessionMiddleware struct {
	manager *Manager
	config  *SessionMiddlewareConfig
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(manager *Manager, config *SessionMiddlewareConfig) *SessionMiddleware {
	if config == nil {
		config = DefaultSessionMiddlewareConfig()
	}
	return &SessionMiddleware{
		manager: manager,
		config:  config,
	}
}

// Attach resolves the session cookie into a Provider on the request
// context. Requests without a valid cookie, or whose cookie names no
// session in memory or in the store, continue with no provider, which
// reads as Absent.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.extractSessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, ok := m.manager.Open(r.Context(), sessionID)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithProvider(r.Context(), p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Rotate starts a fresh session for a login and sets its cookie. The
// previous session of the request, if any, is logged out and released so a
// pre-login session id can never carry an identity.
func (m *SessionMiddleware) Rotate(w http.ResponseWriter, r *http.Request) (*Provider, error) {
	if old, ok := ProviderFromContext(r.Context()); ok {
		if err := old.Logout(r.Context()); err != nil {
			logging.Warn().Err(err).Str("session", logging.SanitizeSessionID(old.SessionID())).Msg("Failed to clear previous session")
		}
		m.manager.Remove(old.SessionID())
	}

	p, err := m.manager.Create(r.Context())
	if err != nil {
		return nil, err
	}
	m.SetSessionCookie(w, p.SessionID())
	return p, nil
}

// extractSessionID returns the cookie value if it has the shape of an id
// issued by generateSessionID.
func (m *SessionMiddleware) extractSessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if len(cookie.Value) != 64 {
		return ""
	}
	if _, err := hex.DecodeString(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sessionID,
		Path:     m.config.CookiePath,
		Domain:   m.config.CookieDomain,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		Domain:   m.config.CookieDomain,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// ProviderFromContext returns the session Provider attached to ctx.
func ProviderFromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(ProviderContextKey).(*Provider)
	return p, ok && p != nil
}

// SnapshotFromContext returns the current snapshot of the request's
// session. A request without a session is Absent.
func SnapshotFromContext(ctx context.Context) Snapshot {
	if p, ok := ProviderFromContext(ctx); ok {
		return p.Current()
	}
	return Snapshot{State: StateAbsent}
}

// WithProvider returns a copy of ctx carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ProviderContextKey, p)
}
