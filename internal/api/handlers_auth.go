// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/models"
	"github.com/tomtom215/oceans-admin/internal/validation"
	ws "github.com/tomtom215/oceans-admin/internal/websocket"
)

// Login authenticates the caller in a fresh session.
//
// Body: {"username": "...", "password": "...", "next": "/commandes"}
//
// The previous session of the request, if any, is logged out first. On
// success the response carries the new session and the page to go to: next
// when given, the courier landing page for couriers, "/" otherwise.
//
// @Summary Sign in
// @Description Exchanges username and password for a session with the delivery REST API. Rotates the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials and optional return path"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Signed in"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 429 {object} models.APIResponse "Too many login attempts"
// @Failure 502 {object} models.APIResponse "Upstream unavailable"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ip, ua := clientIP(r), r.UserAgent()
	var previous string
	if old, ok := auth.ProviderFromContext(r.Context()); ok {
		previous = old.SessionID()
	}

	p, err := h.sessions.Rotate(w, r)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternalError, "Failed to start session", err)
		return
	}
	if previous != "" {
		h.security.LogSessionRotated(previous, p.SessionID(), ip)
		if h.hub != nil {
			h.hub.DisconnectSession(previous)
		}
	}

	snap, err := p.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrAuthentication):
		h.security.LogLoginFailure(req.Username, ip, ua, "invalid credentials")
		respondError(w, r, http.StatusUnauthorized, models.ErrCodeInvalidCredentials, "Invalid username or password", nil)
		return
	case errors.Is(err, auth.ErrUpstreamUnavailable):
		h.security.LogLoginFailure(req.Username, ip, ua, "upstream unavailable")
		respondError(w, r, http.StatusBadGateway, models.ErrCodeExternalServiceFail, "Authentication service unavailable", err)
		return
	case errors.Is(err, auth.ErrStaleResult):
		respondError(w, r, http.StatusConflict, models.ErrCodeConflict, "Session changed during login, try again", nil)
		return
	default:
		h.security.LogLoginFailure(req.Username, ip, ua, err.Error())
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternalError, "Login failed", err)
		return
	}

	role, _ := snap.ResolvedRole()
	h.security.LogLoginSuccess(snap.Identity.Username, string(role), p.SessionID(), ip, ua)

	redirect := req.Next
	if redirect == "" {
		redirect = "/"
		if landing, ok := h.guard.Landing(snap); ok {
			redirect = landing
		}
	}
	respondJSON(w, r, http.StatusOK, models.LoginResponse{
		Session:  snap.View(),
		Redirect: h.guard.SafeReturnPath(redirect),
	})
}

// Logout clears the session identity and its cookie. It succeeds without a
// session.
//
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SessionView} "Signed out"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSessionCookie(w)

	p, ok := auth.ProviderFromContext(r.Context())
	if !ok {
		respondJSON(w, r, http.StatusOK, auth.Snapshot{State: auth.StateAbsent}.View())
		return
	}

	before := p.Current()
	if err := p.Logout(r.Context()); err != nil {
		// The in-memory identity is already gone.
		logging.CtxWarn(r.Context()).Err(err).Msg("Logout left a stored credential behind")
	}
	if before.Identity != nil {
		h.security.LogLogout(before.Identity.Username, p.SessionID(), clientIP(r))
	}
	snap := p.Current()
	h.manager.Remove(p.SessionID())

	respondJSON(w, r, http.StatusOK, snap.View())
}

// Session returns the current snapshot.
//
// Query parameters:
//   - wait: a duration such as "2s"; while the session is loading the
//     request blocks up to this long for it to settle
//
// @Summary Current session
// @Tags Auth
// @Produce json
// @Param wait query string false "Maximum time to wait for a loading session, e.g. 2s"
// @Success 200 {object} models.APIResponse{data=models.SessionView} "Session state"
// @Failure 400 {object} models.APIResponse "Invalid wait duration"
// @Router /auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.ProviderFromContext(r.Context())
	if !ok {
		respondJSON(w, r, http.StatusOK, auth.Snapshot{State: auth.StateAbsent}.View())
		return
	}

	raw := r.URL.Query().Get("wait")
	if raw == "" {
		respondJSON(w, r, http.StatusOK, p.Current().View())
		return
	}

	wait, err := time.ParseDuration(raw)
	if err != nil || wait < 0 {
		guard.WriteError(w, r, http.StatusBadRequest, validation.ErrorCode,
			"wait must be a non-negative duration such as 2s", map[string]string{"field": "wait"})
		return
	}
	if wait > h.config.MaxSessionWait {
		wait = h.config.MaxSessionWait
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()
	// On timeout Wait returns the still-loading snapshot.
	snap, _ := p.Wait(ctx)
	respondJSON(w, r, http.StatusOK, snap.View())
}

// SessionStream upgrades to a websocket that receives every snapshot of
// the session, starting with the current one.
//
// @Summary Session state stream
// @Description Websocket stream of session snapshots.
// @Tags Auth
// @Success 101 "Switching protocols"
// @Failure 401 {object} models.APIResponse "No session"
// @Router /auth/session/ws [get]
func (h *Handler) SessionStream(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.ProviderFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, "No session", nil)
		return
	}

	if err := h.hub.Attach(w, r, p); err != nil {
		if errors.Is(err, ws.ErrHubClosed) {
			respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Server is shutting down", nil)
			return
		}
		// The upgrader has already answered.
		logging.CtxDebug(r.Context()).Err(err).Msg("WebSocket upgrade failed")
	}
}
