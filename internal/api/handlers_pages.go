// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"net/http"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/models"
	"github.com/tomtom215/oceans-admin/internal/navigation"
)

// Page serves the descriptor of a guarded dashboard page. The dashboard
// home sends couriers to their own landing page.
func (h *Handler) Page(route navigation.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := auth.SnapshotFromContext(r.Context())
		if route.Path == "/" {
			if landing, ok := h.guard.Landing(snap); ok {
				http.Redirect(w, r, landing, http.StatusSeeOther)
				return
			}
		}
		respondJSON(w, r, http.StatusOK, pageDescriptor(route.Path, route.Title, snap))
	}
}

// LoginPage serves the public login page descriptor.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.PageDescriptor{
		Path:  h.guard.Config().LoginPath,
		Title: "Connexion",
	})
}

// DeniedPage serves the public access-denied descriptor naming the
// caller's role.
func (h *Handler) DeniedPage(w http.ResponseWriter, r *http.Request) {
	snap := auth.SnapshotFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, pageDescriptor(h.guard.Config().DeniedPath, "Accès refusé", snap))
}

// NotFound answers unknown routes with an error envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Not found", nil)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed", nil)
}

func pageDescriptor(path, title string, snap auth.Snapshot) models.PageDescriptor {
	d := models.PageDescriptor{Path: path, Title: title}
	if role, ok := snap.ResolvedRole(); ok {
		d.Role = string(role)
		d.RoleDisplayName = authz.DisplayName(role)
	}
	return d
}

