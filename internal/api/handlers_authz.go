// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"net/http"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/models"
	"github.com/tomtom215/oceans-admin/internal/navigation"
	"github.com/tomtom215/oceans-admin/internal/validation"
)

// These handlers run behind guard.Protect, so the session has a resolved
// role.

// Permissions lists the permissions of the caller's role.
//
// @Summary Caller permissions
// @Tags Authorization
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.PermissionsResponse} "Role and permissions"
// @Failure 401 {object} models.APIResponse "Not signed in"
// @Router /authz/permissions [get]
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	checker := h.evaluator.For(auth.SnapshotFromContext(r.Context()))
	role, _ := checker.Role()

	perms := checker.Permissions()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}

	respondJSON(w, r, http.StatusOK, models.PermissionsResponse{
		Role:            string(role),
		RoleDisplayName: authz.DisplayName(role),
		Permissions:     names,
	})
}

// Check answers whether the caller holds a permission or at least a role.
// With both parameters the answer is their OR.
//
// @Summary Check a requirement
// @Tags Authorization
// @Produce json
// @Param permission query string false "Permission name"
// @Param role query string false "Minimum role"
// @Success 200 {object} models.APIResponse{data=models.CheckResponse} "Decision"
// @Failure 400 {object} models.APIResponse "Unknown permission or role"
// @Failure 401 {object} models.APIResponse "Not signed in"
// @Router /authz/check [get]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.AuthzCheckRequest{
		Permission: q.Get("permission"),
		Role:       q.Get("role"),
	}
	if req.Permission == "" && req.Role == "" {
		guard.WriteError(w, r, http.StatusBadRequest, validation.ErrorCode,
			"permission or role is required", map[string]string{"field": "permission"})
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	var requirement authz.Requirement
	if req.Permission != "" {
		requirement.Permission, _ = authz.ParsePermission(req.Permission)
	}
	if req.Role != "" {
		requirement.Role, _ = authz.ParseRole(req.Role)
	}

	checker := h.evaluator.For(auth.SnapshotFromContext(r.Context()))
	role, _ := checker.Role()
	respondJSON(w, r, http.StatusOK, models.CheckResponse{
		Allowed:      checker.Satisfies(requirement),
		Role:         string(role),
		Permission:   string(requirement.Permission),
		RequiredRole: string(requirement.Role),
	})
}

// Navigation returns the sidebar entries visible to the caller.
//
// @Summary Sidebar entries
// @Tags Authorization
// @Produce json
// @Success 200 {object} models.APIResponse "Visible navigation entries"
// @Failure 401 {object} models.APIResponse "Not signed in"
// @Router /navigation [get]
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	checker := h.evaluator.For(auth.SnapshotFromContext(r.Context()))
	respondJSON(w, r, http.StatusOK, navigation.Visible(navigation.DefaultMenu(), checker))
}
