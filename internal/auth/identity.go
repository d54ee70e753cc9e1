// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"strconv"
	"strings"

	"github.com/tomtom215/oceans-admin/internal/authz"
)

// Profile is the user document served by the REST API at /accounts/me/
// and optionally embedded in the token-auth response.
type Profile struct {
	ID          int64  `json:"id,omitempty"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Identity is the authenticated user as held by a Provider. RawRole keeps
// the role string exactly as the upstream delivered it.
type Identity struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	RawRole     string `json:"raw_role,omitempty"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// IdentityFromProfile converts an upstream profile.
func IdentityFromProfile(p *Profile) Identity {
	if p == nil {
		return Identity{}
	}

	id := Identity{
		Username:    p.Username,
		Email:       p.Email,
		RawRole:     p.Role,
		IsStaff:     p.IsStaff,
		IsSuperuser: p.IsSuperuser,
	}
	if p.ID != 0 {
		id.ID = strconv.FormatInt(p.ID, 10)
	}

	id.DisplayName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	if id.DisplayName == "" {
		id.DisplayName = p.Username
	}
	return id
}

// minimalIdentity is used when the token response carries no user and the
// profile fetch fails.
func minimalIdentity(username string) Identity {
	return Identity{
		Username:    username,
		DisplayName: username,
		RawRole:     "gestionnaire",
		IsStaff:     true,
	}
}

// ResolveRole maps the identity to exactly one role. Without a role string
// the staff flags decide; unknown strings fall back to authz.DefaultRole.
func (id Identity) ResolveRole() authz.Role {
	if strings.TrimSpace(id.RawRole) == "" {
		switch {
		case id.IsSuperuser:
			return authz.RoleFounder
		case id.IsStaff:
			return authz.RoleAdministrator
		default:
			return authz.DefaultRole
		}
	}
	return authz.NormalizeRole(id.RawRole)
}
