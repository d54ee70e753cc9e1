// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/models"
)

// View converts the snapshot into its client representation. Identity and
// role fields are filled only while an identity is present.
func (s Snapshot) View() models.SessionView {
	view := models.SessionView{
		State:      s.State.String(),
		Expired:    s.Expired,
		Generation: s.Generation,
	}

	role, ok := s.ResolvedRole()
	if !ok {
		return view
	}

	view.Authenticated = true
	view.Username = s.Identity.Username
	view.DisplayName = s.Identity.DisplayName
	view.Email = s.Identity.Email
	view.RawRole = s.Identity.RawRole
	view.Role = role.String()
	view.RoleDisplayName = authz.DisplayName(role)
	return view
}
