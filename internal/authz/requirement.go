// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import "strings"

// Requirement is the access declaration of a route or menu entry.
// Role and Permission combine with OR. ExclusiveTo, when set, restricts
// the entry to the listed roles regardless of Role and Permission.
type Requirement struct {
	Role        Role       `json:"required_role,omitempty"`
	Permission  Permission `json:"required_permission,omitempty"`
	ExclusiveTo []Role     `json:"exclusive_to,omitempty"`
}

// RequireRole declares an "at least role" requirement.
func RequireRole(role Role) Requirement {
	return Requirement{Role: role}
}

// RequirePermission declares a permission requirement.
func RequirePermission(perm Permission) Requirement {
	return Requirement{Permission: perm}
}

// ExclusiveTo declares an entry visible only to the given roles.
func ExclusiveTo(roles ...Role) Requirement {
	return Requirement{ExclusiveTo: roles}
}

// IsZero reports whether the requirement declares nothing.
func (r Requirement) IsZero() bool {
	return r.Role == "" && r.Permission == "" && len(r.ExclusiveTo) == 0
}

// String renders the requirement for logs.
func (r Requirement) String() string {
	if r.IsZero() {
		return "authenticated"
	}
	var parts []string
	if len(r.ExclusiveTo) > 0 {
		names := make([]string, len(r.ExclusiveTo))
		for i, role := range r.ExclusiveTo {
			names[i] = string(role)
		}
		parts = append(parts, "only:"+strings.Join(names, "|"))
	}
	if r.Role != "" {
		parts = append(parts, "role>="+string(r.Role))
	}
	if r.Permission != "" {
		parts = append(parts, "perm:"+string(r.Permission))
	}
	return strings.Join(parts, " or ")
}
