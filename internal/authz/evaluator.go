// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"github.com/tomtom215/oceans-admin/internal/logging"
)

// RoleSource exposes the resolved role of the current identity.
// ok is false while no role is resolved (identity loading or absent).
type RoleSource interface {
	ResolvedRole() (role Role, ok bool)
}

// StaticRole is a RoleSource that always resolves to the given role.
// Invalid roles resolve to nothing.
type StaticRole Role

// ResolvedRole implements RoleSource.
func (s StaticRole) ResolvedRole() (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// NoRole is a RoleSource with no resolved role.
var NoRole RoleSource = StaticRole("")

// Evaluator answers authorization questions. A nil enforcer makes the
// evaluator fall back to the static mapping.
type Evaluator struct {
	enforcer *Enforcer
}

// NewEvaluator creates an evaluator backed by enforcer.
func NewEvaluator(enforcer *Enforcer) *Evaluator {
	return &Evaluator{enforcer: enforcer}
}

// For binds the evaluator to the role of src.
func (ev *Evaluator) For(src RoleSource) Checker {
	if src == nil {
		src = NoRole
	}
	return Checker{ev: ev, src: src}
}

func (ev *Evaluator) roleHolds(role Role, perm Permission) bool {
	if ev == nil || ev.enforcer == nil {
		for _, p := range rolePermissions[role] {
			if p == perm {
				return true
			}
		}
		return false
	}

	allowed, err := ev.enforcer.Enforce(role, perm)
	if err != nil {
		logging.Warn().Err(err).Str("role", string(role)).Str("permission", string(perm)).Msg("Permission check failed, denying")
		return false
	}
	return allowed
}

// Checker evaluates permissions and roles for one role source. Its methods
// never fail: any uncertainty yields false.
type Checker struct {
	ev  *Evaluator
	src RoleSource
}

// Role returns the resolved role, if any.
func (c Checker) Role() (Role, bool) {
	if c.src == nil {
		return "", false
	}
	role, ok := c.src.ResolvedRole()
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}

// HasPermission reports whether the resolved role holds perm.
func (c Checker) HasPermission(perm Permission) bool {
	role, ok := c.Role()
	if !ok {
		return false
	}
	return c.ev.roleHolds(role, perm)
}

// HasRole reports whether the resolved role ranks at or above required.
// Every role above required passes; use IsExactly for role-only views.
func (c Checker) HasRole(required Role) bool {
	role, ok := c.Role()
	if !ok {
		return false
	}

	have, err := RankOf(role)
	if err != nil {
		return false
	}
	need, err := RankOf(required)
	if err != nil {
		AuthzErrorsTotal.WithLabelValues("unknown_role").Inc()
		return false
	}

	allowed := have >= need
	RecordRoleCheck(required, allowed)
	return allowed
}

// IsExactly reports whether the resolved role is one of roles.
func (c Checker) IsExactly(roles ...Role) bool {
	role, ok := c.Role()
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Permissions returns the permissions held by the resolved role.
func (c Checker) Permissions() []Permission {
	role, ok := c.Role()
	if !ok {
		return []Permission{}
	}
	if c.ev != nil && c.ev.enforcer != nil {
		return c.ev.enforcer.PermissionsOf(role)
	}
	return PermissionsFor(role)
}

// Satisfies applies req: exclusivity first, then the OR of the declared
// role and permission checks. A requirement that declares nothing is
// satisfied by any resolved role.
func (c Checker) Satisfies(req Requirement) bool {
	if _, ok := c.Role(); !ok {
		return false
	}
	if len(req.ExclusiveTo) > 0 && !c.IsExactly(req.ExclusiveTo...) {
		return false
	}
	if req.Role == "" && req.Permission == "" {
		return true
	}
	if req.Role != "" && c.HasRole(req.Role) {
		return true
	}
	if req.Permission != "" && c.HasPermission(req.Permission) {
		return true
	}
	return false
}
