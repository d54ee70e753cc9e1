// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"errors"
	"fmt"
	"strings"
)

// Role is one of the fixed privilege levels assigned to an identity.
type Role string

// Roles, listed from least to most privileged.
const (
	RoleCourier       Role = "courier"
	RoleSalesManager  Role = "sales_manager"
	RoleManager       Role = "manager"
	RoleAdministrator Role = "administrator"
	RoleFounder       Role = "founder"
)

// DefaultRole is assigned when an authenticated identity carries a role
// string that cannot be mapped. It is part of both the hierarchy and the
// permission mapping.
const DefaultRole = RoleSalesManager

// Registry errors
var (
	// ErrUnknownRole is returned when a role is not part of the hierarchy.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownPermission is returned when a permission is not defined.
	ErrUnknownPermission = errors.New("unknown permission")
)

// hierarchy holds every role exactly once, least privileged first.
var hierarchy = [...]Role{
	RoleCourier,
	RoleSalesManager,
	RoleManager,
	RoleAdministrator,
	RoleFounder,
}

// roleAliases maps lower-cased raw role strings delivered by the REST API
// (French backend names and canonical names) to roles.
var roleAliases = map[string]Role{
	"fondateur":           RoleFounder,
	"founder":             RoleFounder,
	"administrateur":      RoleAdministrator,
	"administrator":       RoleAdministrator,
	"manager":             RoleManager,
	"gestionnaire_ventes": RoleSalesManager,
	"gestionnaire":        RoleSalesManager,
	"sales_manager":       RoleSalesManager,
	"livreur":             RoleCourier,
	"courier":             RoleCourier,
}

var displayNames = map[Role]string{
	RoleFounder:       "Fondateur",
	RoleAdministrator: "Administrateur",
	RoleManager:       "Manager",
	RoleSalesManager:  "Gestionnaire des ventes",
	RoleCourier:       "Livreur",
}

// AllRoles returns the role hierarchy, least privileged first.
// A new slice is returned on every call.
func AllRoles() []Role {
	roles := make([]Role, len(hierarchy))
	copy(roles, hierarchy[:])
	return roles
}

// RankOf returns the zero-based position of role in the hierarchy.
// Callers must treat ErrUnknownRole as a denial.
func RankOf(role Role) (int, error) {
	for i, r := range hierarchy {
		if r == role {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, err := RankOf(r)
	return err == nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole maps a raw role string to a Role. Matching is case-insensitive,
// ignores surrounding whitespace and keeps underscores significant.
func ParseRole(raw string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleAliases[key]; ok {
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// NormalizeRole is the total form of ParseRole: unrecognized input resolves
// to DefaultRole.
func NormalizeRole(raw string) Role {
	role, err := ParseRole(raw)
	if err != nil {
		return DefaultRole
	}
	return role
}

// DisplayName returns the localized name shown to users for role.
func DisplayName(role Role) string {
	if name, ok := displayNames[role]; ok {
		return name
	}
	return "Utilisateur"
}
