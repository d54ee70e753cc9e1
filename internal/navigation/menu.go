// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package navigation

import (
	"github.com/tomtom215/oceans-admin/internal/authz"
)

// Entry is one sidebar link.
type Entry struct {
	Path  string `json:"path"`
	Label string `json:"label"`

	// Icon is a symbolic icon name; the client maps it to a glyph.
	Icon string `json:"icon"`

	Requirement authz.Requirement `json:"requirement"`
}

var defaultMenu = [...]Entry{
	{Path: "/", Label: "Tableau de bord", Icon: "home"},
	{Path: "/profil", Label: "Profil", Icon: "user"},
	{Path: "/utilisateurs", Label: "Gestion utilisateurs", Icon: "users",
		Requirement: authz.RequirePermission(authz.PermManageUsers)},
	{Path: "/commandes", Label: "Commandes", Icon: "package",
		Requirement: authz.RequirePermission(authz.PermViewAllOrders)},
	{Path: "/produits", Label: "Produits", Icon: "cart",
		Requirement: authz.RequirePermission(authz.PermViewProducts)},
	{Path: "/clients", Label: "Clients", Icon: "contacts",
		Requirement: authz.RequirePermission(authz.PermViewClientDetails)},
	{Path: "/journaux-activite", Label: "Journaux d'activité", Icon: "journal",
		Requirement: authz.RequirePermission(authz.PermViewAllLogs)},
	{Path: "/avis", Label: "Avis & Commentaires", Icon: "star",
		Requirement: authz.RequireRole(authz.RoleManager)},
	{Path: "/livraisons-attente", Label: "Livraisons en attente", Icon: "clipboard",
		Requirement: authz.ExclusiveTo(authz.RoleCourier)},
	{Path: "/mes-livraisons", Label: "Mes livraisons", Icon: "truck",
		Requirement: authz.ExclusiveTo(authz.RoleCourier)},
	{Path: "/messages", Label: "Messages", Icon: "mail",
		Requirement: authz.RequireRole(authz.RoleManager)},
	{Path: "/parametres", Label: "Paramètres", Icon: "settings",
		Requirement: authz.RequireRole(authz.RoleAdministrator)},
}

// DefaultMenu returns the dashboard sidebar in display order.
func DefaultMenu() []Entry {
	out := make([]Entry, len(defaultMenu))
	for i, e := range defaultMenu {
		out[i] = e.clone()
	}
	return out
}

// Visible returns the entries c may see, in their original order. Entries
// restricted to a set of roles are dropped for every other role before
// the role and permission checks run. Entries without a requirement are
// always visible, even with no resolved role.
func Visible(entries []Entry, c authz.Checker) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Requirement.IsZero() || c.Satisfies(e.Requirement) {
			out = append(out, e)
		}
	}
	return out
}

func (e Entry) clone() Entry {
	if e.Requirement.ExclusiveTo != nil {
		e.Requirement.ExclusiveTo = append([]authz.Role(nil), e.Requirement.ExclusiveTo...)
	}
	return e
}
