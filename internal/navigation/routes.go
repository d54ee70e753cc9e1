// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package navigation

import (
	"strings"

	"github.com/tomtom215/oceans-admin/internal/authz"
)

// Route is a protected dashboard page.
type Route struct {
	Path        string
	Title       string
	Requirement authz.Requirement
}

var defaultRoutes = [...]Route{
	{Path: "/", Title: "Tableau de bord"},
	{Path: "/commandes", Title: "Commandes", Requirement: authz.RequirePermission(authz.PermViewAllOrders)},
	{Path: "/produits", Title: "Produits", Requirement: authz.RequirePermission(authz.PermViewProducts)},
	{Path: "/categories", Title: "Catégories", Requirement: authz.RequirePermission(authz.PermManageProducts)},
	{Path: "/marques", Title: "Marques", Requirement: authz.RequirePermission(authz.PermManageProducts)},
	{Path: "/clients", Title: "Clients", Requirement: authz.RequirePermission(authz.PermViewClientDetails)},
	{Path: "/journaux-activite", Title: "Journaux d'activité", Requirement: authz.RequirePermission(authz.PermViewAllLogs)},
	{Path: "/avis", Title: "Avis & Commentaires", Requirement: authz.RequireRole(authz.RoleManager)},
	{Path: "/livraisons-attente", Title: "Livraisons en attente", Requirement: authz.ExclusiveTo(authz.RoleCourier)},
	{Path: "/mes-livraisons", Title: "Mes livraisons", Requirement: authz.ExclusiveTo(authz.RoleCourier)},
	{Path: "/messages", Title: "Messages", Requirement: authz.RequireRole(authz.RoleManager)},
	{Path: "/profil", Title: "Profil"},
	{Path: "/utilisateurs", Title: "Gestion utilisateurs", Requirement: authz.RequirePermission(authz.PermManageUsers)},
	{Path: "/parametres", Title: "Paramètres", Requirement: authz.RequireRole(authz.RoleAdministrator)},
}

// DefaultRoutes returns the protected page table.
func DefaultRoutes() []Route {
	out := make([]Route, len(defaultRoutes))
	for i, r := range defaultRoutes {
		if r.Requirement.ExclusiveTo != nil {
			r.Requirement.ExclusiveTo = append([]authz.Role(nil), r.Requirement.ExclusiveTo...)
		}
		out[i] = r
	}
	return out
}

// RouteFor looks up the page at path. A trailing slash is ignored.
func RouteFor(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range DefaultRoutes() {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
