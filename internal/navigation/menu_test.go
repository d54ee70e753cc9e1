// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package navigation

import (
	"reflect"
	"testing"

	"github.com/tomtom215/oceans-admin/internal/authz"
)

func visiblePaths(role authz.Role) []string {
	c := authz.NewEvaluator(nil).For(authz.StaticRole(role))
	var paths []string
	for _, e := range Visible(DefaultMenu(), c) {
		paths = append(paths, e.Path)
	}
	return paths
}

func TestDefaultMenu_Shape(t *testing.T) {
	menu := DefaultMenu()
	if len(menu) != 12 {
		t.Fatalf("DefaultMenu() has %d entries, want 12", len(menu))
	}
	seen := make(map[string]bool)
	for _, e := range menu {
		if seen[e.Path] {
			t.Errorf("duplicate menu path %q", e.Path)
		}
		seen[e.Path] = true
		if e.Label == "" || e.Icon == "" {
			t.Errorf("entry %q lacks a label or icon", e.Path)
		}
		if _, ok := RouteFor(e.Path); !ok {
			t.Errorf("menu entry %q has no page", e.Path)
		}
	}
}

func TestDefaultMenu_MatchesRoutes(t *testing.T) {
	for _, e := range DefaultMenu() {
		r, _ := RouteFor(e.Path)
		if !reflect.DeepEqual(r.Requirement, e.Requirement) {
			t.Errorf("%s: menu requires %s, page requires %s", e.Path, e.Requirement, r.Requirement)
		}
	}
}

func TestVisible_PerRole(t *testing.T) {
	tests := []struct {
		role authz.Role
		want []string
	}{
		{authz.RoleCourier, []string{"/", "/profil", "/livraisons-attente", "/mes-livraisons"}},
		{authz.RoleSalesManager, []string{"/", "/profil", "/commandes", "/produits"}},
		{authz.RoleManager, []string{"/", "/profil", "/commandes", "/produits", "/clients", "/avis", "/messages"}},
		{authz.RoleAdministrator, []string{"/", "/profil", "/commandes", "/produits", "/clients", "/journaux-activite", "/avis", "/messages", "/parametres"}},
		{authz.RoleFounder, []string{"/", "/profil", "/utilisateurs", "/commandes", "/produits", "/clients", "/journaux-activite", "/avis", "/messages", "/parametres"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := visiblePaths(tt.role); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_NoRole(t *testing.T) {
	got := Visible(DefaultMenu(), authz.NewEvaluator(nil).For(authz.NoRole))
	if len(got) != 2 || got[0].Path != "/" || got[1].Path != "/profil" {
		t.Errorf("Visible(no role) = %v, want only unrestricted entries", got)
	}
}

func TestVisible_ExclusiveBeforeOr(t *testing.T) {
	// Founder satisfies both branches but is not a courier.
	entries := []Entry{{
		Path: "/tournee",
		Requirement: authz.Requirement{
			Role:        authz.RoleCourier,
			Permission:  authz.PermViewAssignedOrders,
			ExclusiveTo: []authz.Role{authz.RoleCourier},
		},
	}}
	founder := authz.NewEvaluator(nil).For(authz.StaticRole(authz.RoleFounder))
	if got := Visible(entries, founder); len(got) != 0 {
		t.Errorf("Visible(founder) = %v, want none", got)
	}
}

func TestVisible_EmptyInput(t *testing.T) {
	got := Visible(nil, authz.NewEvaluator(nil).For(authz.StaticRole(authz.RoleFounder)))
	if got == nil || len(got) != 0 {
		t.Errorf("Visible(nil) = %#v, want empty slice", got)
	}
}

func TestDefaultMenu_ReturnsCopy(t *testing.T) {
	menu := DefaultMenu()
	menu[0].Label = "changed"
	for i := range menu {
		if menu[i].Requirement.ExclusiveTo != nil {
			menu[i].Requirement.ExclusiveTo[0] = authz.RoleFounder
		}
	}

	again := DefaultMenu()
	if again[0].Label != "Tableau de bord" {
		t.Error("label mutation leaked into the menu")
	}
	if visible := visiblePaths(authz.RoleFounder); len(visible) != 10 {
		t.Errorf("founder sees %d entries after mutation, want 10", len(visible))
	}
}
