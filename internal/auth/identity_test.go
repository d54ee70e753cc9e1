// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"testing"

	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/models"
)

func TestIdentity_ResolveRole(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     authz.Role
	}{
		{"french founder", Identity{RawRole: "fondateur"}, authz.RoleFounder},
		{"french administrator", Identity{RawRole: "Administrateur"}, authz.RoleAdministrator},
		{"manager", Identity{RawRole: "manager"}, authz.RoleManager},
		{"gestionnaire", Identity{RawRole: "gestionnaire"}, authz.RoleSalesManager},
		{"gestionnaire ventes", Identity{RawRole: "GESTIONNAIRE_VENTES"}, authz.RoleSalesManager},
		{"courier with padding", Identity{RawRole: " livreur "}, authz.RoleCourier},
		{"unknown string falls back", Identity{RawRole: "stagiaire", IsSuperuser: true}, authz.DefaultRole},
		{"no role superuser", Identity{IsSuperuser: true, IsStaff: true}, authz.RoleFounder},
		{"no role staff", Identity{IsStaff: true}, authz.RoleAdministrator},
		{"no role no flags", Identity{}, authz.DefaultRole},
		{"blank role staff", Identity{RawRole: "   ", IsStaff: true}, authz.RoleAdministrator},
		{"explicit role beats staff flag", Identity{RawRole: "livreur", IsStaff: true}, authz.RoleCourier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.ResolveRole(); got != tt.want {
				t.Errorf("ResolveRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityFromProfile(t *testing.T) {
	id := IdentityFromProfile(&Profile{
		ID:        42,
		Username:  "amina",
		FirstName: "Amina",
		LastName:  "Diallo",
		Email:     "amina@example.com",
		Role:      "gestionnaire",
	})

	if id.ID != "42" {
		t.Errorf("ID = %q, want 42", id.ID)
	}
	if id.DisplayName != "Amina Diallo" {
		t.Errorf("DisplayName = %q", id.DisplayName)
	}
	if id.RawRole != "gestionnaire" {
		t.Errorf("RawRole = %q, want upstream string kept verbatim", id.RawRole)
	}
}

func TestIdentityFromProfile_DisplayNameFallsBackToUsername(t *testing.T) {
	id := IdentityFromProfile(&Profile{Username: "bob"})
	if id.DisplayName != "bob" {
		t.Errorf("DisplayName = %q, want bob", id.DisplayName)
	}
	if id.ID != "" {
		t.Errorf("ID = %q, want empty for zero id", id.ID)
	}
}

func TestIdentityFromProfile_Nil(t *testing.T) {
	if id := IdentityFromProfile(nil); id != (Identity{}) {
		t.Errorf("IdentityFromProfile(nil) = %+v", id)
	}
}

func TestMinimalIdentity_ResolvesDefaultRole(t *testing.T) {
	if got := minimalIdentity("bob").ResolveRole(); got != authz.DefaultRole {
		t.Errorf("minimal identity role = %q, want %q", got, authz.DefaultRole)
	}
}

func TestSnapshotView(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want models.SessionView
	}{
		{
			name: "loading",
			snap: Snapshot{State: StateLoading, Generation: 1},
			want: models.SessionView{State: "loading", Generation: 1},
		},
		{
			name: "absent after expiry",
			snap: Snapshot{State: StateAbsent, Expired: true, Generation: 4},
			want: models.SessionView{State: "absent", Expired: true, Generation: 4},
		},
		{
			name: "present",
			snap: Snapshot{
				State: StatePresent,
				Identity: &Identity{
					Username:    "bob",
					DisplayName: "Bob Martin",
					Email:       "bob@oceans.example",
					RawRole:     "livreur",
				},
				Role:       authz.RoleCourier,
				Generation: 2,
			},
			want: models.SessionView{
				State:           "present",
				Authenticated:   true,
				Username:        "bob",
				DisplayName:     "Bob Martin",
				Email:           "bob@oceans.example",
				Role:            "courier",
				RoleDisplayName: "Livreur",
				RawRole:         "livreur",
				Generation:      2,
			},
		},
		{
			name: "present without identity hides role",
			snap: Snapshot{State: StatePresent, Role: authz.RoleFounder, Generation: 3},
			want: models.SessionView{State: "present", Generation: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.View(); got != tt.want {
				t.Errorf("View() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
