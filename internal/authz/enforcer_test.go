// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNewEnforcer_NilConfig(t *testing.T) {
	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer(nil) error: %v", err)
	}
	defer e.Close()

	if e.cache == nil {
		t.Error("default config should enable the decision cache")
	}
}

func TestNewEnforcer_ModelFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.conf")
	if err := os.WriteFile(path, []byte(embeddedModel), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}

	e, err := NewEnforcer(&EnforcerConfig{ModelPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	defer e.Close()

	allowed, err := e.Enforce(RoleManager, PermViewAllOrders)
	if err != nil || !allowed {
		t.Errorf("Enforce(manager, view_all_orders) = %v, %v", allowed, err)
	}
}

func TestNewEnforcer_MissingModelFileFallsBack(t *testing.T) {
	e, err := NewEnforcer(&EnforcerConfig{ModelPath: "/nonexistent/model.conf"})
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	defer e.Close()

	if e.PolicyCount() == 0 {
		t.Error("expected seeded policy with embedded model")
	}
}

func TestEnforcer_PolicyCountMatchesMapping(t *testing.T) {
	e := setupEnforcer(t)

	want := 0
	for _, role := range AllRoles() {
		want += len(PermissionsFor(role))
	}
	if got := e.PolicyCount(); got != want {
		t.Errorf("PolicyCount() = %d, want %d", got, want)
	}
	if got := getGaugeValue(AuthzPolicyRulesTotal); int(got) != want {
		t.Errorf("policy rules gauge = %v, want %d", got, want)
	}
}

func TestEnforcer_AgreesWithMapping(t *testing.T) {
	e := setupEnforcer(t)

	for _, role := range AllRoles() {
		held := PermissionsFor(role)
		for _, perm := range AllPermissions() {
			allowed, err := e.Enforce(role, perm)
			if err != nil {
				t.Fatalf("Enforce(%s, %s) error: %v", role, perm, err)
			}
			if want := containsPermission(held, perm); allowed != want {
				t.Errorf("Enforce(%s, %s) = %v, want %v", role, perm, allowed, want)
			}
		}
	}
}

func TestEnforcer_FounderHoldsEverything(t *testing.T) {
	e := setupEnforcer(t)

	got := e.PermissionsOf(RoleFounder)
	if len(got) != len(AllPermissions()) {
		t.Errorf("PermissionsOf(founder) has %d entries, want %d", len(got), len(AllPermissions()))
	}
}

func TestEnforcer_UnknownSubjectDenied(t *testing.T) {
	e := setupEnforcer(t)

	allowed, err := e.Enforce(Role("gestionnaire"), PermViewAllOrders)
	if err != nil {
		t.Fatalf("Enforce() error: %v", err)
	}
	if allowed {
		t.Error("unmapped role must be denied")
	}
	if perms := e.PermissionsOf(Role("gestionnaire")); len(perms) != 0 {
		t.Errorf("PermissionsOf(unmapped) = %v, want empty", perms)
	}
}

func TestEnforcer_CacheHit(t *testing.T) {
	e := setupEnforcer(t)

	if _, err := e.Enforce(RoleCourier, PermViewAssignedOrders); err != nil {
		t.Fatalf("Enforce() error: %v", err)
	}
	before := getCounterValue(AuthzCacheHitsTotal)
	allowed, err := e.Enforce(RoleCourier, PermViewAssignedOrders)
	if err != nil || !allowed {
		t.Fatalf("Enforce() = %v, %v", allowed, err)
	}
	if after := getCounterValue(AuthzCacheHitsTotal); after != before+1 {
		t.Errorf("cache hits = %v, want %v", after, before+1)
	}
}

func TestEnforcer_CacheDisabled(t *testing.T) {
	e, err := NewEnforcer(&EnforcerConfig{CacheEnabled: false})
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	defer e.Close()

	before := getCounterValue(AuthzPolicyEvaluationsTotal)
	for i := 0; i < 3; i++ {
		if _, err := e.Enforce(RoleManager, PermViewProducts); err != nil {
			t.Fatalf("Enforce() error: %v", err)
		}
	}
	if got := getCounterValue(AuthzPolicyEvaluationsTotal) - before; got != 3 {
		t.Errorf("policy evaluations delta = %v, want 3", got)
	}
}
