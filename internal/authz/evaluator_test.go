// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"testing"
)

// evaluators returns a static and an enforcer-backed evaluator so every
// behavior is checked against both paths.
func evaluators(t *testing.T) map[string]*Evaluator {
	t.Helper()
	return map[string]*Evaluator{
		"static":   NewEvaluator(nil),
		"enforcer": NewEvaluator(setupEnforcer(t)),
	}
}

func TestChecker_HasRoleRankTable(t *testing.T) {
	roles := AllRoles()
	for name, ev := range evaluators(t) {
		t.Run(name, func(t *testing.T) {
			for i, have := range roles {
				c := ev.For(StaticRole(have))
				for j, need := range roles {
					want := i >= j
					if got := c.HasRole(need); got != want {
						t.Errorf("%s.HasRole(%s) = %v, want %v", have, need, got, want)
					}
				}
			}
		})
	}
}

func TestChecker_HasRoleUnknownRequired(t *testing.T) {
	before := getCounterValue(AuthzErrorsTotal.WithLabelValues("unknown_role"))

	c := NewEvaluator(nil).For(StaticRole(RoleFounder))
	if c.HasRole(Role("superadmin")) {
		t.Error("unknown required role must fail")
	}
	if after := getCounterValue(AuthzErrorsTotal.WithLabelValues("unknown_role")); after != before+1 {
		t.Errorf("unknown_role errors = %v, want %v", after, before+1)
	}
}

func TestChecker_NoRoleFailsEverything(t *testing.T) {
	c := NewEvaluator(nil).For(NoRole)

	if _, ok := c.Role(); ok {
		t.Error("NoRole should not resolve")
	}
	if c.HasPermission(PermViewOwnLogs) {
		t.Error("HasPermission must be false without a role")
	}
	if c.HasRole(RoleCourier) {
		t.Error("HasRole must be false without a role")
	}
	if c.Satisfies(Requirement{}) {
		t.Error("empty requirement must not pass without a role")
	}
	if perms := c.Permissions(); perms == nil || len(perms) != 0 {
		t.Errorf("Permissions() = %v, want empty non-nil", perms)
	}
}

func TestChecker_NilSource(t *testing.T) {
	c := NewEvaluator(nil).For(nil)
	if c.HasPermission(PermViewProducts) {
		t.Error("nil source must deny")
	}
}

func TestStaticRole_InvalidDoesNotResolve(t *testing.T) {
	if _, ok := StaticRole("gestionnaire").ResolvedRole(); ok {
		t.Error("alias strings are not canonical roles")
	}
}

func TestChecker_CourierScenario(t *testing.T) {
	for name, ev := range evaluators(t) {
		t.Run(name, func(t *testing.T) {
			c := ev.For(StaticRole(RoleCourier))

			if !c.HasPermission(PermViewAssignedOrders) {
				t.Error("courier should hold view_assigned_orders")
			}
			if c.HasPermission(PermViewAllOrders) {
				t.Error("courier must not hold view_all_orders")
			}
			if !c.HasRole(RoleCourier) {
				t.Error("courier should satisfy HasRole(courier)")
			}
			if c.HasRole(RoleSalesManager) {
				t.Error("courier must not satisfy HasRole(sales_manager)")
			}
		})
	}
}

func TestChecker_FounderHoldsEverything(t *testing.T) {
	for name, ev := range evaluators(t) {
		t.Run(name, func(t *testing.T) {
			c := ev.For(StaticRole(RoleFounder))
			for _, p := range AllPermissions() {
				if !c.HasPermission(p) {
					t.Errorf("founder lacks %s", p)
				}
			}
			if len(c.Permissions()) != len(AllPermissions()) {
				t.Errorf("Permissions() has %d entries, want %d", len(c.Permissions()), len(AllPermissions()))
			}
		})
	}
}

func TestChecker_IsExactly(t *testing.T) {
	c := NewEvaluator(nil).For(StaticRole(RoleManager))

	if !c.IsExactly(RoleCourier, RoleManager) {
		t.Error("manager is in the list")
	}
	if c.IsExactly(RoleCourier) {
		t.Error("manager is not a courier")
	}
	if c.IsExactly() {
		t.Error("empty list never matches")
	}
}

func TestChecker_Satisfies(t *testing.T) {
	tests := []struct {
		name string
		role Role
		req  Requirement
		want bool
	}{
		{"empty requirement passes any role", RoleCourier, Requirement{}, true},
		{"permission held", RoleSalesManager, RequirePermission(PermViewAllOrders), true},
		{"permission missing", RoleCourier, RequirePermission(PermViewAllOrders), false},
		{"role met", RoleAdministrator, RequireRole(RoleManager), true},
		{"role not met", RoleSalesManager, RequireRole(RoleManager), false},
		{"or: permission passes when role fails", RoleSalesManager,
			Requirement{Role: RoleManager, Permission: PermViewAllOrders}, true},
		{"or: role passes when permission fails", RoleManager,
			Requirement{Role: RoleManager, Permission: PermManageSystemSettings}, true},
		{"or: both fail", RoleCourier,
			Requirement{Role: RoleManager, Permission: PermViewAllOrders}, false},
		{"exclusive admits listed role", RoleCourier, ExclusiveTo(RoleCourier), true},
		{"exclusive rejects higher role", RoleFounder, ExclusiveTo(RoleCourier), false},
		{"exclusive checked before permission", RoleFounder,
			Requirement{Permission: PermViewAssignedOrders, ExclusiveTo: []Role{RoleCourier}}, false},
		{"exclusive and permission both hold", RoleCourier,
			Requirement{Permission: PermViewAssignedOrders, ExclusiveTo: []Role{RoleCourier}}, true},
		{"exclusive passes but permission fails", RoleCourier,
			Requirement{Permission: PermViewAllOrders, ExclusiveTo: []Role{RoleCourier}}, false},
	}

	for name, ev := range evaluators(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				if got := ev.For(StaticRole(tt.role)).Satisfies(tt.req); got != tt.want {
					t.Errorf("%s.Satisfies(%s) = %v, want %v", tt.role, tt.req, got, tt.want)
				}
			})
		}
	}
}

func TestRequirement_String(t *testing.T) {
	tests := []struct {
		req  Requirement
		want string
	}{
		{Requirement{}, "authenticated"},
		{RequireRole(RoleManager), "role>=manager"},
		{RequirePermission(PermViewAllLogs), "perm:view_all_logs"},
		{Requirement{Role: RoleManager, Permission: PermViewAllOrders}, "role>=manager or perm:view_all_orders"},
		{ExclusiveTo(RoleCourier), "only:courier"},
	}
	for _, tt := range tests {
		if got := tt.req.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
