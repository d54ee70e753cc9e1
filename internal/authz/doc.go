// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package authz holds the role/permission authorization model of the admin
// dashboard: the role hierarchy, the permission catalogue, the role to
// permission mapping and the evaluation functions built on them.
//
// # Roles
//
// Five roles form a total order, least privileged first:
//
//	courier < sales_manager < manager < administrator < founder
//
// The order is used only for "at least role X" checks (Checker.HasRole).
// Raw role strings from the REST API are normalized case-insensitively
// through an alias table that accepts both the French backend names
// (fondateur, administrateur, gestionnaire_ventes, gestionnaire, livreur)
// and the canonical names. Unrecognized strings resolve to DefaultRole.
//
// # Permissions
//
// Permissions are unordered capability flags. The mapping is total over
// roles and the founder holds every permission; NewEnforcer refuses to
// start if the seeded policy breaks either rule.
//
// # Policy Model
//
// Decisions are evaluated by Casbin using the embedded model.conf:
//
//	[request_definition]
//	r = sub, act
//
//	[policy_definition]
//	p = sub, act
//
//	[matchers]
//	m = r.sub == p.sub && r.act == p.act
//
// Subjects are role names and actions are permission identifiers. Rules are
// seeded from the package mapping, one "p, role, permission" line each.
//
// # Usage Example
//
//	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
//	if err != nil {
//	    return err
//	}
//	defer enforcer.Close()
//
//	checker := authz.NewEvaluator(enforcer).For(snapshot)
//	if checker.HasPermission(authz.PermViewAllOrders) {
//	    // render the orders table
//	}
//
// # Requirements
//
// Routes and menu entries declare a Requirement. Checker.Satisfies applies
// ExclusiveTo first, then the OR of the role and permission checks:
//
//	req := authz.Requirement{Role: authz.RoleManager, Permission: authz.PermViewAllOrders}
//	checker.Satisfies(req) // true for a sales_manager: the permission passes
//
// # Thread Safety
//
// The registry is immutable after package initialization. The enforcer
// wraps a Casbin SyncedEnforcer and an RWMutex-protected decision cache.
package authz
