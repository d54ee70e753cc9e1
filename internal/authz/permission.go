// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"fmt"
	"strings"
)

// Permission is a fine-grained capability flag. Permissions are unordered;
// a role either holds one or it does not.
type Permission string

// User management
const (
	PermManageAllUsers Permission = "manage_all_users"
	PermManageStaff    Permission = "manage_staff"
	PermViewUsers      Permission = "view_users"
	PermManageUsers    Permission = "manage_users"
)

// Catalogue and inventory
const (
	PermManageProducts  Permission = "manage_products"
	PermViewProducts    Permission = "view_products"
	PermManageInventory Permission = "manage_inventory"
	PermViewInventory   Permission = "view_inventory"
)

// Orders
const (
	PermManageAllOrders      Permission = "manage_all_orders"
	PermManageAssignedOrders Permission = "manage_assigned_orders"
	PermViewAllOrders        Permission = "view_all_orders"
	PermViewAssignedOrders   Permission = "view_assigned_orders"
	PermPrepareOrders        Permission = "prepare_orders"
)

// Clients. Details and basic info are two sensitivity scopes.
const (
	PermManageClients       Permission = "manage_clients"
	PermViewClientDetails   Permission = "view_client_details"
	PermViewClientBasicInfo Permission = "view_client_basic_info"
)

// Statistics, settings, finance, promotions and activity logs
const (
	PermViewAllStats         Permission = "view_all_stats"
	PermViewSalesStats       Permission = "view_sales_stats"
	PermExportData           Permission = "export_data"
	PermManageSystemSettings Permission = "manage_system_settings"
	PermManageRefunds        Permission = "manage_refunds"
	PermApproveRefunds       Permission = "approve_refunds"
	PermRegisterManualSales  Permission = "register_manual_sales"
	PermManagePromotions     Permission = "manage_promotions"
	PermViewPromotions       Permission = "view_promotions"
	PermViewAllLogs          Permission = "view_all_logs"
	PermViewOwnLogs          Permission = "view_own_logs"
)

// permissions lists every defined permission in declaration order.
var permissions = [...]Permission{
	PermManageAllUsers,
	PermManageStaff,
	PermViewUsers,
	PermManageProducts,
	PermViewProducts,
	PermManageInventory,
	PermViewInventory,
	PermManageAllOrders,
	PermManageAssignedOrders,
	PermViewAllOrders,
	PermViewAssignedOrders,
	PermPrepareOrders,
	PermManageClients,
	PermViewClientDetails,
	PermViewClientBasicInfo,
	PermViewAllStats,
	PermViewSalesStats,
	PermExportData,
	PermManageSystemSettings,
	PermManageRefunds,
	PermApproveRefunds,
	PermRegisterManualSales,
	PermManagePromotions,
	PermViewPromotions,
	PermViewAllLogs,
	PermManageUsers,
	PermViewOwnLogs,
}

// rolePermissions is the role to permission mapping. The founder entry is
// filled from the full permission list in init so it cannot drift.
var rolePermissions = map[Role][]Permission{
	RoleAdministrator: {
		PermManageStaff,
		PermViewUsers,
		PermManageProducts,
		PermViewProducts,
		PermManageAllOrders,
		PermViewAllOrders,
		PermManageClients,
		PermViewClientDetails,
		PermViewAllStats,
		PermViewSalesStats,
		PermExportData,
		PermManageRefunds,
		PermApproveRefunds,
		PermViewAllLogs,
	},
	RoleManager: {
		PermViewUsers,
		PermViewProducts,
		PermViewAllOrders,
		PermManageAllOrders,
		PermViewClientDetails,
		PermViewSalesStats,
		PermApproveRefunds,
		PermViewOwnLogs,
	},
	RoleSalesManager: {
		PermViewProducts,
		PermManageProducts,
		PermManageInventory,
		PermViewInventory,
		PermViewAllOrders,
		PermPrepareOrders,
		PermRegisterManualSales,
		PermManagePromotions,
		PermViewPromotions,
		PermViewSalesStats,
		PermViewOwnLogs,
	},
	RoleCourier: {
		PermViewAssignedOrders,
		PermManageAssignedOrders,
		PermViewClientBasicInfo,
		PermViewOwnLogs,
	},
}

//nolint:gochecknoinits // founder holds the union of all permissions
func init() {
	rolePermissions[RoleFounder] = AllPermissions()
}

// AllPermissions returns every defined permission in declaration order.
func AllPermissions() []Permission {
	perms := make([]Permission, len(permissions))
	copy(perms, permissions[:])
	return perms
}

// PermissionsFor returns the permission set of role. An unmapped role
// yields an empty, non-nil slice.
func PermissionsFor(role Role) []Permission {
	mapped := rolePermissions[role]
	perms := make([]Permission, len(mapped))
	copy(perms, mapped)
	return perms
}

// ParsePermission maps a raw string to a defined Permission.
func ParsePermission(raw string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(raw)))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPermission, raw)
}

// Valid reports whether p is a defined permission.
func (p Permission) Valid() bool {
	for _, known := range permissions {
		if known == p {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}
