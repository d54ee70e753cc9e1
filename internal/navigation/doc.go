// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package navigation holds the dashboard's page table and sidebar menu and
// filters the menu down to what a role may see.
//
// Visibility uses the same rule as the route guard, so a visible link never
// leads to an access-denied redirect.
package navigation
