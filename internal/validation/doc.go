// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package validation validates request payloads with go-playground/validator.
//
// A single validator instance is shared by all handlers; it caches struct
// metadata and reports fields by their JSON names. Besides the built-in
// tags it understands:
//
//	returnpath  local absolute path, safe as a post-login redirect
//	role        role name or alias (fondateur, livreur, ...)
//	permission  defined permission name (view_all_orders, ...)
//
// Example:
//
//	type LoginRequest struct {
//	    Username string `json:"username" validate:"required,max=150"`
//	    Next     string `json:"next" validate:"omitempty,returnpath"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Values of password fields are never echoed back in error details.
package validation
