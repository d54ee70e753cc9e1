// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package docs holds the OpenAPI document of the gateway API, served by
// Swagger UI at /swagger/. It follows the @Summary/@Router annotations of
// the internal/api handlers; regenerate with swag init -g cmd/server/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "Exchanges username and password for a session with the delivery REST API. Rotates the session cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {
                        "description": "Credentials and optional return path",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Too many login attempts", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Upstream unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "Signed out", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current session",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Maximum time to wait for a loading session, e.g. 2s",
                        "name": "wait",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Session state", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid wait duration", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/session/ws": {
            "get": {
                "description": "Websocket stream of session snapshots.",
                "tags": ["Auth"],
                "summary": "Session state stream",
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "401": {"description": "No session", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/authz/permissions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Authorization"],
                "summary": "Caller permissions",
                "responses": {
                    "200": {"description": "Role and permissions", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/authz/check": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Authorization"],
                "summary": "Check a requirement",
                "parameters": [
                    {"type": "string", "description": "Permission name", "name": "permission", "in": "query"},
                    {"type": "string", "description": "Minimum role", "name": "role", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Decision", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Unknown permission or role", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/navigation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Authorization"],
                "summary": "Sidebar entries",
                "responses": {
                    "200": {"description": "Visible navigation entries", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Runs the credential store and upstream checks. Returns 503 if any fails.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service is not ready", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "models.APIMeta": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "meta": {"$ref": "#/definitions/models.APIMeta"},
                "success": {"type": "boolean"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "next": {"type": "string"},
                "password": {"type": "string", "maxLength": 256},
                "username": {"type": "string", "maxLength": 150}
            }
        },
        "models.SessionView": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "display_name": {"type": "string"},
                "email": {"type": "string"},
                "expired": {"type": "boolean"},
                "generation": {"type": "integer"},
                "raw_role": {"type": "string"},
                "role": {"type": "string"},
                "role_display_name": {"type": "string"},
                "state": {"type": "string", "enum": ["loading", "present", "absent"]},
                "username": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Oceans Admin API",
	Description:      "Session, authorization and navigation API of the delivery-ops dashboard gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
