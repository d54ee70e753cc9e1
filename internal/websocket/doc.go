// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

// Package websocket streams session identity changes to the dashboard.
//
// A browser opens GET /api/v1/auth/session/ws. The Hub upgrades the
// connection with gorilla/websocket and binds it to the request's session
// Provider. The client receives the current snapshot immediately and then
// every later one:
//
//	{"type":"session","data":{"state":"present","authenticated":true,"role":"courier",...}}
//
// A logout or an upstream 401 therefore reaches every open tab as an
// "absent" snapshot without polling. Clients may send {"type":"ping"} and
// receive {"type":"pong"}; protocol-level pings keep idle connections
// alive.
//
// # Flow control
//
// Each client has a bounded send queue. A client that stops reading is
// disconnected instead of receiving stale state later. Generations sent on
// a stream never decrease.
//
// # Lifecycle
//
// The Hub is a suture.Service: Serve blocks until its context ends and then
// closes every stream with a normal close frame. DisconnectSession closes
// the streams of one session, used when a session id is rotated at login.
// Streams also end when the session manager releases the Provider.
package websocket
