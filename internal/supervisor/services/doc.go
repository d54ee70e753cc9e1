// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package services adapts process components to suture.Service.

HTTPServerService turns ListenAndServe/Shutdown into Serve(ctx): the
listener runs until ctx is canceled, then drains for the configured
timeout. A listener that fails to bind returns an error so the supervisor
restarts it with backoff.

UptimeService refreshes the app_uptime_seconds gauge on a ticker.

Components that already expose Serve(ctx) error and String() string, such
as auth.Manager and websocket.Hub, are added to the tree directly.
*/
package services
