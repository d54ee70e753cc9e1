// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package supervisor runs the gateway's long-lived services under suture v4.

# Tree

	oceans-admin
	├── session-layer
	│   ├── session-manager   (auth.Manager: idle sweep, credential cleanup)
	│   ├── websocket-hub     (websocket.Hub)
	│   └── uptime-reporter   (services.UptimeService)
	└── api-layer
	    └── http-server       (services.HTTPServerService)

Each layer counts failures on its own. A crashing hub is restarted inside
the session layer while the HTTP server keeps serving.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddSessionService(manager)
	tree.AddSessionService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

Supervisor events (start, failure, backoff, stop timeout) are logged
through sutureslog, which writes to the zerolog logger via
logging.SlogHandler.

# Shutdown

Cancelling the context stops every service. Services that do not return
within TreeConfig.ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
