// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

/*
Package auth provides the session identity of the admin gateway.

Every browser session owns one Provider. A Provider is always in exactly
one of three states:

	Loading  resolution in flight; guards answer "wait", never "log in"
	Present  an identity and its resolved role are known
	Absent   no identity (Expired tells a rejected credential apart)

# Components

  - Client: the IdentitySource for the REST API (token-auth and
    accounts/me), paced by golang.org/x/time/rate and protected by a
    sony/gobreaker circuit breaker
  - CredentialStore: MemoryCredentialStore or BadgerCredentialStore
  - Provider: the per-session state machine
  - Manager: session id to Provider map with an idle sweeper
  - SessionMiddleware: cookie binding of requests to Providers

# Stale Results

Login, Logout, Expire, Resume and the loading timeout each start a new
generation. Network calls run without the provider lock; their results are
committed only if no newer generation started meanwhile, otherwise they are
discarded with ErrStaleResult. A logout issued while a login is in flight
therefore always wins.

# Usage

	client, err := auth.NewClient(auth.DefaultClientConfig())
	if err != nil {
	    return err
	}
	store := auth.NewMemoryCredentialStore(24 * time.Hour)
	manager := auth.NewManager(client, store, auth.DefaultManagerConfig())
	sessions := auth.NewSessionMiddleware(manager, nil)

	r.Use(sessions.Attach)
*/
package auth
