// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/oceans-admin/internal/api"
	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/config"
	"github.com/tomtom215/oceans-admin/internal/logging"
)

// readinessProbeSession never holds a credential; loading it only proves
// the store answers.
const readinessProbeSession = "readiness-probe"

// nopCloser is returned for stores without resources to release.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openCredentialStore builds the configured store. The returned closer
// releases the underlying database.
func openCredentialStore(cfg *config.Config) (auth.CredentialStore, io.Closer, error) {
	switch cfg.Storage.Backend {
	case "memory":
		logging.Info().Msg("Using in-memory credential store; sessions do not survive restarts")
		return auth.NewMemoryCredentialStore(cfg.Session.TTL), nopCloser{}, nil
	case "badger", "":
		tokens, err := auth.NewTokenEncryptor(&auth.TokenEncryptorConfig{MasterKey: cfg.Storage.EncryptionKey})
		if err != nil {
			return nil, nil, fmt.Errorf("credential encryption: %w", err)
		}
		db, err := auth.OpenBadgerDB(cfg.Storage.Path, cfg.Storage.SyncWrites)
		if err != nil {
			return nil, nil, err
		}
		store := auth.NewBadgerCredentialStore(db, cfg.Session.TTL).WithTokenEncryptor(tokens)
		if cfg.PersistsTokens() && !store.EncryptsTokens() {
			logging.Warn().Msg("Upstream tokens are stored unencrypted; set CREDENTIAL_ENCRYPTION_KEY")
		}
		logging.Info().
			Str("path", cfg.Storage.Path).
			Bool("sync_writes", cfg.Storage.SyncWrites).
			Bool("encrypted", store.EncryptsTokens()).
			Msg("BadgerDB credential store opened")
		return store, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential store backend %q", cfg.Storage.Backend)
	}
}

func clientConfig(cfg *config.Config) *auth.ClientConfig {
	return &auth.ClientConfig{
		BaseURL:            cfg.Upstream.BaseURL,
		Timeout:            cfg.Upstream.Timeout,
		RequestsPerSecond:  cfg.Upstream.RequestsPerSecond,
		Burst:              cfg.Upstream.Burst,
		BreakerMaxRequests: cfg.Upstream.BreakerMaxRequests,
		BreakerInterval:    cfg.Upstream.BreakerInterval,
		BreakerTimeout:     cfg.Upstream.BreakerTimeout,
		BreakerMinRequests: cfg.Upstream.BreakerMinRequests,
		BreakerFailureRate: cfg.Upstream.BreakerFailureRate,
	}
}

func enforcerConfig(cfg *config.Config) *authz.EnforcerConfig {
	return &authz.EnforcerConfig{
		ModelPath:    cfg.Authz.ModelPath,
		CacheEnabled: cfg.Authz.CacheEnabled,
		CacheTTL:     cfg.Authz.CacheTTL,
	}
}

func managerConfig(cfg *config.Config) auth.ManagerConfig {
	return auth.ManagerConfig{
		Provider: auth.ProviderConfig{
			LoadingTimeout:   cfg.Identity.LoadingTimeout,
			SubscriberBuffer: cfg.Identity.SubscriberBuffer,
		},
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	}
}

func sessionMiddlewareConfig(cfg *config.Config) *auth.SessionMiddlewareConfig {
	mwCfg := auth.DefaultSessionMiddlewareConfig()
	mwCfg.CookieName = cfg.Session.CookieName
	mwCfg.CookieDomain = cfg.Session.CookieDomain
	mwCfg.CookieSecure = cfg.Session.CookieSecure
	mwCfg.SessionTTL = cfg.Session.TTL
	return mwCfg
}

func chiMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwCfg.LoginRateLimitRequests = cfg.Security.LoginRateLimitReqs
	mwCfg.LoginRateLimitWindow = cfg.Security.LoginRateLimitWindow
	return mwCfg
}

// breakerStater is satisfied by *auth.Client.
type breakerStater interface {
	BreakerState() gobreaker.State
}

// readinessChecks reports the credential store and the upstream breaker.
func readinessChecks(store auth.CredentialStore, upstream breakerStater) map[string]api.ReadinessCheck {
	return map[string]api.ReadinessCheck{
		"credential_store": func(ctx context.Context) error {
			_, err := store.Load(ctx, readinessProbeSession)
			if err == nil || errors.Is(err, auth.ErrCredentialNotFound) {
				return nil
			}
			return err
		},
		"upstream": func(context.Context) error {
			if upstream.BreakerState() == gobreaker.StateOpen {
				return errors.New("circuit breaker open")
			}
			return nil
		},
	}
}
