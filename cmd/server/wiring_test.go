// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/config"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			CookieName:    "oceans_session",
			CookieDomain:  "admin.example.com",
			CookieSecure:  true,
			TTL:           time.Hour,
			IdleTimeout:   10 * time.Minute,
			SweepInterval: 30 * time.Second,
		},
		Identity: config.IdentityConfig{
			LoadingTimeout:   5 * time.Second,
			SubscriberBuffer: 4,
		},
		Storage: config.StorageConfig{Backend: backend},
		Security: config.SecurityConfig{
			CORSOrigins:          []string{"https://admin.example.com"},
			RateLimitReqs:        50,
			RateLimitWindow:      time.Minute,
			LoginRateLimitReqs:   5,
			LoginRateLimitWindow: 2 * time.Minute,
		},
	}
}

func TestOpenCredentialStore(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"memory", false},
		{"badger", false}, // empty path opens Badger in memory
		{"redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, closer, err := openCredentialStore(testConfig(tt.backend))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("openCredentialStore() error = %v", err)
			}
			t.Cleanup(func() {
				if err := closer.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			})

			ctx := context.Background()
			cred := &auth.Credential{Token: "tok", StoredAt: time.Now()}
			if err := store.Save(ctx, "s1", cred); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := store.Load(ctx, "s1")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Token != "tok" {
				t.Errorf("Load().Token = %q, want tok", got.Token)
			}
		})
	}
}

func TestOpenCredentialStore_Encryption(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		wantEncrypted bool
		wantErr       bool
	}{
		{"no key", "", false, false},
		{"valid key", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", true, false},
		{"short key", "c2hvcnQ=", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("badger")
			cfg.Storage.EncryptionKey = tt.key

			store, closer, err := openCredentialStore(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for invalid key")
				}
				return
			}
			if err != nil {
				t.Fatalf("openCredentialStore() error = %v", err)
			}
			t.Cleanup(func() { _ = closer.Close() })

			badgerStore, ok := store.(*auth.BadgerCredentialStore)
			if !ok {
				t.Fatalf("store = %T, want *auth.BadgerCredentialStore", store)
			}
			if badgerStore.EncryptsTokens() != tt.wantEncrypted {
				t.Errorf("EncryptsTokens() = %v, want %v", badgerStore.EncryptsTokens(), tt.wantEncrypted)
			}
		})
	}
}

func TestConfigConversions(t *testing.T) {
	cfg := testConfig("memory")

	mgr := managerConfig(cfg)
	if mgr.Provider.LoadingTimeout != 5*time.Second || mgr.Provider.SubscriberBuffer != 4 {
		t.Errorf("managerConfig().Provider = %+v", mgr.Provider)
	}
	if mgr.IdleTimeout != 10*time.Minute || mgr.SweepInterval != 30*time.Second {
		t.Errorf("managerConfig() = %+v", mgr)
	}

	sess := sessionMiddlewareConfig(cfg)
	if sess.CookieDomain != "admin.example.com" || !sess.CookieSecure || sess.SessionTTL != time.Hour {
		t.Errorf("sessionMiddlewareConfig() = %+v", sess)
	}
	if sess.CookiePath != "/" {
		t.Errorf("CookiePath = %q, want default /", sess.CookiePath)
	}

	chiCfg := chiMiddlewareConfig(cfg)
	if chiCfg.RateLimitRequests != 50 || chiCfg.LoginRateLimitRequests != 5 {
		t.Errorf("rate limits = %d/%d, want 50/5", chiCfg.RateLimitRequests, chiCfg.LoginRateLimitRequests)
	}
	if len(chiCfg.CORSAllowedOrigins) != 1 || chiCfg.CORSAllowedOrigins[0] != "https://admin.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", chiCfg.CORSAllowedOrigins)
	}
	if !chiCfg.CORSAllowCredentials {
		t.Error("CORS must allow credentials for the session cookie")
	}
}

type fakeBreaker struct{ state gobreaker.State }

func (f fakeBreaker) BreakerState() gobreaker.State { return f.state }

type failingStore struct{ auth.CredentialStore }

func (failingStore) Load(context.Context, string) (*auth.Credential, error) {
	return nil, errors.New("disk on fire")
}

func TestReadinessChecks(t *testing.T) {
	ctx := context.Background()
	healthy := auth.NewMemoryCredentialStore(time.Hour)

	tests := []struct {
		name      string
		store     auth.CredentialStore
		breaker   gobreaker.State
		wantStore bool
		wantUp    bool
	}{
		{"all healthy", healthy, gobreaker.StateClosed, true, true},
		{"half open counts as ready", healthy, gobreaker.StateHalfOpen, true, true},
		{"breaker open", healthy, gobreaker.StateOpen, true, false},
		{"store failing", failingStore{}, gobreaker.StateClosed, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := readinessChecks(tt.store, fakeBreaker{tt.breaker})
			if err := checks["credential_store"](ctx); (err == nil) != tt.wantStore {
				t.Errorf("credential_store check = %v, want ok=%v", err, tt.wantStore)
			}
			if err := checks["upstream"](ctx); (err == nil) != tt.wantUp {
				t.Errorf("upstream check = %v, want ok=%v", err, tt.wantUp)
			}
		})
	}
}
