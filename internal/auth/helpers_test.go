// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSource is an in-memory IdentitySource. Gates, when set, block the
// matching call until the test releases them, which makes interleavings
// with Logout deterministic.
type fakeSource struct {
	mu        sync.Mutex
	passwords map[string]string
	profiles  map[string]*Profile // by token
	embed     bool                // include the user in the token response

	authErr    error
	profileErr error

	authEntered    chan struct{}
	authGate       chan struct{}
	profileEntered chan struct{}
	profileGate    chan struct{}

	authCalls    int
	profileCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		passwords: map[string]string{
			"alice":  "secret",
			"bob":    "livreur-pass",
			"claire": "fondatrice",
		},
		profiles: map[string]*Profile{
			"token-alice":  {ID: 1, Username: "alice", FirstName: "Alice", LastName: "Martin", Role: "manager"},
			"token-bob":    {ID: 2, Username: "bob", Role: "livreur"},
			"token-claire": {ID: 3, Username: "claire", IsSuperuser: true},
		},
	}
}

func (f *fakeSource) Authenticate(ctx context.Context, username, password string) (*TokenGrant, error) {
	f.mu.Lock()
	f.authCalls++
	entered, gate := f.authEntered, f.authGate
	authErr := f.authErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if authErr != nil {
		return nil, authErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if want, ok := f.passwords[username]; !ok || want != password {
		return nil, ErrAuthentication
	}
	grant := &TokenGrant{Token: "token-" + username}
	if f.embed {
		p := *f.profiles[grant.Token]
		grant.User = &p
	}
	return grant, nil
}

func (f *fakeSource) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	f.mu.Lock()
	f.profileCalls++
	entered, gate := f.profileEntered, f.profileGate
	profileErr := f.profileErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if profileErr != nil {
		return nil, profileErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[token]
	if !ok {
		return nil, ErrSessionExpired
	}
	cp := *p
	return &cp, nil
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func testProviderConfig() ProviderConfig {
	return ProviderConfig{
		LoadingTimeout:   5 * time.Second,
		SubscriberBuffer: 16,
	}
}

func setupProvider(t *testing.T, source IdentitySource, store CredentialStore) *Provider {
	t.Helper()
	p := NewProvider("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", source, store, testProviderConfig())
	t.Cleanup(p.Close)
	return p
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireState(t *testing.T, snap Snapshot, want State) {
	t.Helper()
	if snap.State != want {
		t.Fatalf("state = %s, want %s", snap.State, want)
	}
}

func requireNoCredential(t *testing.T, store CredentialStore, sessionID string) {
	t.Helper()
	if _, err := store.Load(context.Background(), sessionID); !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("Load() error = %v, want ErrCredentialNotFound", err)
	}
}
