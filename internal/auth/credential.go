// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"sync"
	"time"
)

// Credential is the persisted login of one browser session: the upstream
// token and the last identity resolved with it.
type Credential struct {
	Token    string    `json:"token"`
	Identity Identity  `json:"identity"`
	StoredAt time.Time `json:"stored_at"`
}

// CredentialStore persists credentials by session id. Only a Provider
// writes to it.
type CredentialStore interface {
	// Load returns the credential of a session.
	// Returns ErrCredentialNotFound if none is stored or it has expired.
	Load(ctx context.Context, sessionID string) (*Credential, error)

	// Save stores or replaces the credential of a session.
	Save(ctx context.Context, sessionID string, cred *Credential) error

	// Delete removes the credential of a session.
	// Does not return error if none is stored.
	Delete(ctx context.Context, sessionID string) error
}

// MemoryCredentialStore is an in-memory CredentialStore. Entries expire
// after ttl; a zero ttl keeps them until deleted.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	items map[string]memoryCredential
	ttl   time.Duration
}

type memoryCredential struct {
	cred      Credential
	expiresAt time.Time
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore(ttl time.Duration) *MemoryCredentialStore {
	return &MemoryCredentialStore{
		items: make(map[string]memoryCredential),
		ttl:   ttl,
	}
}

// Load implements CredentialStore.
func (s *MemoryCredentialStore) Load(_ context.Context, sessionID string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[sessionID]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		return nil, ErrCredentialNotFound
	}

	cred := item.cred
	return &cred, nil
}

// Save implements CredentialStore.
func (s *MemoryCredentialStore) Save(_ context.Context, sessionID string, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := memoryCredential{cred: *cred}
	if s.ttl > 0 {
		item.expiresAt = time.Now().Add(s.ttl)
	}
	s.items[sessionID] = item
	return nil
}

// Delete implements CredentialStore.
func (s *MemoryCredentialStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// CleanupExpired removes expired credentials and returns how many were
// removed.
func (s *MemoryCredentialStore) CleanupExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, item := range s.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored credentials, expired ones included.
func (s *MemoryCredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
