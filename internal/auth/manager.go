// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/oceans-admin/internal/logging"
)

// ManagerConfig holds configuration for the session manager.
type ManagerConfig struct {
	// Provider is applied to every provider the manager creates.
	Provider ProviderConfig

	// IdleTimeout releases a provider from memory after this much
	// inactivity. Its stored credential is kept.
	IdleTimeout time.Duration

	// SweepInterval is how often idle providers are released.
	SweepInterval time.Duration
}

// DefaultManagerConfig returns default configuration.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Provider:      DefaultProviderConfig(),
		IdleTimeout:   30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// expiringStore is implemented by stores that need explicit cleanup.
type expiringStore interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// Manager maps browser sessions to Providers. A stored session seen for
// the first time, for instance after a restart, gets a provider that
// resumes its credential.
type Manager struct {
	source IdentitySource
	store  CredentialStore
	config ManagerConfig
	// base outlives requests; resumptions must not die with the request
	// that triggered them.
	base context.Context

	mu        sync.RWMutex
	providers map[string]*Provider
}

// NewManager creates a session manager.
func NewManager(source IdentitySource, store CredentialStore, config ManagerConfig) *Manager {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultManagerConfig().IdleTimeout
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultManagerConfig().SweepInterval
	}
	return &Manager{
		source:    source,
		store:     store,
		config:    config,
		base:      context.Background(),
		providers: make(map[string]*Provider),
	}
}

// Open returns the provider of sessionID. A session not in memory is
// resumed only if the store holds a credential for it; otherwise ok is
// false and the request has no session, so unknown cookies allocate
// nothing.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Provider, bool) {
	if p, ok := m.Get(sessionID); ok {
		p.Touch()
		return p, true
	}

	if _, err := m.store.Load(ctx, sessionID); err != nil {
		if !errors.Is(err, ErrCredentialNotFound) {
			logging.Warn().Err(err).Str("session", logging.SanitizeSessionID(sessionID)).Msg("Credential lookup failed")
		}
		UnknownSessionsTotal.Inc()
		return nil, false
	}

	m.mu.Lock()
	if p, ok := m.providers[sessionID]; ok {
		m.mu.Unlock()
		p.Touch()
		return p, true
	}
	p := NewProvider(sessionID, m.source, m.store, m.config.Provider)
	m.providers[sessionID] = p
	ActiveSessions.Set(float64(len(m.providers)))
	m.mu.Unlock()

	p.Init(m.base)
	return p, true
}

// Create starts a new session with no identity.
func (m *Manager) Create(ctx context.Context) (*Provider, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	p := NewProvider(sessionID, m.source, m.store, m.config.Provider)
	// A fresh id has no credential: this settles to Absent without an
	// upstream call.
	if _, err := p.Resume(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("initialize session: %w", err)
	}

	m.mu.Lock()
	m.providers[sessionID] = p
	ActiveSessions.Set(float64(len(m.providers)))
	m.mu.Unlock()

	logging.Debug().Str("session", logging.SanitizeSessionID(sessionID)).Msg("Session created")
	return p, nil
}

// Get returns the in-memory provider of sessionID.
func (m *Manager) Get(sessionID string) (*Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[sessionID]
	return p, ok
}

// Remove releases a provider from memory.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	p, ok := m.providers[sessionID]
	delete(m.providers, sessionID)
	ActiveSessions.Set(float64(len(m.providers)))
	m.mu.Unlock()

	if ok {
		p.Close()
	}
}

// Len returns the number of providers in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// Sweep releases providers idle since before now minus the idle timeout.
// Providers with open subscriptions are kept.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.config.IdleTimeout)

	m.mu.Lock()
	var idle []*Provider
	for id, p := range m.providers {
		if p.LastActive().Before(cutoff) && p.SubscriberCount() == 0 {
			idle = append(idle, p)
			delete(m.providers, id)
		}
	}
	ActiveSessions.Set(float64(len(m.providers)))
	m.mu.Unlock()

	for _, p := range idle {
		p.Close()
	}
	if len(idle) > 0 {
		SessionsSweptTotal.Add(float64(len(idle)))
		logging.Debug().Int("released", len(idle)).Msg("Idle sessions released")
	}
	return len(idle)
}

// Serve implements suture.Service: it sweeps idle providers until ctx is
// done, then releases every provider.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return ctx.Err()
		case now := <-ticker.C:
			m.Sweep(now)
			if es, ok := m.store.(expiringStore); ok {
				if n, err := es.CleanupExpired(ctx); err != nil {
					logging.Warn().Err(err).Msg("Credential cleanup failed")
				} else if n > 0 {
					logging.Debug().Int("removed", n).Msg("Expired credentials removed")
				}
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (m *Manager) String() string {
	return "session-manager"
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	providers := m.providers
	m.providers = make(map[string]*Provider)
	ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, p := range providers {
		p.Close()
	}
}

// generateSessionID generates a cryptographically secure session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
