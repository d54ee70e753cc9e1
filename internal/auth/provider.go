// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/logging"
)

// State is the lifecycle state of a session identity.
type State int

const (
	// StateLoading means resolution is in flight. No decision may treat it
	// as absent.
	StateLoading State = iota
	// StatePresent means an identity is known.
	StatePresent
	// StateAbsent means no identity is known.
	StateAbsent
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePresent:
		return "present"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is an immutable view of a Provider at one generation.
type Snapshot struct {
	State      State      `json:"state"`
	Identity   *Identity  `json:"identity,omitempty"`
	Role       authz.Role `json:"role,omitempty"`
	Expired    bool       `json:"expired"`
	Generation uint64     `json:"generation"`
}

// ResolvedRole implements authz.RoleSource. The role resolves only while
// an identity is present.
func (s Snapshot) ResolvedRole() (authz.Role, bool) {
	if s.State != StatePresent || s.Identity == nil {
		return "", false
	}
	return s.Role, s.Role.Valid()
}

// ProviderConfig holds configuration for a Provider.
type ProviderConfig struct {
	// LoadingTimeout turns a Loading state older than this into Absent.
	LoadingTimeout time.Duration

	// SubscriberBuffer is the channel capacity of each subscription.
	SubscriberBuffer int
}

// credentialDeleteTimeout bounds the store call of the loading timeout,
// which has no request context.
const credentialDeleteTimeout = 2 * time.Second

// DefaultProviderConfig returns default configuration.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		LoadingTimeout:   10 * time.Second,
		SubscriberBuffer: 8,
	}
}

// Provider owns the identity of one browser session. Every mutation bumps
// a generation counter; an asynchronous result is applied only while its
// generation is still current, so a late login or resume can never
// overwrite a newer logout.
type Provider struct {
	sessionID string
	source    IdentitySource
	store     CredentialStore
	config    ProviderConfig

	mu       sync.RWMutex
	state    State
	identity Identity
	role     authz.Role
	token    string
	expired  bool
	gen      uint64
	timer    *time.Timer
	settled  chan struct{}
	subs     map[int]chan Snapshot
	nextSub  int
	closed   bool

	lastActive atomic.Int64
}

// NewProvider creates a provider in the Loading state. Call Init or Resume
// to resolve it; otherwise the loading timeout moves it to Absent.
func NewProvider(sessionID string, source IdentitySource, store CredentialStore, config ProviderConfig) *Provider {
	if config.LoadingTimeout <= 0 {
		config.LoadingTimeout = DefaultProviderConfig().LoadingTimeout
	}
	if config.SubscriberBuffer <= 0 {
		config.SubscriberBuffer = DefaultProviderConfig().SubscriberBuffer
	}

	p := &Provider{
		sessionID: sessionID,
		source:    source,
		store:     store,
		config:    config,
		state:     StateLoading,
		settled:   make(chan struct{}),
		subs:      make(map[int]chan Snapshot),
	}
	p.Touch()

	p.mu.Lock()
	p.armLoadingTimerLocked()
	p.mu.Unlock()
	return p
}

// SessionID returns the browser session this provider belongs to.
func (p *Provider) SessionID() string {
	return p.sessionID
}

// Current returns the current snapshot.
func (p *Provider) Current() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// ResolvedRole implements authz.RoleSource.
func (p *Provider) ResolvedRole() (authz.Role, bool) {
	return p.Current().ResolvedRole()
}

// Token returns the upstream token while an identity is present.
func (p *Provider) Token() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StatePresent || p.token == "" {
		return "", false
	}
	return p.token, true
}

// Touch records activity for the idle sweeper.
func (p *Provider) Touch() {
	p.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last recorded activity.
func (p *Provider) LastActive() time.Time {
	return time.Unix(0, p.lastActive.Load())
}

// Init resumes a stored credential in the background, bounded by the
// loading timeout. The provider stays Loading until the resumption settles.
func (p *Provider) Init(ctx context.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, p.config.LoadingTimeout)
		defer cancel()
		if _, err := p.Resume(ctx); err != nil && !errors.Is(err, ErrStaleResult) && !errors.Is(err, ErrSessionExpired) {
			logging.Warn().Err(err).Str("session", logging.SanitizeSessionID(p.sessionID)).Msg("Session resume failed")
		}
	}()
}

// Resume resolves the stored credential of the session. A missing
// credential yields Absent. A rejected token yields Absent with Expired set
// and the credential removed. When the upstream is unreachable the identity
// stored with the credential is used.
func (p *Provider) Resume(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	gen := p.bumpLocked()
	prev := p.state
	p.enterLoadingLocked()
	if prev != StateLoading {
		p.publishLocked(p.snapshotLocked())
	}
	p.mu.Unlock()
	RecordTransition(prev, StateLoading, "resume")

	cred, err := p.store.Load(ctx, p.sessionID)
	if errors.Is(err, ErrCredentialNotFound) {
		return p.commitAbsent(ctx, gen, false, "resume")
	}
	if err != nil {
		snap, _ := p.commitAbsent(ctx, gen, true, "resume")
		return snap, fmt.Errorf("load credential: %w", err)
	}

	identity := cred.Identity
	profile, err := p.source.FetchProfile(ctx, cred.Token)
	switch {
	case err == nil:
		identity = IdentityFromProfile(profile)
	case errors.Is(err, ErrSessionExpired):
		snap, commitErr := p.commitAbsent(ctx, gen, true, "resume")
		if commitErr != nil {
			return snap, commitErr
		}
		return snap, ErrSessionExpired
	default:
		if identity.Username == "" {
			snap, commitErr := p.commitAbsent(ctx, gen, true, "resume")
			if commitErr != nil {
				return snap, commitErr
			}
			return snap, fmt.Errorf("%w: no usable stored identity: %v", ErrSessionExpired, err)
		}
		ProfileFallbacksTotal.WithLabelValues("stored").Inc()
		logging.Warn().Err(err).Str("session", logging.SanitizeSessionID(p.sessionID)).Msg("Profile unavailable, resuming stored identity")
	}

	return p.commitPresent(ctx, gen, cred.Token, identity, "resume")
}

// Login authenticates against the upstream and stores the credential. The
// full profile is fetched best-effort; on failure the user embedded in the
// token response, or a minimal identity, is used.
//
// The visible state is left alone while the round trip is in flight: an
// Absent session stays Absent and a Present one keeps its identity until
// the result commits. Guards therefore never answer 503 for a login; the
// caller waits on Login itself. The generation is still bumped, so a
// concurrent Logout supersedes the login.
func (p *Provider) Login(ctx context.Context, username, password string) (Snapshot, error) {
	p.mu.Lock()
	gen := p.bumpLocked()
	if p.state == StateLoading {
		p.armLoadingTimerLocked()
	}
	p.mu.Unlock()

	grant, err := p.source.Authenticate(ctx, username, password)
	if err != nil {
		p.mu.Lock()
		if p.gen == gen && p.state == StateLoading {
			p.mu.Unlock()
			snap, _ := p.commitAbsent(ctx, gen, false, "login")
			return p.loginFailed(snap, err)
		}
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return p.loginFailed(snap, err)
	}

	if !p.isCurrent(gen) {
		LoginAttemptsTotal.WithLabelValues("stale").Inc()
		StaleResultsTotal.WithLabelValues("login").Inc()
		return p.Current(), ErrStaleResult
	}

	identity := minimalIdentity(username)
	fallback := "minimal"
	if grant.User != nil {
		identity = IdentityFromProfile(grant.User)
		fallback = "login_response"
	}

	profile, err := p.source.FetchProfile(ctx, grant.Token)
	if err != nil {
		ProfileFallbacksTotal.WithLabelValues(fallback).Inc()
		logging.Warn().Err(err).Str("username", logging.SanitizeUsername(username)).Msg("Profile unavailable after login, using basic identity")
	} else {
		identity = IdentityFromProfile(profile)
	}

	snap, err := p.commitPresent(ctx, gen, grant.Token, identity, "login")
	if err != nil {
		if errors.Is(err, ErrStaleResult) {
			LoginAttemptsTotal.WithLabelValues("stale").Inc()
		} else {
			LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return snap, err
	}

	LoginAttemptsTotal.WithLabelValues("success").Inc()
	return snap, nil
}

func (p *Provider) loginFailed(snap Snapshot, err error) (Snapshot, error) {
	if errors.Is(err, ErrAuthentication) {
		LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	} else {
		LoginAttemptsTotal.WithLabelValues("error").Inc()
	}
	return snap, err
}

// Logout clears the credential and moves to Absent. It is idempotent and
// supersedes any login or resume still in flight.
func (p *Provider) Logout(ctx context.Context) error {
	return p.clear(ctx, false, "logout")
}

// Expire is Logout for a credential the upstream rejected: the resulting
// snapshot has Expired set.
func (p *Provider) Expire(ctx context.Context) error {
	return p.clear(ctx, true, "expire")
}

func (p *Provider) clear(ctx context.Context, expired bool, cause string) error {
	p.mu.Lock()
	p.bumpLocked()
	prev := p.state
	err := p.store.Delete(ctx, p.sessionID)
	if p.setAbsentLocked(expired) {
		p.publishLocked(p.snapshotLocked())
	}
	p.mu.Unlock()

	RecordTransition(prev, StateAbsent, cause)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Wait blocks until the provider leaves Loading or ctx is done.
func (p *Provider) Wait(ctx context.Context) (Snapshot, error) {
	for {
		p.mu.RLock()
		if p.state != StateLoading {
			snap := p.snapshotLocked()
			p.mu.RUnlock()
			return snap, nil
		}
		settled := p.settled
		p.mu.RUnlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return p.Current(), ctx.Err()
		}
	}
}

// Subscribe returns a channel receiving every new snapshot, and a function
// that cancels the subscription. A subscriber that falls behind misses
// snapshots; it never blocks the provider.
func (p *Provider) Subscribe() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot, p.config.SubscriberBuffer)
	if p.closed {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(sub)
			}
		})
	}
}

// SubscriberCount returns the number of open subscriptions.
func (p *Provider) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Close releases the provider from memory: the loading timer is stopped and
// subscriptions are closed. The stored credential is kept.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}

func (p *Provider) commitPresent(ctx context.Context, gen uint64, token string, identity Identity, cause string) (Snapshot, error) {
	p.mu.Lock()
	if p.gen != gen {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		StaleResultsTotal.WithLabelValues(cause).Inc()
		return snap, ErrStaleResult
	}

	cred := &Credential{Token: token, Identity: identity, StoredAt: time.Now().UTC()}
	if err := p.store.Save(ctx, p.sessionID, cred); err != nil {
		p.mu.Unlock()
		snap, _ := p.commitAbsent(ctx, gen, false, cause)
		return snap, fmt.Errorf("save credential: %w", err)
	}

	prev := p.state
	p.state = StatePresent
	p.identity = identity
	p.role = identity.ResolveRole()
	p.token = token
	p.expired = false
	p.leaveLoadingLocked()
	snap := p.snapshotLocked()
	p.publishLocked(snap)
	p.mu.Unlock()

	RecordTransition(prev, StatePresent, cause)
	logging.Info().
		Str("session", logging.SanitizeSessionID(p.sessionID)).
		Str("username", logging.SanitizeUsername(identity.Username)).
		Str("role", string(snap.Role)).
		Str("cause", cause).
		Msg("Identity present")
	return snap, nil
}

func (p *Provider) commitAbsent(ctx context.Context, gen uint64, expired bool, cause string) (Snapshot, error) {
	p.mu.Lock()
	if p.gen != gen {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		StaleResultsTotal.WithLabelValues(cause).Inc()
		return snap, ErrStaleResult
	}

	var err error
	if expired {
		err = p.store.Delete(ctx, p.sessionID)
	}
	prev := p.state
	changed := p.setAbsentLocked(expired)
	snap := p.snapshotLocked()
	if changed {
		p.publishLocked(snap)
	}
	p.mu.Unlock()

	RecordTransition(prev, StateAbsent, cause)
	if err != nil {
		return snap, fmt.Errorf("delete credential: %w", err)
	}
	return snap, nil
}

func (p *Provider) onLoadingTimeout(gen uint64) {
	p.mu.Lock()
	if p.gen != gen || p.state != StateLoading || p.closed {
		p.mu.Unlock()
		return
	}
	p.bumpLocked()
	// Expired must hold after a restart too, so the credential goes with it.
	ctx, cancel := context.WithTimeout(context.Background(), credentialDeleteTimeout)
	err := p.store.Delete(ctx, p.sessionID)
	cancel()
	p.setAbsentLocked(true)
	p.publishLocked(p.snapshotLocked())
	p.mu.Unlock()

	RecordTransition(StateLoading, StateAbsent, "timeout")
	logging.Warn().
		Str("session", logging.SanitizeSessionID(p.sessionID)).
		Dur("timeout", p.config.LoadingTimeout).
		Msg("Identity resolution timed out")
	if err != nil {
		logging.Error().Err(err).Str("session", logging.SanitizeSessionID(p.sessionID)).Msg("Failed to delete credential of timed out session")
	}
}

func (p *Provider) isCurrent(gen uint64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen == gen
}

// bumpLocked starts a new generation and returns it. Callers hold mu.
func (p *Provider) bumpLocked() uint64 {
	p.gen++
	return p.gen
}

func (p *Provider) enterLoadingLocked() {
	if p.state != StateLoading {
		p.settled = make(chan struct{})
	}
	p.state = StateLoading
	p.expired = false
	p.armLoadingTimerLocked()
}

func (p *Provider) armLoadingTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
	}
	gen := p.gen
	p.timer = time.AfterFunc(p.config.LoadingTimeout, func() {
		p.onLoadingTimeout(gen)
	})
}

func (p *Provider) leaveLoadingLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	select {
	case <-p.settled:
	default:
		close(p.settled)
	}
}

// setAbsentLocked reports whether the visible state changed.
func (p *Provider) setAbsentLocked(expired bool) bool {
	changed := p.state != StateAbsent || p.expired != expired
	p.state = StateAbsent
	p.identity = Identity{}
	p.role = ""
	p.token = ""
	p.expired = expired
	p.leaveLoadingLocked()
	return changed
}

func (p *Provider) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      p.state,
		Expired:    p.expired,
		Generation: p.gen,
	}
	if p.state == StatePresent {
		identity := p.identity
		snap.Identity = &identity
		snap.Role = p.role
	}
	return snap
}

// publishLocked fans snap out to subscribers. Callers hold mu for writing,
// so subscribers observe snapshots in generation order.
func (p *Provider) publishLocked(snap Snapshot) {
	for _, ch := range p.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
