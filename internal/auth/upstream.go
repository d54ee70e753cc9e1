// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/oceans-admin/internal/logging"
)

// Upstream REST API paths, relative to the configured base URL.
const (
	tokenAuthPath = "/v1/token-auth/"
	profilePath   = "/accounts/me/"

	// maxUpstreamBody bounds the bytes read from an identity response.
	maxUpstreamBody = 1 << 20
)

// TokenGrant is the token-auth response. User is optional.
type TokenGrant struct {
	Token string   `json:"token"`
	User  *Profile `json:"user,omitempty"`
}

// IdentitySource authenticates users and resolves profiles against the
// identity upstream.
type IdentitySource interface {
	// Authenticate exchanges credentials for a token.
	// Returns ErrAuthentication if the upstream rejects them.
	Authenticate(ctx context.Context, username, password string) (*TokenGrant, error)

	// FetchProfile returns the profile owning token.
	// Returns ErrSessionExpired if the token is rejected.
	FetchProfile(ctx context.Context, token string) (*Profile, error)
}

// ClientConfig holds configuration for the identity upstream client.
type ClientConfig struct {
	// BaseURL is the REST API root, e.g. http://127.0.0.1:8000/api.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestsPerSecond and Burst pace calls to the upstream.
	RequestsPerSecond float64
	Burst             int

	// Circuit breaker tuning.
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailureRate float64
}

// DefaultClientConfig returns default configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:            "http://127.0.0.1:8000/api",
		Timeout:            10 * time.Second,
		RequestsPerSecond:  20,
		Burst:              40,
		BreakerMaxRequests: 3,
		BreakerInterval:    time.Minute,
		BreakerTimeout:     30 * time.Second,
		BreakerMinRequests: 10,
		BreakerFailureRate: 0.6,
	}
}

// Client is the HTTP IdentitySource. Calls are paced by a token bucket and
// protected by a circuit breaker; credential rejections never trip it.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	name    string
}

// NewClient creates a client for the upstream at cfg.BaseURL.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("upstream base url must be http or https, got %q", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	name := "identity-upstream"
	UpstreamBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRate
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening identity upstream circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			UpstreamBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			UpstreamBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// A rejected credential is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrAuthentication) || errors.Is(err, ErrSessionExpired)
		},
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		cb:      cb,
		name:    name,
	}, nil
}

// BaseURL returns a copy of the upstream root URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// Authenticate implements IdentitySource.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*TokenGrant, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	body, err := c.do(ctx, "authenticate", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(tokenAuthPath), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, func(status int) error {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return ErrAuthentication
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var grant TokenGrant
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", ErrUpstreamUnavailable, err)
	}
	if grant.Token == "" {
		return nil, fmt.Errorf("%w: token response without token", ErrAuthentication)
	}
	return &grant, nil
}

// FetchProfile implements IdentitySource.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	body, err := c.do(ctx, "profile", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(profilePath), http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token "+token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, func(status int) error {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return ErrSessionExpired
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrUpstreamUnavailable, err)
	}
	return &profile, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// do runs one paced, breaker-protected request. reject maps a non-2xx
// status to a domain error; nil means the status is an upstream failure.
func (c *Client) do(ctx context.Context, operation string, build func() (*http.Request, error), reject func(status int) error) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUpstreamUnavailable, err)
	}

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}
		if domainErr := reject(resp.StatusCode); domainErr != nil {
			return nil, domainErr
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamUnavailable, resp.StatusCode)
	})
	duration := time.Since(start)

	switch {
	case err == nil:
		RecordUpstreamRequest(operation, "success", duration)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		RecordUpstreamRequest(operation, "breaker_open", duration)
		logging.Warn().Err(err).Str("operation", operation).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	case errors.Is(err, ErrAuthentication) || errors.Is(err, ErrSessionExpired):
		RecordUpstreamRequest(operation, "rejected", duration)
	default:
		RecordUpstreamRequest(operation, "failure", duration)
	}
	return body, err
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
