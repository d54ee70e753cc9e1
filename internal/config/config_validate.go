// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateUpstream,
		c.validateSession,
		c.validateIdentity,
		c.validateStorage,
		c.validateAuthz,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return requirePositive(map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.Server.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.Server.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":     c.Server.IdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.Server.ShutdownTimeout,
	})
}

func (c *Config) validateUpstream() error {
	if err := validateHTTPURL(c.Upstream.BaseURL, "UPSTREAM_URL"); err != nil {
		return err
	}
	if c.Upstream.RequestsPerSecond < 0 {
		return fmt.Errorf("UPSTREAM_RPS must not be negative")
	}
	if c.Upstream.RequestsPerSecond > 0 && c.Upstream.Burst < 1 {
		return fmt.Errorf("UPSTREAM_BURST must be at least 1 when UPSTREAM_RPS is set")
	}
	if c.Upstream.BreakerFailureRate <= 0 || c.Upstream.BreakerFailureRate > 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_FAILURE_RATE must be in (0, 1]")
	}
	return requirePositive(map[string]time.Duration{
		"UPSTREAM_TIMEOUT":          c.Upstream.Timeout,
		"UPSTREAM_BREAKER_INTERVAL": c.Upstream.BreakerInterval,
		"UPSTREAM_BREAKER_TIMEOUT":  c.Upstream.BreakerTimeout,
	})
}

func (c *Config) validateSession() error {
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if c.IsProduction() && !c.Session.CookieSecure {
		return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
	}
	return requirePositive(map[string]time.Duration{
		"SESSION_TTL":            c.Session.TTL,
		"SESSION_IDLE_TIMEOUT":   c.Session.IdleTimeout,
		"SESSION_SWEEP_INTERVAL": c.Session.SweepInterval,
	})
}

func (c *Config) validateIdentity() error {
	if c.Identity.SubscriberBuffer < 1 {
		return fmt.Errorf("IDENTITY_SUBSCRIBER_BUFFER must be at least 1")
	}
	return requirePositive(map[string]time.Duration{
		"IDENTITY_LOADING_TIMEOUT": c.Identity.LoadingTimeout,
	})
}

var validStorageBackends = map[string]bool{
	"badger": true,
	"memory": true,
}

// minEncryptionKeyLen matches the shortest key the token encryptor accepts.
const minEncryptionKeyLen = 16

func (c *Config) validateStorage() error {
	if !validStorageBackends[c.Storage.Backend] {
		return fmt.Errorf("CREDENTIAL_STORE must be one of: badger, memory")
	}
	if c.Storage.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Storage.EncryptionKey)
		if err != nil {
			return fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY must be base64: %w", err)
		}
		if len(key) < minEncryptionKeyLen {
			return fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY must decode to at least %d bytes", minEncryptionKeyLen)
		}
	}
	if c.IsProduction() && c.PersistsTokens() && c.Storage.EncryptionKey == "" {
		return fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY is required in production when credentials are stored on disk")
	}
	return nil
}

// PersistsTokens reports whether upstream tokens are written to disk.
func (c *Config) PersistsTokens() bool {
	return c.Storage.Backend == "badger" && c.Storage.Path != ""
}

func (c *Config) validateAuthz() error {
	if c.Authz.CacheEnabled && c.Authz.CacheTTL <= 0 {
		return fmt.Errorf("CASBIN_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production: " +
			"session cookies are sent with credentialed requests")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if err := validateRateLimit("RATE_LIMIT", c.Security.RateLimitReqs, c.Security.RateLimitWindow); err != nil {
		return err
	}
	return validateRateLimit("LOGIN_RATE_LIMIT", c.Security.LoginRateLimitReqs, c.Security.LoginRateLimitWindow)
}

func validateRateLimit(name string, reqs int, window time.Duration) error {
	if reqs < minRateLimitRequests || reqs > maxRateLimitRequests {
		return fmt.Errorf("%s requests must be between %d and %d", name, minRateLimitRequests, maxRateLimitRequests)
	}
	if window < minRateLimitWindow || window > maxRateLimitWindow {
		return fmt.Errorf("%s window must be between %v and %v", name, minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that rawURL is an absolute http or https URL
// without query or fragment. A path is allowed: the REST API lives under
// one.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("%s should not contain query parameters or a fragment", fieldName)
	}
	return nil
}

// requirePositive returns an error naming the first non-positive duration.
func requirePositive(durations map[string]time.Duration) error {
	for _, name := range sortedKeys(durations) {
		if durations[name] <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
