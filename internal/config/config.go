// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Categories:
//
//  1. Transport: Server (listener, timeouts), Upstream (REST API, breaker)
//  2. Sessions: Session (cookie, idle release), Identity (loading timeout),
//     Storage (credential backend)
//  3. Access control: Authz (Casbin model, decision cache), Security (CORS,
//     rate limits)
//  4. Observability: Logging
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	srv := &http.Server{Addr: cfg.Server.Addr()}
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Session  SessionConfig  `koanf:"session"`
	Identity IdentityConfig `koanf:"identity"`
	Storage  StorageConfig  `koanf:"storage"`
	Authz    AuthzConfig    `koanf:"authz"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig holds the delivery REST API settings.
type UpstreamConfig struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api.
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRate float64       `koanf:"breaker_failure_rate"`

	// ProxyEnabled exposes the API under /upstream/ with the session token.
	ProxyEnabled bool `koanf:"proxy_enabled"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	CookieName   string `koanf:"cookie_name"`
	CookieDomain string `koanf:"cookie_domain"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// TTL is the cookie and stored credential lifetime.
	TTL time.Duration `koanf:"ttl"`

	// IdleTimeout releases an inactive session from memory; its credential
	// stays in the store.
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// IdentityConfig holds identity provider settings.
type IdentityConfig struct {
	// LoadingTimeout turns an unsettled identity into Absent.
	LoadingTimeout time.Duration `koanf:"loading_timeout"`

	// SubscriberBuffer is the channel capacity of each state subscription.
	SubscriberBuffer int `koanf:"subscriber_buffer"`
}

// StorageConfig selects the credential store.
type StorageConfig struct {
	// Backend is "badger" or "memory".
	Backend string `koanf:"backend"`

	// Path is the Badger directory. Empty runs Badger in memory.
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`

	// EncryptionKey is the base64 master key sealing upstream tokens in
	// Badger. Required in production when Badger writes to disk.
	EncryptionKey string `koanf:"encryption_key"`
}

// AuthzConfig holds permission enforcer settings.
type AuthzConfig struct {
	// ModelPath overrides the embedded Casbin model.
	ModelPath    string        `koanf:"model_path"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// Login attempts are limited separately per client IP.
	LoginRateLimitReqs   int           `koanf:"login_rate_limit_reqs"`
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}
