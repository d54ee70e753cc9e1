// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/oceans-admin/config.yaml",
	"/etc/oceans-admin/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Upstream: UpstreamConfig{
			BaseURL:            "http://127.0.0.1:8000/api",
			Timeout:            10 * time.Second,
			RequestsPerSecond:  20,
			Burst:              40,
			BreakerMaxRequests: 3,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     30 * time.Second,
			BreakerMinRequests: 10,
			BreakerFailureRate: 0.6,
			ProxyEnabled:       true,
		},
		Session: SessionConfig{
			CookieName:    "oceans_session",
			CookieSecure:  true,
			TTL:           7 * 24 * time.Hour,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Identity: IdentityConfig{
			LoadingTimeout:   10 * time.Second,
			SubscriberBuffer: 8,
		},
		Storage: StorageConfig{
			Backend:    "badger",
			Path:       "/data/credentials",
			SyncWrites: false,
		},
		Authz: AuthzConfig{
			ModelPath:    "",
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:          []string{"http://localhost:3000"},
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			RateLimitDisabled:    false,
			LoginRateLimitReqs:   10,
			LoginRateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults. The result is validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// UPSTREAM_URL -> upstream.base_url, SESSION_TTL -> session.ttl
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Upstream REST API mappings
	"upstream_url":                  "upstream.base_url",
	"upstream_timeout":              "upstream.timeout",
	"upstream_rps":                  "upstream.requests_per_second",
	"upstream_burst":                "upstream.burst",
	"upstream_breaker_max_requests": "upstream.breaker_max_requests",
	"upstream_breaker_interval":     "upstream.breaker_interval",
	"upstream_breaker_timeout":      "upstream.breaker_timeout",
	"upstream_breaker_min_requests": "upstream.breaker_min_requests",
	"upstream_breaker_failure_rate": "upstream.breaker_failure_rate",
	"upstream_proxy_enabled":        "upstream.proxy_enabled",

	// Session mappings
	"session_cookie_name":    "session.cookie_name",
	"session_cookie_domain":  "session.cookie_domain",
	"session_cookie_secure":  "session.cookie_secure",
	"session_ttl":            "session.ttl",
	"session_idle_timeout":   "session.idle_timeout",
	"session_sweep_interval": "session.sweep_interval",

	// Identity mappings
	"identity_loading_timeout":   "identity.loading_timeout",
	"identity_subscriber_buffer": "identity.subscriber_buffer",

	// Credential storage mappings
	"credential_store":             "storage.backend",
	"credential_store_path":        "storage.path",
	"credential_store_sync_writes": "storage.sync_writes",
	"credential_encryption_key":    "storage.encryption_key",

	// Casbin mappings
	"casbin_model_path":    "authz.model_path",
	"casbin_cache_enabled": "authz.cache_enabled",
	"casbin_cache_ttl":     "authz.cache_ttl",

	// Security mappings
	"cors_origins":            "security.cors_origins",
	"rate_limit_requests":     "security.rate_limit_reqs",
	"rate_limit_window":       "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"login_rate_limit":        "security.login_rate_limit_reqs",
	"login_rate_limit_window": "security.login_rate_limit_window",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - UPSTREAM_URL -> upstream.base_url
//   - SESSION_TTL -> session.ttl
//   - CREDENTIAL_STORE -> storage.backend
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables do not
	// pollute the config.
	return ""
}
