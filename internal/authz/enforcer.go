// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

// ErrIncompletePolicy is returned when the seeded policy violates a mapping
// invariant.
var ErrIncompletePolicy = errors.New("incomplete role policy")

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to a Casbin model file.
	// If empty, uses the embedded model.
	ModelPath string

	// CacheEnabled enables enforcement decision caching.
	CacheEnabled bool

	// CacheTTL is how long to cache decisions.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
	}
}

// Enforcer evaluates role/permission policies seeded from the registry.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *enforcementCache
}

// NewEnforcer creates an enforcer whose policy is the role to permission
// mapping of this package.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if config.ModelPath != "" && fileExists(config.ModelPath) {
		m, err = model.NewModelFromFile(config.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := seedPolicy(enforcer); err != nil {
		return nil, err
	}

	e := &Enforcer{
		config:   config,
		enforcer: enforcer,
	}
	if config.CacheEnabled {
		e.cache = newEnforcementCache(config.CacheTTL)
	}

	AuthzPolicyRulesTotal.Set(float64(e.PolicyCount()))
	return e, nil
}

// seedPolicy loads one "p, role, permission" rule per mapping entry and
// verifies that every role is present and that the founder holds every
// permission.
func seedPolicy(enforcer *casbin.SyncedEnforcer) error {
	for _, role := range AllRoles() {
		rules := make([][]string, 0, len(rolePermissions[role]))
		for _, perm := range PermissionsFor(role) {
			rules = append(rules, []string{string(role), string(perm)})
		}
		if len(rules) == 0 {
			continue
		}
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return fmt.Errorf("failed to add policies for %s: %w", role, err)
		}
	}

	founder, err := enforcer.GetFilteredPolicy(0, string(RoleFounder))
	if err != nil {
		return fmt.Errorf("failed to read founder policy: %w", err)
	}
	if len(founder) != len(permissions) {
		return fmt.Errorf("%w: founder holds %d of %d permissions", ErrIncompletePolicy, len(founder), len(permissions))
	}
	return nil
}

// Enforce reports whether role holds perm.
func (e *Enforcer) Enforce(role Role, perm Permission) (bool, error) {
	start := time.Now()

	if e.cache != nil {
		if allowed, ok := e.cache.get(role, perm); ok {
			RecordAuthzDecision(role, perm, allowed, time.Since(start), true)
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(string(role), string(perm))
	if err != nil {
		AuthzErrorsTotal.WithLabelValues("enforcer_error").Inc()
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	AuthzPolicyEvaluationsTotal.Inc()

	if e.cache != nil {
		e.cache.set(role, perm, allowed)
	}

	RecordAuthzDecision(role, perm, allowed, time.Since(start), false)
	return allowed, nil
}

// PermissionsOf returns the permissions the policy grants to role.
func (e *Enforcer) PermissionsOf(role Role) []Permission {
	//nolint:errcheck // GetFilteredPolicy only fails if enforcer is nil, which is a programming error
	rules, _ := e.enforcer.GetFilteredPolicy(0, string(role))
	perms := make([]Permission, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 1 {
			perms = append(perms, Permission(rule[1]))
		}
	}
	return perms
}

// PolicyCount returns the number of loaded policy rules.
func (e *Enforcer) PolicyCount() int {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	rules, _ := e.enforcer.GetPolicy()
	return len(rules)
}

// Close stops the decision cache.
func (e *Enforcer) Close() {
	if e.cache != nil {
		e.cache.stop()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
