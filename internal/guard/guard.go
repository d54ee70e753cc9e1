// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package guard

import (
	"net/url"
	"strings"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/logging"
)

// Kind is the outcome of a guard decision.
type Kind int

const (
	// Allow renders the protected content.
	Allow Kind = iota
	// Loading renders a placeholder; the identity is not settled yet.
	Loading
	// RedirectLogin sends the user to the login page with a return path.
	RedirectLogin
	// RedirectDenied sends the user to the access-denied page.
	RedirectDenied
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDenied:
		return "redirect_denied"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating one request against a requirement.
type Decision struct {
	Kind Kind

	// ReturnTo is the sanitized path to come back to after login.
	// Only set for RedirectLogin.
	ReturnTo string

	// Role is the resolved role for Allow and RedirectDenied.
	Role authz.Role

	// Expired is set for RedirectLogin caused by an expired credential.
	Expired bool
}

// Config holds the guard's page locations.
type Config struct {
	// LoginPath is the public login page.
	LoginPath string

	// DeniedPath is the public access-denied page.
	DeniedPath string

	// CourierHome is where couriers land instead of the dashboard home.
	CourierHome string
}

// DefaultConfig returns the dashboard's page locations.
func DefaultConfig() *Config {
	return &Config{
		LoginPath:   "/login",
		DeniedPath:  "/acces-refuse",
		CourierHome: "/mes-livraisons",
	}
}

// Guard decides whether a request may render a protected page.
type Guard struct {
	evaluator *authz.Evaluator
	config    *Config
	security  *logging.SecurityLogger
}

// New creates a guard.
func New(evaluator *authz.Evaluator, config *Config) *Guard {
	if config == nil {
		config = DefaultConfig()
	}
	return &Guard{
		evaluator: evaluator,
		config:    config,
		security:  logging.NewSecurityLogger(),
	}
}

// Config returns the guard's page locations.
func (g *Guard) Config() Config {
	return *g.config
}

// Decide evaluates snap against req for a request to target. Checks run in
// order: loading, unauthenticated, forbidden. Decide never blocks.
func (g *Guard) Decide(snap auth.Snapshot, target string, req authz.Requirement) Decision {
	role, resolved := snap.ResolvedRole()

	switch {
	case snap.State == auth.StateLoading:
		return Decision{Kind: Loading}
	case snap.State == auth.StatePresent && !resolved:
		return Decision{Kind: Loading}
	case snap.State != auth.StatePresent:
		return Decision{
			Kind:     RedirectLogin,
			ReturnTo: g.SafeReturnPath(target),
			Expired:  snap.Expired,
		}
	}

	if !g.evaluator.For(snap).Satisfies(req) {
		return Decision{Kind: RedirectDenied, Role: role}
	}
	return Decision{Kind: Allow, Role: role}
}

// Landing returns the page a user should land on instead of the dashboard
// home, if any.
func (g *Guard) Landing(snap auth.Snapshot) (string, bool) {
	if g.config.CourierHome == "" {
		return "", false
	}
	if g.evaluator.For(snap).IsExactly(authz.RoleCourier) {
		return g.config.CourierHome, true
	}
	return "", false
}

// SafeReturnPath reduces target to a local absolute path with its query.
// Anything else, including the login page itself, becomes "/".
func (g *Guard) SafeReturnPath(target string) string {
	if !isLocalPath(target) {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "/"
	}
	if u.Path == g.config.LoginPath {
		return "/"
	}

	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

// LoginURL returns the login page carrying next as return path.
func (g *Guard) LoginURL(next string) string {
	next = g.SafeReturnPath(next)
	if next == "/" {
		return g.config.LoginPath
	}
	return g.config.LoginPath + "?next=" + url.QueryEscape(next)
}

// IsSafeReturnPath reports whether target is accepted as a return path
// unchanged.
func IsSafeReturnPath(target string) bool {
	if !isLocalPath(target) {
		return false
	}
	u, err := url.Parse(target)
	return err == nil && u.Scheme == "" && u.Host == "" && u.User == nil
}

func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") {
		return false
	}
	// Protocol-relative and backslash forms resolve to another host in
	// browsers.
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	return !strings.ContainsAny(target, "\r\n\t")
}
