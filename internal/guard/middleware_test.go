// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/models"
)

// staticSource is an IdentitySource with one fixed account.
type staticSource struct {
	role string
}

func (s staticSource) Authenticate(ctx context.Context, username, password string) (*auth.TokenGrant, error) {
	if password != "secret" {
		return nil, auth.ErrAuthentication
	}
	return &auth.TokenGrant{Token: "token-" + username}, nil
}

func (s staticSource) FetchProfile(ctx context.Context, token string) (*auth.Profile, error) {
	return &auth.Profile{ID: 1, Username: "alice", Role: s.role}, nil
}

// providerWithRole returns a Provider whose identity carries rawRole.
// An empty rawRole yields an Absent provider.
func providerWithRole(t *testing.T, rawRole string) *auth.Provider {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	p := auth.NewProvider("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		staticSource{role: rawRole}, auth.NewMemoryCredentialStore(0), auth.DefaultProviderConfig())
	t.Cleanup(p.Close)

	if _, err := p.Resume(ctx); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if rawRole != "" {
		if _, err := p.Login(ctx, "alice", "secret"); err != nil {
			t.Fatalf("Login() error: %v", err)
		}
	}
	return p
}

func serveProtected(t *testing.T, p *auth.Provider, req authz.Requirement, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	g := setupGuard(t)
	handler := g.Protect(req)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	}))

	if p != nil {
		r = r.WithContext(auth.WithProvider(r.Context(), p))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestProtect_Allow(t *testing.T) {
	p := providerWithRole(t, "manager")
	rec := serveProtected(t, p, authz.RequirePermission(authz.PermViewAllOrders),
		httptest.NewRequest(http.MethodGet, "/commandes", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "page" {
		t.Errorf("status = %d body = %q, want the page", rec.Code, rec.Body.String())
	}
}

func TestProtect_LoadingPlaceholder(t *testing.T) {
	p := auth.NewProvider("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		staticSource{}, auth.NewMemoryCredentialStore(0), auth.DefaultProviderConfig())
	t.Cleanup(p.Close)

	rec := serveProtected(t, p, authz.Requirement{}, httptest.NewRequest(http.MethodGet, "/profil", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", rec.Header().Get("Retry-After"))
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != models.ErrCodeSessionLoading {
		t.Errorf("error = %+v, want SESSION_LOADING", resp.Error)
	}
}

func TestProtect_BrowserRedirects(t *testing.T) {
	tests := []struct {
		name     string
		rawRole  string
		target   string
		req      authz.Requirement
		location string
	}{
		{"no session", "", "/commandes", authz.RequirePermission(authz.PermViewAllOrders), "/login?next=%2Fcommandes"},
		{"no session on home", "", "/", authz.Requirement{}, "/login"},
		{"forbidden", "livreur", "/commandes", authz.RequirePermission(authz.PermViewAllOrders), "/acces-refuse"},
		{"courier-only page", "fondateur", "/mes-livraisons", authz.ExclusiveTo(authz.RoleCourier), "/acces-refuse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *auth.Provider
			if tt.rawRole != "" {
				p = providerWithRole(t, tt.rawRole)
			}
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r.Header.Set("Accept", "text/html,application/xhtml+xml")

			rec := serveProtected(t, p, tt.req, r)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestProtect_JSONClients(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/commandes", nil)
		r.Header.Set("Accept", "application/json")

		rec := serveProtected(t, nil, authz.RequirePermission(authz.PermViewAllOrders), r)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		resp := decodeEnvelope(t, rec)
		if resp.Success || resp.Error == nil || resp.Error.Code != models.ErrCodeUnauthorized {
			t.Fatalf("response = %+v, want UNAUTHORIZED", resp)
		}
		details, _ := resp.Error.Details.(map[string]interface{})
		if details["login_url"] != "/login?next=%2Fcommandes" {
			t.Errorf("login_url = %v", details["login_url"])
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		p := providerWithRole(t, "gestionnaire_ventes")
		r := httptest.NewRequest(http.MethodGet, "/parametres", nil)
		r.Header.Set("X-Requested-With", "XMLHttpRequest")

		rec := serveProtected(t, p, authz.RequireRole(authz.RoleAdministrator), r)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		resp := decodeEnvelope(t, rec)
		details, _ := resp.Error.Details.(map[string]interface{})
		if details["role_display_name"] != "Gestionnaire des ventes" {
			t.Errorf("role_display_name = %v", details["role_display_name"])
		}
	})
}

func TestProtect_ExpiredSessionJSON(t *testing.T) {
	p := providerWithRole(t, "manager")
	if err := p.Expire(context.Background()); err != nil {
		t.Fatalf("Expire() error: %v", err)
	}

	rec := serveProtected(t, p, authz.Requirement{}, httptest.NewRequest(http.MethodGet, "/api/v1/navigation", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error.Code != models.ErrCodeSessionExpired {
		t.Errorf("code = %q, want SESSION_EXPIRED", resp.Error.Code)
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   bool
	}{
		{"api path", "/api/v1/navigation", nil, true},
		{"upstream path", "/upstream/orders/", nil, true},
		{"browser page", "/commandes", map[string]string{"Accept": "text/html,*/*"}, false},
		{"fetch with json accept", "/commandes", map[string]string{"Accept": "application/json"}, true},
		{"xhr", "/commandes", map[string]string{"X-Requested-With": "XMLHttpRequest"}, true},
		{"no headers", "/commandes", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := WantsJSON(r); got != tt.want {
				t.Errorf("WantsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
