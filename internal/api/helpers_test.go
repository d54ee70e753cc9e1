// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/authz"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/models"
	ws "github.com/tomtom215/oceans-admin/internal/websocket"
)

// stubSource is an in-memory identity upstream.
type stubSource struct {
	passwords map[string]string
	profiles  map[string]*auth.Profile // by token
}

func newStubSource() *stubSource {
	return &stubSource{
		passwords: map[string]string{
			"alice":  "secret",
			"bob":    "livreur-pass",
			"claire": "fondatrice",
			"dora":   "ventes",
		},
		profiles: map[string]*auth.Profile{
			"tok-alice":  {ID: 1, Username: "alice", FirstName: "Alice", LastName: "Martin", Role: "manager"},
			"tok-bob":    {ID: 2, Username: "bob", Role: "livreur"},
			"tok-claire": {ID: 3, Username: "claire", IsSuperuser: true},
			"tok-dora":   {ID: 4, Username: "dora", Role: "gestionnaire_ventes"},
		},
	}
}

func (s *stubSource) Authenticate(_ context.Context, username, password string) (*auth.TokenGrant, error) {
	if username == "down" {
		return nil, fmt.Errorf("token request: %w", auth.ErrUpstreamUnavailable)
	}
	if want, ok := s.passwords[username]; !ok || want != password {
		return nil, auth.ErrAuthentication
	}
	return &auth.TokenGrant{Token: "tok-" + username}, nil
}

func (s *stubSource) FetchProfile(_ context.Context, token string) (*auth.Profile, error) {
	p, ok := s.profiles[token]
	if !ok {
		return nil, auth.ErrSessionExpired
	}
	cp := *p
	return &cp, nil
}

type testAPI struct {
	handler   http.Handler
	manager   *auth.Manager
	evaluator *authz.Evaluator
	hub       *ws.Hub
}

type apiOptions struct {
	chi       *ChiMiddlewareConfig
	handler   HandlerConfig
	proxyTo   string
	transport http.RoundTripper
}

func setupAPI(t *testing.T, opts apiOptions) *testAPI {
	t.Helper()

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	t.Cleanup(enforcer.Close)
	evaluator := authz.NewEvaluator(enforcer)

	manager := auth.NewManager(newStubSource(), auth.NewMemoryCredentialStore(time.Hour), auth.DefaultManagerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = manager.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	g := guard.New(evaluator, nil)
	sessions := auth.NewSessionMiddleware(manager, nil)
	hub := ws.NewHub(ws.HubConfig{})

	chiConfig := opts.chi
	if chiConfig == nil {
		chiConfig = DefaultChiMiddlewareConfig()
		chiConfig.CORSAllowedOrigins = []string{"http://localhost:3000"}
		chiConfig.RateLimitDisabled = true
	}

	var proxy http.Handler
	if opts.proxyTo != "" {
		target, err := url.Parse(opts.proxyTo)
		if err != nil {
			t.Fatalf("parse proxy target: %v", err)
		}
		proxy = NewUpstreamProxy(target, g, opts.transport)
	}

	h := NewHandler(manager, sessions, evaluator, g, hub, opts.handler)
	router := NewRouter(h, NewChiMiddleware(chiConfig), sessions, g, proxy)

	return &testAPI{
		handler:   router.SetupChi(),
		manager:   manager,
		evaluator: evaluator,
		hub:       hub,
	}
}

// do sends a request through the router. body, when not nil, is encoded
// as JSON.
func (a *testAPI) do(t *testing.T, method, target string, body interface{}, cookie *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// login signs in and returns the session cookie.
func (a *testAPI) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Username: username, Password: password}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.DefaultSessionMiddlewareConfig().CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response: %v", rec.Header())
	return nil
}

// envelope is models.APIResponse with a raw payload.
type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
	Meta    *models.APIMeta  `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Fatalf("error code = %q, want %q", env.Error.Code, code)
	}
	return env
}
