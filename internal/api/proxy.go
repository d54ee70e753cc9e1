// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/guard"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/metrics"
	"github.com/tomtom215/oceans-admin/internal/models"
)

// ProxyPrefix is the gateway path under which the REST API is exposed.
const ProxyPrefix = "/upstream"

// UpstreamProxy forwards /upstream/* to the REST API with the session
// token. Any 401 from the API expires the session: the credential is
// cleared and the response is replaced by a SESSION_EXPIRED error.
type UpstreamProxy struct {
	target *url.URL
	guard  *guard.Guard
	proxy  *httputil.ReverseProxy
}

// NewUpstreamProxy creates a proxy to target. transport may be nil.
func NewUpstreamProxy(target *url.URL, g *guard.Guard, transport http.RoundTripper) *UpstreamProxy {
	p := &UpstreamProxy{target: target, guard: g}
	p.proxy = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
		Transport:      transport,
	}
	return p
}

// ServeHTTP implements http.Handler.
func (p *UpstreamProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}

func (p *UpstreamProxy) rewrite(pr *httputil.ProxyRequest) {
	out := pr.Out.URL
	out.Path = strings.TrimPrefix(out.Path, ProxyPrefix)
	if out.RawPath != "" {
		out.RawPath = strings.TrimPrefix(out.RawPath, ProxyPrefix)
	}
	pr.SetURL(p.target)
	pr.SetXForwarded()

	// Gateway cookies never reach the API; the token replaces them.
	pr.Out.Header.Del("Cookie")
	pr.Out.Header.Del("Authorization")
	if prov, ok := auth.ProviderFromContext(pr.In.Context()); ok {
		if token, ok := prov.Token(); ok {
			pr.Out.Header.Set("Authorization", "Token "+token)
		}
	}
	if id := logging.RequestIDFromContext(pr.In.Context()); id != "" {
		pr.Out.Header.Set("X-Request-ID", id)
	}
}

func (p *UpstreamProxy) modifyResponse(resp *http.Response) error {
	req := resp.Request
	metrics.RecordProxyResponse(req.Method, resp.StatusCode)
	if resp.StatusCode != http.StatusUnauthorized {
		return nil
	}

	ctx := req.Context()
	if prov, ok := auth.ProviderFromContext(ctx); ok {
		if err := prov.Expire(ctx); err != nil {
			logging.CtxWarn(ctx).Err(err).Msg("Failed to clear expired credential")
		}
	}
	metrics.ProxySessionExpirations.Inc()
	logging.CtxInfo(ctx).Str("path", req.URL.Path).Msg("Upstream rejected session token, session expired")

	body, err := p.expiredBody(ctx)
	if err != nil {
		return fmt.Errorf("encode session expired response: %w", err)
	}
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header = http.Header{}
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	resp.Header.Set("Cache-Control", "no-store")
	return nil
}

func (p *UpstreamProxy) expiredBody(ctx context.Context) ([]byte, error) {
	requestID := logging.RequestIDFromContext(ctx)
	return json.Marshal(&models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:      models.ErrCodeSessionExpired,
			Message:   "Session expired, sign in again",
			Details:   map[string]string{"login_url": p.guard.LoginURL("/")},
			RequestID: requestID,
		},
		Meta: &models.APIMeta{
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	})
}

func (p *UpstreamProxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RecordProxyResponse(r.Method, 0)
	respondError(w, r, http.StatusBadGateway, models.ErrCodeExternalServiceFail, "Upstream API unavailable", err)
}
