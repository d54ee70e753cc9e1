// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during
	// shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeSession = "session"
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
)

// ErrHubClosed is returned by Attach while the hub is shut down.
var ErrHubClosed = errors.New("websocket hub closed")

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// HubConfig holds configuration for the hub.
type HubConfig struct {
	// AllowedOrigins lists browser origins allowed to open a stream, in
	// addition to the gateway's own host. "*" allows any origin.
	AllowedOrigins []string

	// SendBuffer is the per-client outgoing queue size. A client whose
	// queue is full is disconnected.
	SendBuffer int
}

// Hub tracks the session streams open on this instance. Each client
// forwards the snapshots of one session Provider to its browser.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]bool
	closed  bool
}

// NewHub creates a new Hub
func NewHub(config HubConfig) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 16
	}
	h := &Hub{
		config:  config,
		clients: make(map[*Client]bool),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Attach upgrades the request and streams the snapshots of p until either
// side closes. On upgrade failure the upgrader has already replied.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request, p *auth.Provider) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHubClosed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		return err
	}

	client := newClient(h, conn, p)
	if !h.register(client) {
		_ = conn.Close()
		return ErrHubClosed
	}
	client.start()
	return nil
}

// Serve implements suture.Service. It blocks until ctx is done, then
// closes every stream.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	h.closed = false
	h.mu.Unlock()

	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

// DisconnectSession closes every stream of sessionID and returns how many
// were closed.
func (h *Hub) DisconnectSession(sessionID string) int {
	h.mu.Lock()
	var matched []*Client
	for c := range h.clients {
		if c.provider.SessionID() == sessionID {
			matched = append(matched, c)
			delete(h.clients, c)
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
	h.mu.Unlock()

	for _, c := range matched {
		c.close()
	}
	return len(matched)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of streams open for sessionID.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.provider.SessionID() == sessionID {
			n++
		}
	}
	return n
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = true
	total := len(h.clients)
	metrics.WSConnections.Set(float64(total))
	h.mu.Unlock()

	logging.Debug().
		Str("session", logging.SanitizeSessionID(c.provider.SessionID())).
		Int("total_clients", total).
		Msg("websocket client connected")
	return true
}

// unregister removes c and signals its pumps to stop. Safe to call more
// than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	total := len(h.clients)
	metrics.WSConnections.Set(float64(total))
	h.mu.Unlock()

	c.close()
	if ok {
		logging.Debug().Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// logGracefulShutdown closes all clients and logs why. ctx.Err() is not
// logged as an error: cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients closes clients in id order and refuses new ones until
// Serve runs again.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]bool)
	metrics.WSConnections.Set(0)
	h.mu.Unlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, c := range clients {
		c.close()
	}
	return len(clients)
}

// checkOrigin accepts requests without an Origin header, same-host
// origins and configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
