// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/oceans-admin/internal/auth"
	"github.com/tomtom215/oceans-admin/internal/logging"
	"github.com/tomtom215/oceans-admin/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send pings
)

// clientIDCounter gives clients a stable close order.
var clientIDCounter atomic.Uint64

// Client forwards the snapshots of one Provider to one websocket.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	provider *auth.Provider
	send     chan Message

	// done is closed exactly once to stop all pumps. send is never closed,
	// so producers select on done instead.
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, p *auth.Provider) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		provider: p,
		send:     make(chan Message, hub.config.SendBuffer),
		done:     make(chan struct{}),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

func (c *Client) start() {
	go c.writePump()
	go c.readPump()
	go c.forwardPump()
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue queues msg for the write pump. A full queue means the browser
// is not reading; the client is dropped rather than sent stale state.
func (c *Client) enqueue(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().
			Str("session", logging.SanitizeSessionID(c.provider.SessionID())).
			Msg("websocket client too slow, disconnecting")
		c.hub.unregister(c)
		return false
	}
}

// forwardPump subscribes to the provider and queues every new snapshot.
// The current snapshot is sent first; generations never go backwards.
// A resume or login settles within the generation it started, so a
// snapshot at the last sent generation is forwarded unless it repeats it.
func (c *Client) forwardPump() {
	updates, cancel := c.provider.Subscribe()
	defer cancel()

	var last auth.Snapshot
	hasLast := false
	forward := func(snap auth.Snapshot) bool {
		if hasLast && !isNewer(snap, last) {
			return true
		}
		last, hasLast = snap, true
		return c.enqueue(Message{Type: MessageTypeSession, Data: snap.View()})
	}

	if !forward(c.provider.Current()) {
		return
	}
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				// Provider released by the session manager.
				c.hub.unregister(c)
				return
			}
			if !forward(snap) {
				return
			}
		case <-c.done:
			return
		}
	}
}

func isNewer(snap, last auth.Snapshot) bool {
	if snap.Generation != last.Generation {
		return snap.Generation > last.Generation
	}
	return snap.State != last.State || snap.Expired != last.Expired
}

// readPump reads client pings and detects disconnects.
func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		c.provider.Touch()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == MessageTypePing {
			c.provider.Touch()
			c.enqueue(Message{Type: MessageTypePong})
		}
	}
}

// writePump is the only writer on the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := MarshalMessage(msg)
			if err != nil {
				logging.Error().Err(err).Str("type", msg.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.hub.unregister(c)
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.unregister(c)
				return
			}

		case <-c.done:
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session stream closed")
			_ = c.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
			return
		}
	}
}
