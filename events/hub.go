// Package events broadcasts CacheHit and relocation_summary notifications
// to connected operator CLI clients over WebSocket, so `archivectl tail` can
// watch live matchmaker/relocation activity against a running System.
//
// Grounded on the 2lar-b2 example repo's interfaces/websocket package (a Hub
// holding a set of client send-channels, register/unregister via channels,
// Upgrader-based HTTP handler), simplified from its per-user JWT-authenticated
// fan-out to a single unauthenticated broadcast topic — this is an operator
// diagnostic tool, not a multi-tenant API.
package events

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/coreason-ai/archive/accountant"
	"github.com/coreason-ai/archive/relocation"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// Kind tags the envelope's payload type for tail clients that decode
// selectively.
type Kind string

const (
	KindCacheHit          Kind = "cache_hit"
	KindRelocationSummary Kind = "relocation_summary"
)

// Envelope is the JSON frame written to every connected client.
type Envelope struct {
	Kind Kind        `json:"kind"`
	Data interface{} `json:"data"`
}

// Hub fans out Envelopes to every connected WebSocket client. It implements
// accountant.Accountant so the Matchmaker can broadcast cache hits directly,
// with no adapter layer.
type Hub struct {
	logger *zap.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan Envelope

	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
}

// NewHub creates a Hub. Call Run in its own goroutine to start the fan-out
// loop.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Envelope, 256),
		clients:    make(map[*client]bool),
	}
}

// Run drives registration and fan-out until ctx-independent shutdown (the
// caller simply stops sending and lets goroutines drain); intended to run
// for the lifetime of the serving process.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case env := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- env:
				default:
					// Slow consumer: drop rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// RecordHit implements accountant.Accountant: every Matchmaker cache hit is
// broadcast to connected tail clients.
func (h *Hub) RecordHit(hit accountant.CacheHit) {
	h.broadcast <- Envelope{Kind: KindCacheHit, Data: hit}
}

// BroadcastRelocationSummary publishes a relocation.Summary, for callers
// driving the Relocation Manager from an identity-event subscription.
func (h *Hub) BroadcastRelocationSummary(summary relocation.Summary) {
	h.broadcast <- Envelope{Kind: KindRelocationSummary, Data: summary}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket tail connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan Envelope, sendBufferSize)}
	h.register <- c

	go h.writePump(c)
	go h.readPump(c)
}

// readPump only exists to detect client disconnects (archivectl tail never
// sends anything); any read error unregisters the client.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for env := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		b, err := json.Marshal(env)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

var _ accountant.Accountant = (*Hub)(nil)
