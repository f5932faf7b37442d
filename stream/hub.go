// Package stream pushes simulation snapshots to browser clients over websockets.
package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/shoal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the envelope for everything sent to a client.
type Message struct {
	Type     string         `json:"type"`
	Config   *WorldConfig   `json:"config,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// WorldConfig is sent once when a client connects.
type WorldConfig struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	CellSize float64 `json:"cell_size"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks connected clients and fans snapshots out to them.
type Hub struct {
	world WorldConfig

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub that greets clients with the given world dimensions.
func NewHub(world WorldConfig) *Hub {
	return &Hub{
		world:   world,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	if err := c.send(Message{Type: "config", Config: &h.world}); err != nil {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("stream client connected", "remote", r.RemoteAddr, "clients", n)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(c)
	slog.Info("stream client disconnected", "remote", r.RemoteAddr)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends a snapshot to every client. Clients that fail are dropped.
func (h *Hub) Broadcast(s game.Snapshot) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := Message{Type: "snapshot", Snapshot: &s}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			slog.Debug("dropping stream client", "error", err)
			h.drop(c)
		}
	}
}

// Run broadcasts snapshots until the channel closes or ctx is done.
func (h *Hub) Run(ctx context.Context, snapshots <-chan game.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			h.Close()
			return
		case s, ok := <-snapshots:
			if !ok {
				h.Close()
				return
			}
			h.Broadcast(s)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
	}
}

// Publish offers a snapshot without blocking. It reports false when the
// consumer is still busy with the previous one.
func Publish(ch chan<- game.Snapshot, s game.Snapshot) bool {
	select {
	case ch <- s:
		return true
	default:
		return false
	}
}
