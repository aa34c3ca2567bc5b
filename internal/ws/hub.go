package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Client represents a single dashboard WebSocket connection.
type Client struct {
	AdminID uint
	Send    chan []byte
	hub     *Hub
	mu      sync.Mutex
	closed  bool
}

// Close unregisters the client. The Send channel is deliberately left open:
// a broadcast may hold a reference to this client concurrently, and sending
// on a closed channel would panic inside the signup request path. writePump
// exits via the connection error instead.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend queues an event unless the client is closed or its buffer is
// full. Slow or departed clients drop events rather than block signups.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains the set of connected dashboard clients and pushes live
// signup events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// SignupEvent is pushed to the dashboard when a new user joins the waitlist.
type SignupEvent struct {
	Type         string    `json:"type"` // always "signup"
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Neighborhood string    `json:"neighborhood"`
	Position     int       `json:"position"`
	Referred     bool      `json:"referred"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Hub) BroadcastSignup(ev SignupEvent) {
	ev.Type = "signup"
	h.broadcast(ev)
}

func (h *Hub) broadcast(payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
