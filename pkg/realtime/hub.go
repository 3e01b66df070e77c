package realtime

import (
	"sync"

	"github.com/apolloncare/cs618-project/domain"
	"github.com/gofiber/fiber/v2/log"
)

// Conn is the slice of a websocket connection the hub needs. It is satisfied
// by *websocket.Conn and by test doubles.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Client is one connected realtime subscriber. UserID is empty for guests;
// identity is recorded at connect time but does not scope delivery.
// writeMu serializes writes: websocket connections allow a single
// concurrent writer, and broadcasts come from per-request goroutines.
type Client struct {
	UserID  string
	Conn    Conn
	writeMu sync.Mutex
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Message is the wire envelope for every realtime event.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

const EventRecipeCreated = "recipe.created"

// Hub fans events out to every connected client, best effort. It is handed
// to the handlers that need it rather than living as package state.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastRecipeCreated pushes the event to all connected clients. Write
// failures on individual connections are dropped; no delivery guarantee.
func (h *Hub) BroadcastRecipeCreated(event domain.RecipeCreatedEvent) {
	msg := Message{Event: EventRecipeCreated, Data: event}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		log.Debugf("no realtime clients connected, dropping %s event", EventRecipeCreated)
		return
	}

	for c := range h.clients {
		if err := c.write(msg); err != nil {
			log.Warnf("failed writing %s event to client: %v", EventRecipeCreated, err)
		}
	}
}
