package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a progress notification pushed to connected dashboards while a
// broadcast batch or backup run is in flight.
type Event struct {
	Type      string `json:"type"`
	Channel   string `json:"channel"`
	Recipient string `json:"recipient,omitempty"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
}

// DeliveryEvent reports the outcome of one recipient in a broadcast.
func DeliveryEvent(channel, recipient string, err error) Event {
	e := Event{Type: "delivery", Channel: channel, Recipient: recipient, OK: err == nil}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// StatusEvent reports a coarse state change (batch started, backup done).
func StatusEvent(channel, detail string) Event {
	return Event{Type: "status", Channel: channel, OK: true, Detail: detail}
}

// Hub maintains the set of active WebSocket clients and fans events out
// to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its event channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.events)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.events <- data:
		default:
			// Client buffer full, drop the event rather than stall a batch
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
