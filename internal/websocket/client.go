package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// eventBuffer absorbs a burst of delivery events from one broadcast
	// batch; the hub drops events for clients that fall further behind.
	eventBuffer = 32
	pingEvery   = 30 * time.Second
)

// Client is one connected dashboard. The stream is one-way: the server
// pushes events, anything the client sends is discarded.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	events chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		events: make(chan []byte, eventBuffer),
	}
}

// Run attaches the client to the hub and blocks until the connection
// drops, then detaches it.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

// readLoop consumes and discards inbound frames so the connection's
// close handshake is observed. A read error means the client is gone.
func (c *Client) readLoop(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writeLoop forwards queued events to the connection and pings on an
// interval to surface dead peers.
func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.events:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
