// Package server implements the live-preview HTTP server: decks are
// rendered on request and connected browsers are told to reload when
// a source file changes.
package server

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// client is a single connected browser tab.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump discards inbound frames and unregisters the client when
// the connection drops.
func (c *client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub messages to the connection until the send
// channel is closed.
func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub tracks connected clients and broadcasts reload messages to all
// of them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

// NewHub creates an empty hub. Run must be started before clients
// connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
	}
}

// Run owns the client set until ctx is cancelled. Should be run as a
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl] = true
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[cl]; ok {
				delete(h.clients, cl)
				close(cl.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for cl := range h.clients {
				select {
				case cl.send <- message:
				default:
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for cl := range h.clients {
				delete(h.clients, cl)
				close(cl.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(cl *client) {
	h.register <- cl
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(cl *client) {
	h.unregister <- cl
}

// Broadcast sends a message to every connected client. Drops the
// message if the hub is not keeping up; a later change triggers the
// next one.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
