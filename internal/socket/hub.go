// server/internal/socket/hub.go
package socket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks connected WebSocket clients, keyed by username.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a new client to the Hub.
func (h *Hub) Register(username string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[username] = conn
	log.Printf("WebSocket client registered: %s", username)
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[username]; ok {
		delete(h.clients, username)
		log.Printf("WebSocket client unregistered: %s", username)
	}
}

// Send delivers a message to one client. An offline client is not an error.
func (h *Hub) Send(username string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[username]
	if !ok {
		log.Printf("WebSocket client not found, could not send message: %s", username)
		return nil
	}

	return conn.WriteMessage(websocket.TextMessage, message)
}

// Broadcast delivers a message to every connected client. Used for stock
// alerts that concern all dashboard users.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for username, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket broadcast to %s failed: %v", username, err)
		}
	}
}
