// File: /services/notification_hub.go
package services

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// HubMessage is the wire shape of every websocket push.
type HubMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// hubClient wraps a connection with its write lock. gorilla/websocket allows
// at most one concurrent writer per connection, and pushes come from
// arbitrary request goroutines, so every write goes through write().
type hubClient struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (c *hubClient) write(msg HubMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// NotificationHub tracks live websocket connections keyed by account id.
// Each connected client occupies the room named by its own id; state-change
// pushes are addressed to the counterpart's room. Delivery is best-effort
// and at-most-once: a failed write drops the connection and the message is
// lost. Persisted Notification rows remain the source of truth.
type NotificationHub struct {
	mu      sync.RWMutex
	clients map[string]*hubClient
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*hubClient),
	}
}

// Register joins the account's room, replacing any previous connection.
func (h *NotificationHub) Register(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	old, existed := h.clients[accountID]
	h.clients[accountID] = &hubClient{conn: conn}
	h.mu.Unlock()

	if existed && old.conn != conn {
		old.conn.Close()
	}
	log.Printf("Account %s connected via WebSocket", accountID)
}

// Unregister leaves the room, but only if the stored connection is still the
// one being closed.
func (h *NotificationHub) Unregister(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.clients[accountID]; ok && current.conn == conn {
		delete(h.clients, accountID)
	}
	h.mu.Unlock()
	log.Printf("Account %s disconnected from WebSocket", accountID)
}

// Send pushes a message into one account's room. No-op when the recipient is
// offline; a write failure only drops the connection, never the caller.
func (h *NotificationHub) Send(accountID string, msgType string, data interface{}) {
	h.mu.RLock()
	client, exists := h.clients[accountID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	if err := client.write(HubMessage{Type: msgType, Data: data}); err != nil {
		log.Printf("Error pushing to account %s: %v", accountID, err)
		// Remove dead connection
		h.mu.Lock()
		if current, ok := h.clients[accountID]; ok && current == client {
			delete(h.clients, accountID)
		}
		h.mu.Unlock()
		client.conn.Close()
	}
}

// Broadcast pushes a generic message to every connected client regardless of
// room.
func (h *NotificationHub) Broadcast(msgType string, data interface{}) {
	h.mu.RLock()
	targets := make(map[string]*hubClient, len(h.clients))
	for id, client := range h.clients {
		targets[id] = client
	}
	h.mu.RUnlock()

	for id, client := range targets {
		if err := client.write(HubMessage{Type: msgType, Data: data}); err != nil {
			log.Printf("Error broadcasting to account %s: %v", id, err)
		}
	}
}

// IsOnline reports whether the account has a live connection.
func (h *NotificationHub) IsOnline(accountID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.clients[accountID]
	return exists
}

// OnlineCount returns the number of connected clients.
func (h *NotificationHub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
