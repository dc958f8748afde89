package websocket

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients. A user may hold several connections.
	clients map[*Client]struct{}

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns
	done chan struct{}

	logger *zap.Logger

	mu sync.RWMutex
}

// Message is delivered to every client matching UserID or one of Roles
type Message struct {
	UserID string
	Roles  []string
	Data   []byte
}

func (m *Message) matches(c *Client) bool {
	if m.UserID != "" && c.UserID == m.UserID {
		return true
	}
	return slices.Contains(m.Roles, c.UserRole)
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop. It closes every client when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected",
				zap.String("user_id", client.UserID),
				zap.String("role", client.UserRole),
				zap.Int("clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected",
				zap.String("user_id", client.UserID),
				zap.Int("clients", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !message.matches(client) {
					continue
				}
				select {
				case client.send <- message.Data:
				default:
					// slow reader
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("websocket client buffer full, disconnecting", zap.String("user_id", client.UserID))
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds c to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its send channel. No-op after the hub stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) enqueue(m *Message, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	m.Data = payload
	select {
	case h.broadcast <- m:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message")
	}
}

// BroadcastToUser sends a message to every connection of one user
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	h.enqueue(&Message{UserID: userID}, data)
}

// BroadcastToRole sends a message to all users with any of the given roles
func (h *Hub) BroadcastToRole(data interface{}, roles ...string) {
	h.enqueue(&Message{Roles: roles}, data)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user has at least one open connection
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
