package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeBillStatus   MessageType = "BILL_STATUS"
	MessageTypeAnnouncement MessageType = "ANNOUNCEMENT"
	MessageTypeComplaint    MessageType = "COMPLAINT_UPDATE"
	MessageTypeError        MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is what controllers use to push events. *Hub implements it.
type Publisher interface {
	Broadcast(message WebSocketMessage)
	SendToUser(userID uuid.UUID, message WebSocketMessage)
	SendToRole(role string, message WebSocketMessage)
}

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Role   string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message, func(*Client) bool { return true })

		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Connected clients are closed by their own pumps.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message WebSocketMessage) {
	stamp(&message)
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// SendToUser delivers to every connection of one user.
func (h *Hub) SendToUser(userID uuid.UUID, message WebSocketMessage) {
	stamp(&message)
	h.deliver(message, func(c *Client) bool { return c.UserID == userID })
}

// SendToRole delivers to every connection whose session has role.
func (h *Hub) SendToRole(role string, message WebSocketMessage) {
	stamp(&message)
	h.deliver(message, func(c *Client) bool { return c.Role == role })
}

func (h *Hub) deliver(message WebSocketMessage, match func(*Client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !match(client) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// Slow consumer; drop it rather than block the hub.
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func stamp(m *WebSocketMessage) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
}

func NewMessage(t MessageType, payload interface{}) WebSocketMessage {
	return WebSocketMessage{Type: t, Payload: payload, Timestamp: time.Now()}
}
