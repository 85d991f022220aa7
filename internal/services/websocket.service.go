package services

import (
	"sync"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed to clients.
const (
	EventScanStarted  = "scan_started"
	EventScanStatus   = "scan_status"
	EventScanFinished = "scan_finished"
	EventViewChanged  = "view_changed"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // event type, or "zoom_in", "zoom_out", "up", "stop", "ping" from clients
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Index     *int        `json:"index,omitempty"` // child or path level for zoom messages
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub manages all connected WebSocket clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan bool
	log        *zap.Logger
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the WebSocket hub
func InitWebSocketHub() *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan bool),
		log:        logging.Component("ws"),
	}

	go wsHub.run()

	return wsHub
}

// run manages the hub's event loop
func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSConnectionsActive(total)
			h.log.Info("client connected", zap.String("client", client.ID), zap.Int("total", total))

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSConnectionsActive(total)
			h.log.Info("client disconnected", zap.String("client", clientID), zap.Int("total", total))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// Broadcast queues a message for all connected clients. It drops the
// message when the queue is full.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Debug("broadcast queue full", zap.String("type", msg.Type))
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetWebSocketHub returns the WebSocket hub
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// BroadcastEvent sends an event to every client. It is a no-op before the
// hub is initialized.
func BroadcastEvent(eventType string, data interface{}) {
	hub := GetWebSocketHub()
	if hub == nil {
		return
	}
	hub.Broadcast(WebSocketMessage{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// SendMessage sends a message to a specific client
func SendMessage(clientID string, msg WebSocketMessage) error {
	hub := GetWebSocketHub()
	if hub == nil {
		return nil // Hub not initialized yet
	}

	// The read lock is held across the send so unregister cannot close
	// client.Send underneath it.
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	client, exists := hub.clients[clientID]
	if !exists {
		return nil // Client not connected
	}

	select {
	case client.Send <- msg:
		return nil
	default:
		return nil // Send channel full
	}
}

// StopWebSocketHub gracefully stops the hub
func StopWebSocketHub() {
	if wsHub != nil {
		wsHub.done <- true
	}
}
