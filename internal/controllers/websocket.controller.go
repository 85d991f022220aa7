package controllers

import (
	"net/http"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/middleware"
	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewUpgrader returns a websocket upgrader accepting the given origins.
// Requests without an Origin header (non-browser clients) are accepted.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || middleware.OriginAllowed(origin, allowedOrigins)
		},
	}
}

// HandleWebSocket upgrades an authenticated request and registers the
// client with the hub. RequireToken must run first.
func HandleWebSocket(upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientName := "anonymous"
		if v, ok := c.Get(middleware.ClaimsKey); ok {
			if claims, ok := v.(*services.CustomClaims); ok {
				clientName = claims.ClientName
			}
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		middleware.GlobalSecurityLogger.LogWebSocketConnected(c.ClientIP(), clientName)

		client := &services.ClientConnection{
			ID:    clientName + "-" + uuid.NewString(),
			Conn:  ws,
			Send:  make(chan services.WebSocketMessage, 256),
			Close: make(chan bool),
		}

		hub := services.GetWebSocketHub()
		hub.Register(client)
		sendSnapshot(client)

		go readPump(client, hub, c.ClientIP())
		go writePump(client)
	}
}

// sendSnapshot queues the current status and view so a new client does
// not wait for the next change.
func sendSnapshot(client *services.ClientConnection) {
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		return
	}
	now := time.Now()
	client.Send <- services.WebSocketMessage{Type: services.EventScanStatus, Timestamp: now, Data: analyzer.Status()}
	client.Send <- services.WebSocketMessage{Type: services.EventViewChanged, Timestamp: now, Data: analyzer.View()}
}

// handleClientMessage applies a navigation or control request and returns
// the reply for the sender.
func handleClientMessage(msg services.WebSocketMessage) *services.WebSocketMessage {
	reply := func(t string, data interface{}, err error) *services.WebSocketMessage {
		m := &services.WebSocketMessage{Type: t, Timestamp: time.Now(), Data: data}
		if err != nil {
			m.Type = "error"
			m.Error = err.Error()
		}
		return m
	}

	if msg.Type == "ping" {
		return reply("pong", nil, nil)
	}

	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		return reply("", nil, err)
	}

	switch msg.Type {
	case "zoom_in":
		if msg.Index == nil {
			return &services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: "index is required"}
		}
		if err := analyzer.ZoomIn(*msg.Index); err != nil {
			return reply("", nil, err)
		}
		return reply(services.EventViewChanged, analyzer.View(), nil)
	case "zoom_out":
		if msg.Index == nil {
			return &services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: "index is required"}
		}
		analyzer.ZoomOutTo(*msg.Index)
		return reply(services.EventViewChanged, analyzer.View(), nil)
	case "up":
		analyzer.ZoomOut()
		return reply(services.EventViewChanged, analyzer.View(), nil)
	case "stop":
		analyzer.Stop()
		return reply(services.EventScanStatus, analyzer.Status(), nil)
	default:
		return &services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: "unknown message type: " + msg.Type}
	}
}

// readPump reads messages from the WebSocket client
func readPump(client *services.ClientConnection, hub *services.WebSocketHub, ip string) {
	defer func() {
		hub.Unregister(client.ID)
		client.Conn.Close()
		middleware.GlobalSecurityLogger.LogWebSocketDisconnected(ip, client.ID)
	}()

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("websocket read error", zap.String("client", client.ID), zap.Error(err))
			}
			return
		}

		if msg.Type == "unsubscribe" {
			return
		}

		if err := services.SendMessage(client.ID, *handleClientMessage(msg)); err != nil {
			return
		}
	}
}

// writePump writes messages to the WebSocket client
func writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				// Channel closed, close connection
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logging.Warn("websocket write error", zap.String("client", client.ID), zap.Error(err))
				}
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
