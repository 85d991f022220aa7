package routes

import (
	"diskmosaic/internal/controllers"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RegisterAuthRoutes registers the WebSocket route only.
// Tokens are issued by the CLI (no HTTP endpoints).
func RegisterAuthRoutes(r gin.IRouter, upgrader *websocket.Upgrader, auth ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, auth...), controllers.HandleWebSocket(upgrader))
	r.GET("/ws", handlers...)
}
