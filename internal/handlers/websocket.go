package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers the caller for
// booking event pushes
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)
		services.HandleWebSocket(hub, c.Writer, c.Request, session.UserID)
	}
}
