package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

const sessionKey = "session"

// AuthMiddleware validates the bearer token and attaches an explicit
// reservations.Session to the request context. Handlers never read tokens
// themselves; they pass the session into the engine.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		id, ok := claims["id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		session := &reservations.Session{
			UserID: uint(id),
		}
		if email, ok := claims["email"].(string); ok {
			session.Email = email
		}
		if exp, ok := claims["exp"].(float64); ok {
			session.ExpiresAt = time.Unix(int64(exp), 0)
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session the auth middleware attached, or nil on
// unauthenticated routes.
func SessionFrom(c *gin.Context) *reservations.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*reservations.Session)
	return s
}
