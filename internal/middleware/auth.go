// Package middleware provides the gin middleware for the dashboard API.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextAuthToken = "auth_token"
)

// Auth validates the dashboard session token and keeps the raw bearer in
// the request context. The credential travels with each request; nothing
// in the service holds it as mutable shared state, so every upstream
// call carries exactly the token of the request that triggered it.
func Auth(secret string, logger *zap.Logger) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}
		raw := parts[1]

		token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			// Fall back to the standard subject claim.
			userID, _ = claims["sub"].(string)
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token carries no user identity"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextAuthToken, raw)
		c.Next()
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Token returns the raw bearer token from the request context, for
// forwarding to the upstream service.
func Token(c *gin.Context) string {
	return c.GetString(ContextAuthToken)
}
