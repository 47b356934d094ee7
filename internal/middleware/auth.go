package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
)

const ContextUserIDKey = "user_id"

// Authenticator resolves an access token to the user id of a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (uint64, error)
}

func bearer(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "missing authorization header"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "invalid authorization format"
	}
	return parts[1], ""
}

// AuthMiddleware requires a valid access token matching the stored session.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearer(c)
		if msg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msg})
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, redis.ErrRedisUnavailable):
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "session store unavailable"})
			return
		case errors.Is(err, redis.ErrTokenNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			return
		case errors.Is(err, pkg.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "token expired"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, msg := bearer(c); msg == "" {
			if userID, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextUserIDKey, userID)
			}
		}
		c.Next()
	}
}
