package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/barber-booking/internal/services"
	"github.com/thereayou/barber-booking/pkg/auth"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

type TokenVerifier interface {
	UserID(token string) (uint, error)
}

// AuthMiddleware checks the bearer token and stores the user id in the context.
func AuthMiddleware(verifier TokenVerifier, blacklist services.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
			return
		}

		authenticate(c, token, verifier, blacklist)
	}
}

// WSAuthMiddleware also accepts the token as a query parameter, since
// browsers cannot set headers on websocket upgrades.
func WSAuthMiddleware(verifier TokenVerifier, blacklist services.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = auth.ExtractTokenFromHeader(c.Request)
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
			return
		}

		authenticate(c, token, verifier, blacklist)
	}
}

func authenticate(c *gin.Context, token string, verifier TokenVerifier, blacklist services.TokenBlacklist) {
	revoked, err := blacklist.IsBlacklisted(c.Request.Context(), token)
	if err != nil || revoked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalid"})
		return
	}

	userID, err := verifier.UserID(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalid"})
		return
	}

	c.Set(UserIDKey, userID)
	c.Set(TokenKey, token)
	c.Next()
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) uint {
	return c.MustGet(UserIDKey).(uint)
}
