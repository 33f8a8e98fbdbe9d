// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note (middleware in Gin):
// In Gin, middleware is any function with the signature `gin.HandlerFunc`, which
// is `func(*gin.Context)`. Middleware functions form a chain: each one runs,
// optionally calls c.Next() to pass control to the next handler, and can call
// c.Abort() to stop the chain.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rideshare/internal/identity"
	"rideshare/internal/logging"
	"rideshare/internal/repository"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth verifies the bearer token, loads the caller's profile and places the
// user in the request context, where identity.ContextProvider finds it.
//
// Go Learning Note (c.Request.WithContext):
// Services take a context.Context, not a *gin.Context. Replacing c.Request
// with a copy carrying the user makes it visible to everything downstream that
// reads c.Request.Context().
func Auth(tokens TokenVerifier, profiles repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		// strings.SplitN splits into at most 2 parts, handling tokens with spaces.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := profiles.GetOrCreate(c.Request.Context(), userID)
		if err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", userID).Msg("failed to load profile")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "profile store unavailable"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// GetUserID retrieves the user ID set by Auth. It is "" on routes without Auth.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
