package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/pkg/response"
)

const authenticatedKey = "authenticated"

// Auth returns a middleware that guards admin routes with a static API key.
// An empty configured key locks the routes entirely.
func Auth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token == "" {
			token = strings.TrimSpace(c.Query("key"))
		}
		if adminKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminKey)) != 1 {
			response.Unauthorized(c)
			return
		}
		c.Set(authenticatedKey, true)
		c.Next()
	}
}

// IsAuthenticated reports whether the current request passed Auth.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(authenticatedKey)
}

// NormalizeToken strips an optional Bearer prefix and whitespace.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[len("bearer "):])
	}
	return token
}
