package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SainathReddyM/py-file-converter/internal/apperr"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

const apiKeyContextKey = "auth_api_key"

// Middleware rejects requests whose API key is missing or unregistered.
// It runs before any body read or file I/O, so unauthenticated requests
// never cost more than a header lookup.
func Middleware(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderName)
		if !registry.Validate(key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   apperr.Kind(apperr.ErrUnauthorized),
				"message": "valid api key required",
			})
			return
		}
		c.Set(apiKeyContextKey, key)
		c.Next()
	}
}

// KeyFromContext retrieves the validated API key stored by the middleware.
func KeyFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(apiKeyContextKey)
	if !ok {
		return "", false
	}
	key, ok := val.(string)
	return key, ok
}
