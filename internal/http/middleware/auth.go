package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photo-service/internal/auth"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
	serviceContextKey   = "serviceClaims"
)

// ServiceAuth guards the classification callback routes with a service
// token. A nil parser (no secret configured) leaves the routes open.
func ServiceAuth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil {
			c.Next()
			return
		}

		rawHeader := c.GetHeader(authorizationHeader)
		if rawHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		parts := strings.SplitN(rawHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := parser.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(serviceContextKey, claims)
		c.Next()
	}
}
