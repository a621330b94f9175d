package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Token is a verified token that can expose its claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier is implemented by the OIDC and HMAC admin token verifiers.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware verifies the Bearer token and stores its claims under
// "claims" in the gin context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// RequireAdmin lets through requests whose claims carry the admin role,
// either as a top-level "role" or in Keycloak's realm_access.roles.
// It must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("claims")
		claims, _ := v.(map[string]interface{})
		if !hasAdminRole(claims) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func hasAdminRole(claims map[string]interface{}) bool {
	if claims == nil {
		return false
	}
	if role, _ := claims["role"].(string); role == "admin" {
		return true
	}
	ra, _ := claims["realm_access"].(map[string]interface{})
	roles, _ := ra["roles"].([]interface{})
	for _, r := range roles {
		if s, _ := r.(string); s == "admin" {
			return true
		}
	}
	return false
}
