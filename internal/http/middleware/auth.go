// README: Firebase bearer-token auth middleware and caller accessors.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voyager/internal/infra"
)

const (
	ctxUID    = "auth.uid"
	ctxRole   = "auth.role"
	ctxClaims = "auth.claims"
)

// Auth rejects requests without a verifiable "Bearer <Firebase ID token>" header
// and stores the caller's uid, role claim and raw claims on the context.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		role, _ := token.Claims["role"].(string)
		c.Set(ctxUID, token.UID)
		c.Set(ctxRole, role)
		c.Set(ctxClaims, token.Claims)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// CallerClaim returns a string claim from the verified token, or "".
func CallerClaim(c *gin.Context, key string) string {
	claims, ok := c.Get(ctxClaims)
	if !ok {
		return ""
	}
	m, _ := claims.(map[string]interface{})
	v, _ := m[key].(string)
	return v
}
