package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease/internal/session"
)

// ContextKeyIdentity is the gin context key the resolved identity is stored
// under.
const ContextKeyIdentity = "auth_identity"

// RequireAuth resolves the request's session into an identity and aborts
// unauthenticated requests with 401.
func (sm *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := sm.CurrentIdentity(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(ContextKeyIdentity, ident)
		c.Next()
	}
}

// GetIdentity returns the identity RequireAuth stored on the context.
func GetIdentity(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return session.Identity{}, false
	}
	ident, ok := v.(session.Identity)
	return ident, ok
}
