package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the caller Identity.
const IdentityKey = "identity"

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(IdentityKey, id)
}

// IdentityFrom returns the identity attached by the audit pipeline or RequireRole.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireRole authenticates strictly and then checks the role claim.
func RequireRole(g *Gate, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.Request)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			return
		}
		if err := Authorize(id, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": err.Error()})
			return
		}
		SetIdentity(c, id)
		c.Next()
	}
}
