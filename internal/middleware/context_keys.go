package middleware

import (
	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const actorCtxKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor (user identity plus
// role) from the Gin request context. The boolean reports whether auth
// middleware populated it.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorCtxKey).(domain.Actor)
	return actor, ok
}
