package middleware

import (
	"github.com/gin-gonic/gin"

	"kiranapos/internal/core/actor"
	"kiranapos/internal/core/id"
)

// ActorContext reads the acting user from request headers and stores it in
// context for the domain layer. Authentication itself is handled upstream;
// the core only needs identity and role for edit eligibility and audit rows.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := actor.Actor{
			Name: c.GetHeader("X-Actor-Name"),
			Role: actor.RoleOwner,
		}
		if role, ok := actor.ParseRole(c.GetHeader("X-Actor-Role")); ok {
			a.Role = role
		}
		if raw := c.GetHeader("X-Actor-Id"); raw != "" {
			if parsed, err := id.Parse(raw); err == nil {
				a.ID = parsed
			}
		}

		ctx := actor.WithActor(c.Request.Context(), a)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
