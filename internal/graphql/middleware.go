package graphql

import (
	"github.com/gin-gonic/gin"

	"github.com/fundforge/fundforge/internal/middleware"
	"github.com/fundforge/fundforge/internal/models"
)

// GinContextMiddleware copies the authenticated actor and request provenance
// set by the auth middleware into the request context for GraphQL resolvers.
func GinContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if actor, ok := middleware.ActorFrom(c); ok {
			ctx = WithActor(ctx, actor)
		}

		ctx = WithRequestContext(ctx, &models.RequestContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: c.GetString(middleware.RequestIDKey),
		})

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
