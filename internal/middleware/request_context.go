package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type clientIPKey struct{}

// ClientContext copies the client address into the request context so that
// handlers outside gin, like the GraphQL resolvers, can key on it.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ClientIPFromContext returns the address stored by ClientContext
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
