package middleware

import (
	"crypto/subtle"
	"strings"

	"jobcard-automation/pkg/response"

	"github.com/gin-gonic/gin"
)

const adminTokenHeader = "X-Admin-Token"

// AdminAuth requires the configured token as a bearer token or in X-Admin-Token.
func (m Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.adminToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader(adminTokenHeader)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.adminToken)) != 1 {
			m.l.Warnf(c.Request.Context(), "internal.middleware.AdminAuth: rejected %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
