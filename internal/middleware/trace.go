package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobcard-automation/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// TraceID puts the caller's X-Request-ID, or a new uuid, on the request
// context and echoes it back, so log lines and dispatched work share it.
func (m Middleware) TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(log.WithTraceID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
