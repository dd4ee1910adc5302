package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldworks/backend/internal/interfaces/http/dto"
)

// DefaultMaxBodyBytes bounds request bodies on JSON endpoints.
const DefaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

// BodyLimit rejects requests whose declared or actual body size exceeds max.
func BodyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge, "request body too large", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
