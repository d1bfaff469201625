package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/u2204125/fee-management-system-sub000/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Requests declaring a Content-Length over the limit are rejected up
// front; streaming requests are capped with a MaxBytesReader so the
// handler's read fails instead.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(
				http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size"),
			)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
