package middleware

import (
	"job-board/internal/logger"
	"job-board/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultMaxRequestSize = 10 << 20
)

// RequestSizeLimitMiddleware rejects bodies over maxSize bytes. A declared
// Content-Length is refused up front; chunked bodies are capped while the
// handler reads them and fail JSON binding.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logger.WithRequestID(GetRequestID(c)).Warn("Request body too large",
				zap.String("route", routeLabel(c)),
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", maxSize),
				zap.String("event", "request_too_large"),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
