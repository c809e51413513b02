package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// Logger logs every request with its status and latency. A request id is
// taken from X-Request-Id or generated, and echoed back in the response.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		logger := zap.S().Named("http")
		switch {
		case len(c.Errors) > 0:
			logger.Errorw(c.Errors.String(), fields...)
		case c.Writer.Status() >= 500:
			logger.Warnw("request failed", fields...)
		default:
			logger.Debugw("request", fields...)
		}
	}
}
