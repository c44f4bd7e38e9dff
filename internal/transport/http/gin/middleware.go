package httpgin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID  = "X-Request-ID"
	headerIdemKey    = "Idempotency-Key"
	headerRetryAfter = "Retry-After"
	ctxKeyRequestID  = "request_id"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set(headerRequestID, reqID)
		c.Set(ctxKeyRequestID, reqID)

		c.Next()
	}
}

// CORS allows any origin without credentials.
func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			headerRequestID,
			headerIdemKey,
			"If-None-Match",
		},
		ExposeHeaders: []string{
			headerRequestID,
			headerIdemKey,
			headerRetryAfter,
			"ETag",
			"Cache-Control",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

// LoggingMiddleware logs one line per request. Requests that recorded an
// error through c.Error are logged at error level with the error chain.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		reqID, _ := c.Get(ctxKeyRequestID)

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
			logger.Error("http", slog.Group("http", attrs...))
			return
		}

		logger.Info("http", slog.Group("http", attrs...))
	}
}
