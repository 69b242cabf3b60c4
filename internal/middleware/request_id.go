// file: internal/middleware/request_id.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ContextKey is the type for request-scoped context keys.
type ContextKey string

const (
	RequestIDKey    ContextKey = "request_id"
	LoggerKey       ContextKey = "logger"
	RequestStartKey ContextKey = "request_start"
)

// HeaderXRequestID carries the correlation ID on requests and responses.
const HeaderXRequestID = "X-Request-ID"

// RequestID assigns each request a correlation ID, reusing one the client
// supplied, and seeds the context with a request-scoped logger and the start
// time. Completion logging lives in Logging; this only sets the context up.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(HeaderXRequestID)
			if requestID == "" {
				if id, err := uuid.NewV4(); err == nil {
					requestID = id.String()
				} else {
					requestID = generateFallbackID(start)
				}
			}
			w.Header().Set(HeaderXRequestID, requestID)

			requestLogger := logger.With(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", getClientIP(r)),
			)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = context.WithValue(ctx, LoggerKey, requestLogger)
			ctx = context.WithValue(ctx, RequestStartKey, start)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
