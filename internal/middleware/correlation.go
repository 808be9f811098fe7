package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/logger"
	"github.com/cognitive-core/agent-gateway/internal/utils"
)

// RequestCorrelationMiddleware attaches a request ID to every request with a
// priority cascade: client-provided X-Request-ID first, generated otherwise.
// The ID travels in the context (for logs) and is echoed in the response.
func RequestCorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.HeaderRequestID)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}

		w.Header().Set(utils.HeaderRequestID, requestID)
		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)

		// Health checks are frequent and boring; only failures get logged
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		logger.InfoCtx(ctx, "Incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP(r),
			"user_agent", r.Header.Get(utils.HeaderUserAgent),
		)

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		duration := time.Since(start)
		if wrapper.statusCode >= 400 {
			logger.WarnCtx(ctx, "Request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", wrapper.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
			return
		}
		logger.InfoCtx(ctx, "Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", wrapper.statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

// clientIP extracts the client IP with a priority cascade
func clientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get(utils.HeaderXForwardedFor); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP := r.Header.Get(utils.HeaderXRealIP); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// statusRecorder captures the response status code for logging
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Flush implements http.Flusher
func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
