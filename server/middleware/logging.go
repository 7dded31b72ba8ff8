package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voicedoc/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration. Health and version probes are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.Status(),
				logger.FieldDuration, duration.Milliseconds(),
				logger.FieldBytes, sw.bytes,
			)
			if id := r.Header.Get(RequestIDHeader); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.Status())
		})
	}
}

func isProbe(path string) bool {
	return path == "/health" || path == "/version"
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
