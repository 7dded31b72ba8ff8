package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voicedoc/observability"
)

// Metrics returns middleware that records request counts, durations and
// in-flight requests. Routes are labeled by path.
func Metrics(m *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			m.RecordRequestStart(ctx)
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			m.RecordRequestEnd(ctx, r.Method, r.URL.Path, sw.Status(), time.Since(start))
		})
	}
}
