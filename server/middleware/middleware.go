package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. The server
// applies its standard chain at this level so it covers every route.
type Middleware func(http.Handler) http.Handler

// Chain nests middlewares so the first one listed sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
