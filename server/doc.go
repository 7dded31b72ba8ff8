// Package server provides the console's HTTP server: Gin routes behind a
// net/http middleware chain, served with h2c so one port answers both
// HTTP/1.1 and HTTP/2 cleartext clients.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration
//   - Metrics: OpenTelemetry request counters and durations
//   - Auth: bearer-token authentication for route groups
//   - RateLimit: per-client sliding-window limits for route groups
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health and /version.
package server
