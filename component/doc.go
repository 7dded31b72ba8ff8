// Package component manages the lifecycle of the agent's long-lived parts.
//
// A Registry starts components in registration order, stops them in reverse
// and aggregates their health for the console's /health endpoint.
package component
