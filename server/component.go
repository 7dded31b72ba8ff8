package server

import (
	"context"

	"github.com/kbukum/voicedoc/component"
)

const componentName = "http-server"

var _ component.Component = (*ServerComponent)(nil)

// ServerComponent wraps Server to implement component.Component.
type ServerComponent struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

// Name returns the component name used for registration.
func (sc *ServerComponent) Name() string { return componentName }

// Start starts the underlying HTTP server and logs its routes.
func (sc *ServerComponent) Start(ctx context.Context) error {
	if err := sc.server.Start(ctx); err != nil {
		return err
	}
	sc.server.LogRoutes()
	return nil
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports whether the server has bound its listener.
func (sc *ServerComponent) Health(_ context.Context) component.Health {
	if sc.server.addr != "" {
		return component.Health{Name: componentName, Status: component.StatusHealthy, Message: sc.server.addr}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not started",
	}
}
