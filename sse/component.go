package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/voicedoc/component"
	"github.com/kbukum/voicedoc/logger"
)

var _ component.Component = (*Component)(nil)

// Component runs a Hub under the component registry.
type Component struct {
	hub *Hub
	wg  sync.WaitGroup
}

// NewComponent creates a component with a fresh Hub.
func NewComponent(log *logger.Logger) *Component {
	return &Component{hub: NewHub(log)}
}

// Hub returns the underlying Hub.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

// Start launches the hub loop.
func (c *Component) Start(_ context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop closes every stream and waits for the loop to exit.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Stop()
	c.wg.Wait()
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}
