package kvstore

import (
	"context"
	"fmt"

	"github.com/kbukum/voicedoc/component"
)

// Component adapts a Store to the component lifecycle: Stop closes it and
// Health reports its availability.
type Component struct {
	store Store
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps store.
func NewComponent(store Store) *Component {
	return &Component{store: store}
}

func (c *Component) Name() string { return "store" }

// Start fails when the backend cannot be reached.
func (c *Component) Start(ctx context.Context) error {
	if !c.store.IsAvailable(ctx) {
		return fmt.Errorf("%s store unavailable", c.store.Name())
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error { return c.store.Close() }

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.store.Name()}
	if !c.store.IsAvailable(ctx) {
		h.Status = component.StatusUnhealthy
		h.Message = c.store.Name() + " backend unavailable"
	}
	return h
}
