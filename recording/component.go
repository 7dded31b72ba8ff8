package recording

import (
	"context"

	"github.com/kbukum/voicedoc/component"
	"github.com/kbukum/voicedoc/provider"
)

// Component ties the pipeline to the agent lifecycle. Stop abandons an
// active recording and waits for processing; Health reflects the audio
// device.
type Component struct {
	pipeline *Pipeline
	device   provider.Provider
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps p. device is probed for health.
func NewComponent(p *Pipeline, device provider.Provider) *Component {
	return &Component{pipeline: p, device: device}
}

func (c *Component) Name() string                   { return "recording" }
func (c *Component) Start(_ context.Context) error  { return nil }
func (c *Component) Stop(ctx context.Context) error { return c.pipeline.Shutdown(ctx) }

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: string(c.pipeline.Snapshot().State)}
	if !c.device.IsAvailable(ctx) {
		h.Status = component.StatusDegraded
		h.Message = c.device.Name() + " audio device unavailable"
	}
	return h
}
