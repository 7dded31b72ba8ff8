package observability

import (
	"context"
	"errors"
)

// Shutdown flushes and stops the exporters installed by Setup.
type Shutdown func(ctx context.Context) error

// Setup installs the tracer and meter providers when cfg.Enabled. When
// disabled it returns a no-op Shutdown.
func Setup(ctx context.Context, cfg Config, res Resource) (Shutdown, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
