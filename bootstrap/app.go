package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/voicedoc/component"
	"github.com/kbukum/voicedoc/logger"
)

// App runs a binary's components through one lifecycle:
//
//	start components -> OnStart -> OnConfigure -> ready check -> OnReady
//	-> serve until signal (Run) or run a task (RunTask)
//	-> OnStop -> stop components in reverse order
type App[C Config] struct {
	Name       string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := &appOptions{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	if log == nil {
		logger.Init(base.Logging, base.Name)
		log = logger.Get()
	}

	return &App[C]{
		Name:            base.Name,
		Cfg:             cfg,
		Components:      component.NewRegistry(log),
		Logger:          log,
		gracefulTimeout: o.gracefulTimeout,
	}, nil
}

// RegisterComponent adds a component. Register dependencies first.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that wires business objects once the
// infrastructure components are running.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var issues []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		issues = append(issues, detail)
	}
	if len(issues) > 0 {
		return fmt.Errorf("components not healthy: %v", issues)
	}
	return nil
}

// Run starts the app and blocks until SIGINT, SIGTERM or ctx is done, then
// shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}
	a.Logger.Info("ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the app, runs task and shuts down when it returns. The
// task's context is canceled on SIGINT or SIGTERM. The task error wins over
// a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting", logger.Fields("name", a.Name))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.ErrorFields("ready", err))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("started", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx is done.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		return nil
	}
}

// Shutdown runs OnStop hooks and stops all components.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.ErrorFields("stop", err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.ErrorFields("stop", err))
		shutdownErr = err
	}
	a.Logger.Info("shutdown complete")
	return shutdownErr
}
