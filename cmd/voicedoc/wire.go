package main

import (
	"context"

	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/audio/ffmpeg"
	"github.com/kbukum/voicedoc/bootstrap"
	"github.com/kbukum/voicedoc/console"
	"github.com/kbukum/voicedoc/delivery"
	"github.com/kbukum/voicedoc/encryption"
	"github.com/kbukum/voicedoc/identity"
	"github.com/kbukum/voicedoc/kvstore"
	"github.com/kbukum/voicedoc/observability"
	"github.com/kbukum/voicedoc/recording"
	"github.com/kbukum/voicedoc/server"
	"github.com/kbukum/voicedoc/settings"
	"github.com/kbukum/voicedoc/sse"
	"github.com/kbukum/voicedoc/transcription"
	"github.com/kbukum/voicedoc/transcription/openai"
	"github.com/kbukum/voicedoc/transcription/openaisdk"
	"github.com/kbukum/voicedoc/transcription/whisper"
	"github.com/kbukum/voicedoc/version"
)

type app = bootstrap.App[*AppConfig]

// services are the business objects shared by serve and record.
type services struct {
	settings *settings.Store
	identity *identity.Service
	pipeline *recording.Pipeline
	metrics  *observability.Metrics
}

// newApp builds the app with its store component registered.
func newApp(cfg *AppConfig) (*app, kvstore.Store, error) {
	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.New(a.Cfg.Store, a.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.RegisterComponent(kvstore.NewComponent(store)); err != nil {
		return nil, nil, err
	}
	return a, store, nil
}

// wireServices builds the pipeline and its collaborators and registers the
// recording component. It runs in OnConfigure, once the store is open.
func wireServices(ctx context.Context, a *app, store kvstore.Store) (*services, error) {
	cfg, log := a.Cfg, a.Logger

	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: version.GetVersionInfo().Version,
	})
	if err != nil {
		return nil, err
	}
	a.OnStop(bootstrap.Hook(shutdown))
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	var opts []settings.Option
	if cfg.Encryption.Enabled() {
		enc, err := encryption.New(cfg.Encryption)
		if err != nil {
			return nil, err
		}
		opts = append(opts, settings.WithEncryptor(enc))
	}
	configs := settings.NewStore(store, log, opts...)
	if err := configs.Load(ctx); err != nil {
		return nil, err
	}
	id, err := identity.New(cfg.Identity, store, log)
	if err != nil {
		return nil, err
	}

	treg := transcription.NewRegistry()
	openai.Register(treg)
	openaisdk.Register(treg)
	whisper.Register(treg)
	stt, err := transcription.New(treg, cfg.Transcription)
	if err != nil {
		return nil, err
	}

	areg := audio.NewRegistry()
	ffmpeg.Register(areg, log)
	device, err := audio.NewDevice(areg, cfg.Audio)
	if err != nil {
		return nil, err
	}

	webhook, err := delivery.New(cfg.Delivery, log)
	if err != nil {
		return nil, err
	}

	pipeline, err := recording.New(
		audio.NewCapturer(device, log),
		transcription.NewClient(stt, log),
		webhook,
		configs,
		log,
		recording.WithTracer(observability.Tracer()),
		recording.WithMeter(observability.Meter()),
	)
	if err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(recording.NewComponent(pipeline, device)); err != nil {
		return nil, err
	}

	return &services{settings: configs, identity: id, pipeline: pipeline, metrics: metrics}, nil
}

// wireConsole mounts the console API on a new HTTP server and registers it.
func wireConsole(a *app, svc *services, hub *sse.Hub) error {
	cfg := a.Cfg
	srv := server.New(cfg.Server, a.Logger)
	srv.ApplyDefaults(cfg.Name, a.Components.HealthAll, svc.metrics)

	h := console.New(svc.identity, svc.settings, svc.pipeline, hub, a.Logger)
	h.Routes(srv.GinEngine(), cfg.Server.LoginRate)
	h.Bridge()
	a.OnStop(func(context.Context) error {
		h.Close()
		return nil
	})

	return a.RegisterComponent(server.NewComponent(srv))
}
