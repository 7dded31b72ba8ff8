// Command voicedoc records dictation, transcribes it and forwards the
// transcript to a webhook.
//
//	voicedoc serve  [-config file] [-env file]   run the HTTP console
//	voicedoc record [-config file] [-env file]   record from this terminal
//	voicedoc version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/voicedoc/sse"
	"github.com/kbukum/voicedoc/version"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "expected 'serve', 'record' or 'version'")
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = withConfig(os.Args[2:], serve)
	case "record":
		err = withConfig(os.Args[2:], record)
	case "version":
		fmt.Println(version.GetVersionInfo().String())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withConfig(args []string, run func(context.Context, *AppConfig) error) error {
	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	configFile := fs.String("config", "", "path to config.yml")
	envFile := fs.String("env", "", "path to a .env file")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		return err
	}
	return run(context.Background(), cfg)
}

// serve runs the console until interrupted.
func serve(ctx context.Context, cfg *AppConfig) error {
	a, store, err := newApp(cfg)
	if err != nil {
		return err
	}
	events := sse.NewComponent(a.Logger)
	if err := a.RegisterComponent(events); err != nil {
		return err
	}

	a.OnConfigure(func(ctx context.Context, a *app) error {
		svc, err := wireServices(ctx, a, store)
		if err != nil {
			return err
		}
		if err := wireConsole(a, svc, events.Hub()); err != nil {
			return err
		}
		return a.Components.StartAll(ctx)
	})
	return a.Run(ctx)
}

// record runs the terminal front end against the local pipeline.
func record(ctx context.Context, cfg *AppConfig) error {
	// stdout belongs to the prompt
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	a, store, err := newApp(cfg)
	if err != nil {
		return err
	}

	var svc *services
	a.OnConfigure(func(ctx context.Context, a *app) error {
		s, err := wireServices(ctx, a, store)
		if err != nil {
			return err
		}
		svc = s
		return a.Components.StartAll(ctx)
	})
	return a.RunTask(ctx, func(ctx context.Context) error {
		return newTerminal(svc.identity, svc.settings, svc.pipeline, os.Stdin, os.Stdout).run(ctx)
	})
}
