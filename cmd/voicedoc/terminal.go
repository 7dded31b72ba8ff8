package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/identity"
	"github.com/kbukum/voicedoc/recording"
	"github.com/kbukum/voicedoc/settings"
)

type recorder interface {
	Snapshot() recording.Snapshot
	Start(ctx context.Context) error
	Stop(ctx context.Context) (<-chan recording.Snapshot, error)
	Reset() error
}

type configStore interface {
	Current() (settings.Configuration, bool)
	Save(ctx context.Context, cfg settings.Configuration) error
}

// terminal drives one signed-in user through setup and recording cycles on
// a line-oriented console.
type terminal struct {
	identity identity.Provider
	configs  configStore
	recorder recorder
	out      io.Writer
	lines    <-chan string
}

func newTerminal(id identity.Provider, configs configStore, rec recorder, in io.Reader, out io.Writer) *terminal {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()
	return &terminal{identity: id, configs: configs, recorder: rec, out: out, lines: lines}
}

// run returns nil when input ends or the user quits.
func (t *terminal) run(ctx context.Context) error {
	if err := t.signIn(ctx); err != nil {
		return ignoreEOF(err)
	}
	if err := t.setup(ctx); err != nil {
		return ignoreEOF(err)
	}
	for {
		snap := t.recorder.Snapshot()
		switch snap.State {
		case recording.Idle:
			t.printf("[enter] record  [q] quit\n")
		case recording.Recording:
			t.printf("recording... [enter] stop\n")
		case recording.Done:
			t.printf("[enter] new recording  [q] quit\n")
		}

		line, err := t.read(ctx, "> ")
		if err != nil {
			return ignoreEOF(err)
		}
		if line == "q" {
			return nil
		}
		if line != "" && line != "r" {
			continue
		}

		switch snap.State {
		case recording.Idle:
			if err := t.recorder.Start(ctx); err != nil {
				t.printf("%s\n", userMessage(err))
			}
		case recording.Recording:
			if err := t.finish(ctx); err != nil {
				return ignoreEOF(err)
			}
		case recording.Done:
			if err := t.recorder.Reset(); err != nil {
				t.printf("%s\n", userMessage(err))
			}
		}
	}
}

func (t *terminal) signIn(ctx context.Context) error {
	if s := t.identity.CurrentSession(); s != nil {
		t.printf("signed in as %s\n", s.Email)
		return nil
	}
	for {
		choice, err := t.read(ctx, "[l]ogin or [r]egister: ")
		if err != nil {
			return err
		}
		email, err := t.read(ctx, "email: ")
		if err != nil {
			return err
		}
		pw, err := t.read(ctx, "password: ")
		if err != nil {
			return err
		}
		if choice == "r" {
			if err := t.identity.Register(ctx, email, pw); err != nil {
				t.printf("%s\n", userMessage(err))
				continue
			}
		}
		if err := t.identity.Authenticate(ctx, email, pw); err != nil {
			t.printf("%s\n", userMessage(err))
			continue
		}
		t.printf("signed in as %s\n", t.identity.CurrentSession().Email)
		return nil
	}
}

func (t *terminal) setup(ctx context.Context) error {
	if cfg, ok := t.configs.Current(); ok {
		t.printf("using API key %s, webhook %s\n", cfg.MaskedKey(), cfg.DeliveryWebhookURL)
		return nil
	}
	t.printf("one-time setup\n")
	for {
		key, err := t.read(ctx, "transcription API key: ")
		if err != nil {
			return err
		}
		hook, err := t.read(ctx, "delivery webhook URL: ")
		if err != nil {
			return err
		}
		err = t.configs.Save(ctx, settings.Configuration{TranscriptionAPIKey: key, DeliveryWebhookURL: hook})
		if err == nil {
			t.printf("configuration saved\n")
			return nil
		}
		t.printf("%s\n", userMessage(err))
	}
}

// finish stops the recording and prints the cycle's outcome.
func (t *terminal) finish(ctx context.Context) error {
	final, err := t.recorder.Stop(ctx)
	if err != nil {
		t.printf("%s\n", userMessage(err))
		return nil
	}
	t.printf("processing...\n")
	select {
	case snap := <-final:
		t.printResult(snap)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *terminal) printResult(s recording.Snapshot) {
	if s.Transcript != "" {
		t.printf("\n%s\n\n", s.Transcript)
	}
	if s.Delivery != nil && s.Delivery.Message != "" {
		t.printf("%s\n", s.Delivery.Message)
	}
	if s.Error != "" {
		t.printf("%s\n", s.Error)
	}
}

func (t *terminal) read(ctx context.Context, prompt string) (string, error) {
	t.printf("%s", prompt)
	select {
	case line, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *terminal) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

func userMessage(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func ignoreEOF(err error) error {
	if err == io.EOF || err == context.Canceled {
		return nil
	}
	return err
}
