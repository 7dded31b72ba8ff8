package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/logger"
)

func TestArgs(t *testing.T) {
	d := New(audio.Config{Format: "alsa", Input: "hw:0"}, logger.NewNop())
	got := strings.Join(d.Args(audio.DefaultConstraints()), " ")
	for _, want := range []string{"-f alsa -i hw:0", "-ac 1", "-ar 16000", "-af afftdn", "-c:a libopus -f webm pipe:1"} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}

	got = strings.Join(d.Args(audio.Constraints{}), " ")
	if strings.Contains(got, "afftdn") || strings.Contains(got, "-ar") {
		t.Errorf("unexpected filters in %q", got)
	}
}

func TestDefaultInputPerFormat(t *testing.T) {
	d := New(audio.Config{Format: "avfoundation"}, logger.NewNop())
	if d.input != ":0" {
		t.Errorf("input = %q", d.input)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		code   errors.ErrorCode
	}{
		{"permission", "[alsa] cannot open audio device default (Permission denied)\n", errors.ErrCodePermissionDenied},
		{"mac privacy", "Failed to get access: not authorized\n", errors.ErrCodePermissionDenied},
		{"no device", "default: No such file or directory\n", errors.ErrCodeDeviceUnavailable},
		{"silent exit", "", errors.ErrCodeDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify([]byte(tt.stderr), nil)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("classify = %v, want %s", err, tt.code)
			}
		})
	}
}

func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenReportsPermissionDenied(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "cannot open audio device (Permission denied)" >&2; exit 1`)
	d := New(audio.Config{Binary: bin}, logger.NewNop())

	_, err := d.Open(context.Background(), audio.DefaultConstraints())
	if !errors.HasCode(err, errors.ErrCodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
}

func TestOpenMissingBinary(t *testing.T) {
	d := New(audio.Config{Binary: filepath.Join(t.TempDir(), "nope")}, logger.NewNop())
	if d.IsAvailable(context.Background()) {
		t.Fatal("missing binary should be unavailable")
	}
	_, err := d.Open(context.Background(), audio.DefaultConstraints())
	if !errors.HasCode(err, errors.ErrCodeDeviceUnavailable) {
		t.Fatalf("expected DEVICE_UNAVAILABLE, got %v", err)
	}
}

func TestCaptureThroughCapturer(t *testing.T) {
	bin := fakeFFmpeg(t, `trap 'printf END; exit 0' INT
while true; do printf abc; sleep 0.02; done`)
	d := New(audio.Config{Binary: bin, Timeslice: 20 * time.Millisecond}, logger.NewNop())
	capt := audio.NewCapturer(d, logger.NewNop())

	ctx := context.Background()
	if err := capt.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	payload, err := capt.Stop(stopCtx)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !strings.HasPrefix(string(payload.Data), "abc") {
		t.Errorf("payload = %q", payload.Data)
	}
	if payload.MIMEType != audio.MIMEWebM {
		t.Errorf("MIMEType = %q", payload.MIMEType)
	}
}
