// Package ffmpeg captures the platform microphone through an ffmpeg
// subprocess that encodes webm/opus to its standard output.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/voicedoc/audio"
	apperrors "github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/process"
)

// startupProbe is how long Open waits for ffmpeg to either produce output or
// fail while opening the input.
const startupProbe = 750 * time.Millisecond

// Device is an audio.Device backed by ffmpeg.
type Device struct {
	binary    string
	format    string
	input     string
	timeslice time.Duration
	log       *logger.Logger
}

var _ audio.Device = (*Device)(nil)

// Register adds the ffmpeg device to reg.
func Register(reg *audio.Registry, log *logger.Logger) {
	reg.RegisterFactory(audio.DeviceFFmpeg, func(cfg audio.Config) (audio.Device, error) {
		return New(cfg, log), nil
	})
}

// New creates an ffmpeg device from cfg.
func New(cfg audio.Config, log *logger.Logger) *Device {
	cfg.ApplyDefaults()
	return &Device{
		binary:    cfg.Binary,
		format:    cfg.Format,
		input:     cfg.Input,
		timeslice: cfg.Timeslice,
		log:       log.WithComponent("ffmpeg"),
	}
}

func (d *Device) Name() string     { return audio.DeviceFFmpeg }
func (d *Device) MIMEType() string { return audio.MIMEWebM }

// IsAvailable reports whether ffmpeg runs.
func (d *Device) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := process.Run(ctx, process.Command{Binary: d.binary, Args: []string{"-hide_banner", "-version"}})
	return err == nil
}

// Args returns the ffmpeg arguments for c.
func (d *Device) Args(c audio.Constraints) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", d.format, "-i", d.input,
		"-ac", "1",
	}
	if c.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(c.SampleRate))
	}
	if c.NoiseSuppression {
		args = append(args, "-af", "afftdn")
	}
	return append(args, "-c:a", "libopus", "-f", "webm", "pipe:1")
}

// Open starts ffmpeg and waits briefly for it to either stream or fail.
func (d *Device) Open(ctx context.Context, c audio.Constraints) (audio.Track, error) {
	if c.EchoCancellation {
		d.log.Debug("echo cancellation is not supported by the ffmpeg device")
	}
	if _, err := exec.LookPath(d.binary); err != nil {
		return nil, apperrors.DeviceUnavailable(err)
	}

	// The process outlives the request that opened it.
	h, err := process.Start(context.WithoutCancel(ctx), process.Command{
		Binary:      d.binary,
		Args:        d.Args(c),
		GracePeriod: 3 * time.Second,
	})
	if err != nil {
		return nil, apperrors.DeviceUnavailable(err)
	}
	t := newTrack(h, d.timeslice)

	select {
	case <-t.firstData:
	case <-time.After(startupProbe):
	case <-t.eof:
		_, werr := h.Wait()
		return nil, classify(h.Stderr(), werr)
	}
	d.log.Debug("ffmpeg input opened", logger.Fields("format", d.format, "input", d.input))
	return t, nil
}

// classify maps ffmpeg's error output to a capture error.
func classify(stderr []byte, err error) error {
	msg := strings.ToLower(string(stderr))
	cause := err
	line := lastLine(stderr)
	switch {
	case line != "" && err != nil:
		cause = fmt.Errorf("%s: %w", line, err)
	case line != "":
		cause = errors.New(line)
	case err == nil:
		cause = errors.New("ffmpeg exited before producing audio")
	}
	for _, marker := range []string{"permission denied", "not authorized", "operation not permitted", "access denied"} {
		if strings.Contains(msg, marker) {
			return apperrors.PermissionDenied(cause)
		}
	}
	return apperrors.DeviceUnavailable(cause)
}

func lastLine(b []byte) string {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}

type track struct {
	h         *process.Handle
	timeslice time.Duration

	mu        sync.Mutex
	pending   bytes.Buffer
	readErr   error
	firstOnce sync.Once
	firstData chan struct{}
	eof       chan struct{}

	finishOnce sync.Once
	finishing  atomic.Bool
	closeOnce  sync.Once
}

func newTrack(h *process.Handle, timeslice time.Duration) *track {
	t := &track{
		h:         h,
		timeslice: timeslice,
		firstData: make(chan struct{}),
		eof:       make(chan struct{}),
	}
	go t.read()
	return t
}

func (t *track) read() {
	defer close(t.eof)
	buf := make([]byte, 32<<10)
	for {
		n, err := t.h.Stdout().Read(buf)
		if n > 0 {
			t.mu.Lock()
			t.pending.Write(buf[:n])
			t.mu.Unlock()
			t.firstOnce.Do(func() { close(t.firstData) })
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.mu.Lock()
				t.readErr = err
				t.mu.Unlock()
			}
			return
		}
	}
}

// Next returns whatever ffmpeg produced during the last timeslice.
func (t *track) Next(ctx context.Context) ([]byte, bool, error) {
	timer := time.NewTimer(t.timeslice)
	defer timer.Stop()
	ended := false
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-timer.C:
	case <-t.eof:
		ended = true
	}

	t.mu.Lock()
	chunk := bytes.Clone(t.pending.Bytes())
	t.pending.Reset()
	readErr := t.readErr
	t.mu.Unlock()

	if len(chunk) > 0 {
		return chunk, true, nil
	}
	if !ended {
		return nil, true, nil
	}
	if readErr != nil {
		return nil, false, apperrors.DeviceUnavailable(readErr)
	}
	if _, err := t.h.Wait(); err != nil && !t.finished() {
		return nil, false, classify(t.h.Stderr(), err)
	}
	return nil, false, nil
}

// Finish interrupts ffmpeg so it flushes the container and exits.
func (t *track) Finish() error {
	var err error
	t.finishOnce.Do(func() {
		t.finishing.Store(true)
		err = t.h.Interrupt()
	})
	return err
}

func (t *track) finished() bool { return t.finishing.Load() }

// Close stops ffmpeg if it is still running and reaps it.
func (t *track) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if ferr := t.Finish(); ferr != nil {
			err = ferr
		}
		<-t.eof
		if _, werr := t.h.Wait(); werr != nil && !t.finished() {
			err = werr
		}
	})
	return err
}
