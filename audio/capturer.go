package audio

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/provider"
)

// Capturer records one span at a time from a Device. The device is acquired
// on Start and released exactly once per span: on Stop, or as soon as the
// track fails.
type Capturer struct {
	device      Device
	constraints Constraints
	log         *logger.Logger

	mu     sync.Mutex
	active *capture
}

type capture struct {
	track     Track
	log       *logger.Logger
	startedAt time.Time
	done      chan struct{}

	mu     sync.Mutex
	chunks [][]byte
	err    error

	releaseOnce sync.Once
}

// NewCapturer creates a Capturer over device with the default constraints.
func NewCapturer(device Device, log *logger.Logger) *Capturer {
	return &Capturer{
		device:      device,
		constraints: DefaultConstraints(),
		log:         log.WithComponent("audio"),
	}
}

// WithConstraints overrides the constraints requested on Start.
func (c *Capturer) WithConstraints(con Constraints) *Capturer {
	c.constraints = con
	return c
}

// Start opens the device and begins collecting chunks in the background.
func (c *Capturer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return errors.InvalidState("start capture", "capturing")
	}

	track, err := c.device.Open(ctx, c.constraints)
	if err != nil {
		c.log.Warn("microphone access failed", logger.ErrorFields("open", err))
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.DeviceUnavailable(err)
	}

	cp := &capture{track: track, log: c.log, startedAt: time.Now(), done: make(chan struct{})}
	c.active = cp
	go c.collect(cp)

	c.log.Info("capture started", logger.Fields(logger.FieldProvider, c.device.Name()))
	return nil
}

func (c *Capturer) collect(cp *capture) {
	defer close(cp.done)
	err := provider.ForEach(context.Background(), cp.track, func(chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		cp.mu.Lock()
		cp.chunks = append(cp.chunks, bytes.Clone(chunk))
		cp.mu.Unlock()
		return nil
	})
	if err != nil {
		cp.mu.Lock()
		cp.err = err
		cp.mu.Unlock()
		c.log.Error("capture failed", logger.ErrorFields("collect", err))
		cp.release()
	}
}

// Stop finalizes the span, releases the device and returns the chunks
// concatenated into one payload. The device is released even when Stop
// returns an error.
func (c *Capturer) Stop(ctx context.Context) (*Payload, error) {
	c.mu.Lock()
	cp := c.active
	c.active = nil
	c.mu.Unlock()
	if cp == nil {
		return nil, errors.InvalidState("stop capture", "idle")
	}
	defer cp.release()

	if err := cp.track.Finish(); err != nil {
		c.log.Warn("finish track", logger.ErrorFields("finish", err))
	}
	select {
	case <-cp.done:
	case <-ctx.Done():
		return nil, errors.DeviceUnavailable(ctx.Err())
	}

	cp.mu.Lock()
	chunks, captureErr := cp.chunks, cp.err
	cp.mu.Unlock()

	if captureErr != nil && len(chunks) == 0 {
		if _, ok := errors.AsAppError(captureErr); ok {
			return nil, captureErr
		}
		return nil, errors.DeviceUnavailable(captureErr)
	}

	payload := &Payload{
		Data:       bytes.Join(chunks, nil),
		MIMEType:   c.device.MIMEType(),
		CapturedAt: time.Now().UTC(),
		Chunks:     len(chunks),
	}
	c.log.Info("capture stopped", logger.Fields(
		"chunks", payload.Chunks,
		logger.FieldBytes, payload.Size(),
		logger.FieldDuration, time.Since(cp.startedAt).Milliseconds(),
	))
	return payload, nil
}

// Active reports whether a span is being recorded.
func (c *Capturer) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Chunks returns the number of chunks collected in the current span.
func (c *Capturer) Chunks() int {
	c.mu.Lock()
	cp := c.active
	c.mu.Unlock()
	if cp == nil {
		return 0
	}
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return len(cp.chunks)
}

func (cp *capture) release() {
	cp.releaseOnce.Do(func() {
		if err := cp.track.Close(); err != nil {
			cp.log.Warn("release device", logger.ErrorFields("close", err))
			return
		}
		cp.log.Debug("device released")
	})
}
