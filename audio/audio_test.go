package audio

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/logger"
)

// fakeDevice yields its chunks and then waits for Finish.
type fakeDevice struct {
	chunks   [][]byte
	openErr  error
	failWith error

	mu       sync.Mutex
	opened   int
	releases atomic.Int32
}

func (d *fakeDevice) Name() string                       { return "fake" }
func (d *fakeDevice) IsAvailable(_ context.Context) bool { return true }
func (d *fakeDevice) MIMEType() string                   { return MIMEWebM }

func (d *fakeDevice) Open(_ context.Context, _ Constraints) (Track, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.mu.Lock()
	d.opened++
	d.mu.Unlock()
	return &fakeTrack{dev: d, chunks: d.chunks, finished: make(chan struct{})}, nil
}

type fakeTrack struct {
	dev      *fakeDevice
	chunks   [][]byte
	once     sync.Once
	finished chan struct{}
}

func (t *fakeTrack) Next(ctx context.Context) ([]byte, bool, error) {
	if len(t.chunks) > 0 {
		c := t.chunks[0]
		t.chunks = t.chunks[1:]
		return c, true, nil
	}
	if t.dev.failWith != nil {
		return nil, false, t.dev.failWith
	}
	select {
	case <-t.finished:
		return nil, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (t *fakeTrack) Finish() error {
	t.once.Do(func() { close(t.finished) })
	return nil
}

func (t *fakeTrack) Close() error {
	t.dev.releases.Add(1)
	return t.Finish()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCapturerConcatenatesChunks(t *testing.T) {
	dev := &fakeDevice{chunks: [][]byte{[]byte("c1"), {}, []byte("c2")}}
	capt := NewCapturer(dev, logger.NewNop())
	ctx := context.Background()

	if err := capt.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !capt.Active() {
		t.Error("expected active capture")
	}
	waitFor(t, func() bool { return capt.Chunks() == 2 })

	payload, err := capt.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if string(payload.Data) != "c1c2" || payload.Chunks != 2 {
		t.Errorf("payload = %q (%d chunks)", payload.Data, payload.Chunks)
	}
	if payload.MIMEType != MIMEWebM || payload.CapturedAt.IsZero() {
		t.Errorf("payload metadata = %+v", payload)
	}
	if n := dev.releases.Load(); n != 1 {
		t.Errorf("releases = %d, want 1", n)
	}
	if capt.Active() {
		t.Error("capture should be inactive after Stop")
	}
}

func TestCapturerStartErrors(t *testing.T) {
	tests := []struct {
		name    string
		openErr error
		code    errors.ErrorCode
	}{
		{"permission", errors.PermissionDenied(stderrors.New("denied")), errors.ErrCodePermissionDenied},
		{"plain error", stderrors.New("no input"), errors.ErrCodeDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capt := NewCapturer(&fakeDevice{openErr: tt.openErr}, logger.NewNop())
			err := capt.Start(context.Background())
			if !errors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
			if capt.Active() {
				t.Error("failed start must not leave an active capture")
			}
		})
	}
}

func TestCapturerRejectsDoubleStartAndIdleStop(t *testing.T) {
	dev := &fakeDevice{}
	capt := NewCapturer(dev, logger.NewNop())
	ctx := context.Background()

	if _, err := capt.Stop(ctx); !errors.HasCode(err, errors.ErrCodeInvalidState) {
		t.Errorf("Stop while idle: %v", err)
	}
	if err := capt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := capt.Start(ctx); !errors.HasCode(err, errors.ErrCodeInvalidState) {
		t.Errorf("second Start: %v", err)
	}
	if _, err := capt.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if dev.opened != 1 || dev.releases.Load() != 1 {
		t.Errorf("opened=%d releases=%d", dev.opened, dev.releases.Load())
	}
}

func TestCapturerReleasesOnceAfterTrackFailure(t *testing.T) {
	dev := &fakeDevice{failWith: stderrors.New("unplugged")}
	capt := NewCapturer(dev, logger.NewNop())
	ctx := context.Background()

	if err := capt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return dev.releases.Load() == 1 })

	_, err := capt.Stop(ctx)
	if !errors.HasCode(err, errors.ErrCodeDeviceUnavailable) {
		t.Errorf("expected DEVICE_UNAVAILABLE, got %v", err)
	}
	if n := dev.releases.Load(); n != 1 {
		t.Errorf("releases = %d, want 1", n)
	}
}

func TestFileDeviceReplaysInChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatal(err)
	}
	dev := NewFileDevice(path, 4, 0)
	if !dev.IsAvailable(context.Background()) {
		t.Fatal("file device should be available")
	}
	capt := NewCapturer(dev, logger.NewNop())
	ctx := context.Background()

	if err := capt.Start(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return capt.Chunks() == 3 })
	payload, err := capt.Stop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(payload.Data) != "0123456789" || payload.Chunks != 3 {
		t.Errorf("payload = %q (%d chunks)", payload.Data, payload.Chunks)
	}
}

func TestFileDeviceMissingFile(t *testing.T) {
	dev := NewFileDevice(filepath.Join(t.TempDir(), "missing.webm"), 0, 0)
	if _, err := dev.Open(context.Background(), DefaultConstraints()); !errors.HasCode(err, errors.ErrCodeDeviceUnavailable) {
		t.Errorf("expected DEVICE_UNAVAILABLE, got %v", err)
	}
}

func TestRegistryAndConfig(t *testing.T) {
	reg := NewRegistry()
	if _, err := NewDevice(reg, Config{Device: DeviceFile}); err == nil {
		t.Error("file device without a path should fail validation")
	}
	if _, err := NewDevice(reg, Config{Device: "tape"}); err == nil {
		t.Error("unknown device should fail validation")
	}
	if _, err := NewDevice(reg, Config{}); err == nil {
		t.Error("ffmpeg is not registered in the base registry")
	}
	dev, err := NewDevice(reg, Config{Device: DeviceFile, File: "x.webm"})
	if err != nil || dev.Name() != DeviceFile {
		t.Errorf("NewDevice = %v, %v", dev, err)
	}
	if DefaultFormat("darwin") != "avfoundation" || DefaultFormat("linux") != "pulse" {
		t.Error("unexpected default formats")
	}
}
