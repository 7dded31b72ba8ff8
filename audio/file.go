package audio

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/kbukum/voicedoc/errors"
)

// FileDevice replays a recorded file as if it were a microphone. Each
// timeslice yields the next chunkSize bytes; once the file is exhausted,
// Next waits for Finish.
type FileDevice struct {
	path      string
	chunkSize int
	interval  time.Duration
}

var _ Device = (*FileDevice)(nil)

// NewFileDevice creates a file-backed device.
func NewFileDevice(path string, chunkSize int, interval time.Duration) *FileDevice {
	if chunkSize <= 0 {
		chunkSize = 16 << 10
	}
	return &FileDevice{path: path, chunkSize: chunkSize, interval: interval}
}

func (d *FileDevice) Name() string     { return DeviceFile }
func (d *FileDevice) MIMEType() string { return MIMEWebM }

func (d *FileDevice) IsAvailable(_ context.Context) bool {
	info, err := os.Stat(d.path)
	return err == nil && info.Mode().IsRegular()
}

// Open reads the whole file. Constraints are ignored.
func (d *FileDevice) Open(_ context.Context, _ Constraints) (Track, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.PermissionDenied(err)
		}
		return nil, errors.DeviceUnavailable(err)
	}
	return &fileTrack{data: data, size: d.chunkSize, interval: d.interval, finished: make(chan struct{})}, nil
}

type fileTrack struct {
	data     []byte
	size     int
	interval time.Duration

	mu         sync.Mutex
	pos        int
	finishOnce sync.Once
	finished   chan struct{}
}

func (t *fileTrack) Next(ctx context.Context) ([]byte, bool, error) {
	if t.interval > 0 {
		timer := time.NewTimer(t.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-t.finished:
		case <-timer.C:
		}
	}

	t.mu.Lock()
	if t.pos < len(t.data) {
		end := min(t.pos+t.size, len(t.data))
		chunk := t.data[t.pos:end]
		t.pos = end
		t.mu.Unlock()
		return chunk, true, nil
	}
	t.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-t.finished:
		return nil, false, nil
	}
}

func (t *fileTrack) Finish() error {
	t.finishOnce.Do(func() { close(t.finished) })
	return nil
}

func (t *fileTrack) Close() error {
	return t.Finish()
}
