package audio

import (
	"context"
	"time"

	"github.com/kbukum/voicedoc/provider"
)

// MIMEWebM is the container produced by the built-in devices.
const MIMEWebM = "audio/webm"

// Constraints are requested when the microphone is opened.
type Constraints struct {
	EchoCancellation bool `json:"echoCancellation"`
	NoiseSuppression bool `json:"noiseSuppression"`
	SampleRate       int  `json:"sampleRate"`
}

// DefaultConstraints returns echo cancellation and noise suppression on at
// 16 kHz.
func DefaultConstraints() Constraints {
	return Constraints{EchoCancellation: true, NoiseSuppression: true, SampleRate: 16000}
}

// Device grants access to an audio input.
type Device interface {
	provider.Provider

	// Open acquires the input. Failures are PERMISSION_DENIED or
	// DEVICE_UNAVAILABLE errors.
	Open(ctx context.Context, c Constraints) (Track, error)

	// MIMEType is the type of the bytes the device's tracks yield.
	MIMEType() string
}

// Track is an open input yielding one encoded chunk per timeslice. Next may
// return empty chunks. After Finish, Next yields whatever is buffered and
// then reports exhaustion. Close releases the device.
type Track interface {
	provider.Iterator[[]byte]
	Finish() error
}

// Payload is one recording span concatenated into a single blob.
type Payload struct {
	Data       []byte
	MIMEType   string
	CapturedAt time.Time
	Chunks     int
}

// Size returns the payload length in bytes.
func (p *Payload) Size() int { return len(p.Data) }
