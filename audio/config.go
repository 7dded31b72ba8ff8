package audio

import (
	"fmt"
	"runtime"
	"time"
)

// Device names.
const (
	DeviceFFmpeg = "ffmpeg"
	DeviceFile   = "file"
)

// Config selects and configures the capture device.
type Config struct {
	// Device is "ffmpeg" (default) or "file".
	Device string `yaml:"device" mapstructure:"device"`

	// Binary is the ffmpeg executable (default: "ffmpeg").
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Format is the ffmpeg input format. Defaults to pulse on Linux and
	// avfoundation on macOS.
	Format string `yaml:"format" mapstructure:"format"`

	// Input is the ffmpeg input name (default: "default", or ":0" for
	// avfoundation).
	Input string `yaml:"input" mapstructure:"input"`

	// File is the recording replayed by the file device.
	File string `yaml:"file" mapstructure:"file"`

	// ChunkSize is the number of bytes the file device yields per timeslice.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"`

	// Timeslice is the chunk interval (default: 1s).
	Timeslice time.Duration `yaml:"timeslice" mapstructure:"timeslice"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Device == "" {
		c.Device = DeviceFFmpeg
	}
	if c.Binary == "" {
		c.Binary = "ffmpeg"
	}
	if c.Format == "" {
		c.Format = DefaultFormat(runtime.GOOS)
	}
	if c.Input == "" {
		if c.Format == "avfoundation" {
			c.Input = ":0"
		} else {
			c.Input = "default"
		}
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 16 << 10
	}
	if c.Timeslice == 0 {
		c.Timeslice = time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Device {
	case DeviceFFmpeg:
	case DeviceFile:
		if c.File == "" {
			return fmt.Errorf("audio.file is required for the file device")
		}
	default:
		return fmt.Errorf("audio.device must be one of [ffmpeg, file] (got: %s)", c.Device)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("audio.chunk_size must not be negative")
	}
	if c.Timeslice < 0 {
		return fmt.Errorf("audio.timeslice must not be negative")
	}
	return nil
}

// DefaultFormat returns the ffmpeg capture format for goos.
func DefaultFormat(goos string) string {
	if goos == "darwin" {
		return "avfoundation"
	}
	return "pulse"
}
