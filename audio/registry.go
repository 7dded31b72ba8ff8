package audio

import (
	"fmt"

	"github.com/kbukum/voicedoc/provider"
)

// Registry maps device names to factories.
type Registry = provider.Registry[Device, Config]

// NewRegistry returns a registry with the file device registered. Platform
// devices register themselves (see package ffmpeg).
func NewRegistry() *Registry {
	reg := provider.NewRegistry[Device, Config]()
	reg.RegisterFactory(DeviceFile, func(cfg Config) (Device, error) {
		return NewFileDevice(cfg.File, cfg.ChunkSize, cfg.Timeslice), nil
	})
	return reg
}

// NewDevice creates the device named by cfg.Device.
func NewDevice(reg *Registry, cfg Config) (Device, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dev, err := reg.Create(cfg.Device, cfg)
	if err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}
	return dev, nil
}
