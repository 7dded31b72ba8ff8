package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/provider"
	"github.com/kbukum/voicedoc/redis"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Store is a durable key to string mapping.
type Store interface {
	provider.Provider
	// Get returns the value for key. A missing key is ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string       `yaml:"backend" mapstructure:"backend"`
	Path    string       `yaml:"path" mapstructure:"path"`
	Redis   redis.Config `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults defaults to a JSON file under the user config directory.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Backend == BackendFile && c.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		c.Path = filepath.Join(dir, "voicedoc", "store.json")
	}
	if c.Backend == BackendRedis {
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the selected backend's settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Path == "" {
			return fmt.Errorf("store.path is required for the file backend")
		}
	case BackendRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("store.redis: %w", err)
		}
	default:
		return fmt.Errorf("store.backend must be one of [memory, file, redis] (got: %s)", c.Backend)
	}
	return nil
}

// NewRegistry returns a registry with the built-in backends.
func NewRegistry(log *logger.Logger) *provider.Registry[Store, Config] {
	reg := provider.NewRegistry[Store, Config]()
	reg.RegisterFactory(BackendMemory, func(Config) (Store, error) {
		return NewMemory(), nil
	})
	reg.RegisterFactory(BackendFile, func(cfg Config) (Store, error) {
		return OpenFile(cfg.Path)
	})
	reg.RegisterFactory(BackendRedis, func(cfg Config) (Store, error) {
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return NewRedis(client), nil
	})
	return reg
}

// New opens the backend named by cfg.Backend.
func New(cfg Config, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := NewRegistry(log).Create(cfg.Backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	log.WithComponent("kvstore").Info("store opened", logger.Fields(logger.FieldProvider, cfg.Backend))
	return store, nil
}
