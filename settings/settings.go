package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/voicedoc/encryption"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/kvstore"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/validation"
)

// Key is the single namespaced key holding the serialized Configuration.
const Key = "document-generator-config"

// sealedPrefix marks an API key sealed by an Encryptor.
const sealedPrefix = "sealed:"

// Configuration is the one-time setup required before recording.
type Configuration struct {
	TranscriptionAPIKey string `json:"transcriptionApiKey" validate:"required,startswith=sk-"`
	DeliveryWebhookURL  string `json:"deliveryWebhookUrl" validate:"required,url"`
}

// Validate checks both fields. Failures are CONFIG_VALIDATION errors.
func (c Configuration) Validate() error {
	return validation.ValidateConfig(c)
}

// MaskedKey returns the API key with all but its prefix and last four
// characters hidden.
func (c Configuration) MaskedKey() string {
	k := c.TranscriptionAPIKey
	if len(k) <= 7 {
		return "sk-****"
	}
	return k[:3] + "****" + k[len(k)-4:]
}

// Store owns the Configuration. It is loaded once at startup, then served
// from memory and written through on save.
type Store struct {
	kv  kvstore.Store
	enc encryption.Encryptor
	log *logger.Logger

	mu      sync.RWMutex
	current *Configuration
}

// Option configures a Store.
type Option func(*Store)

// WithEncryptor seals the API key before it is written. Keys saved in the
// clear are still read and get sealed on the next save.
func WithEncryptor(enc encryption.Encryptor) Option {
	return func(s *Store) { s.enc = enc }
}

// NewStore creates a Store over kv. Call Load before Current.
func NewStore(kv kvstore.Store, log *logger.Logger, opts ...Option) *Store {
	s := &Store{kv: kv, log: log.WithComponent("settings")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the saved Configuration. A missing or unreadable entry leaves
// the store unconfigured; only backend failures are returned.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if !ok {
		return nil
	}
	var cfg Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.log.Warn("ignoring unreadable saved configuration", logger.ErrorFields("load", err))
		return nil
	}
	if cfg.TranscriptionAPIKey, err = s.open(cfg.TranscriptionAPIKey); err != nil {
		s.log.Warn("ignoring sealed configuration", logger.ErrorFields("load", err))
		return nil
	}
	if err := cfg.Validate(); err != nil {
		s.log.Warn("ignoring invalid saved configuration", logger.ErrorFields("load", err))
		return nil
	}
	s.current = &cfg
	return nil
}

// Save validates cfg and persists it. A rejected Configuration persists
// nothing and leaves the previous one in place.
func (s *Store) Save(ctx context.Context, cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	stored := cfg
	if s.enc != nil {
		sealed, err := s.enc.Seal(cfg.TranscriptionAPIKey)
		if err != nil {
			return errors.Internal(fmt.Errorf("seal api key: %w", err))
		}
		stored.TranscriptionAPIKey = sealedPrefix + sealed
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return errors.Internal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, Key, string(raw)); err != nil {
		return errors.Internal(fmt.Errorf("save configuration: %w", err))
	}
	s.current = &cfg
	s.log.Info("configuration saved", logger.Fields("webhook", cfg.DeliveryWebhookURL))
	return nil
}

// Current returns the loaded Configuration, if any.
func (s *Store) Current() (Configuration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Configuration{}, false
	}
	return *s.current, true
}

// Require returns the Configuration or a CONFIG_VALIDATION error when setup
// has not happened.
func (s *Store) Require() (Configuration, error) {
	cfg, ok := s.Current()
	if !ok {
		return Configuration{}, errors.ConfigMissing()
	}
	return cfg, nil
}

// Clear deletes the saved Configuration.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, Key); err != nil {
		return errors.Internal(fmt.Errorf("clear configuration: %w", err))
	}
	s.current = nil
	s.log.Info("configuration cleared")
	return nil
}

func (s *Store) open(key string) (string, error) {
	sealed, ok := strings.CutPrefix(key, sealedPrefix)
	if !ok {
		return key, nil
	}
	if s.enc == nil {
		return "", fmt.Errorf("api key is sealed and no encryption key is configured")
	}
	return s.enc.Open(sealed)
}
