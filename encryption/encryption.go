package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithms.
const (
	ChaCha20 = "chacha20-poly1305"
	AESGCM   = "aes-256-gcm"
)

// Config configures at-rest encryption. An empty Key disables it.
type Config struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm"`
}

// Enabled reports whether a key is set.
func (c *Config) Enabled() bool { return c.Key != "" }

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = ChaCha20
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case ChaCha20, AESGCM:
		return nil
	default:
		return fmt.Errorf("encryption.algorithm must be one of [%s, %s] (got: %s)", ChaCha20, AESGCM, c.Algorithm)
	}
}

// Encryptor seals and opens strings.
type Encryptor interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

type aead struct {
	cipher cipher.AEAD
}

// New creates the Encryptor selected by cfg.Algorithm.
func New(cfg Config) (Encryptor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("encryption.key is required")
	}
	key := sha256.Sum256([]byte(cfg.Key))

	var (
		c   cipher.AEAD
		err error
	)
	switch cfg.Algorithm {
	case AESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key[:]); err == nil {
			c, err = cipher.NewGCM(block)
		}
	default:
		c, err = chacha20poly1305.New(key[:])
	}
	if err != nil {
		return nil, fmt.Errorf("create %s cipher: %w", cfg.Algorithm, err)
	}
	return &aead{cipher: c}, nil
}

func (a *aead) Seal(plaintext string) (string, error) {
	nonce := make([]byte, a.cipher.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := a.cipher.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (a *aead) Open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	n := a.cipher.NonceSize()
	if len(data) < n {
		return "", fmt.Errorf("sealed value too short")
	}
	plain, err := a.cipher.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}
