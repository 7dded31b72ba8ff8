package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config configures password hashing.
type Config struct {
	// BcryptCost is the bcrypt cost parameter (default: 12, range: 4-31).
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`

	// MinLength is the minimum password length (default: 8).
	MinLength int `yaml:"min_length" mapstructure:"min_length"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.MinLength == 0 {
		c.MinLength = 8
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d (got: %d)", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.MinLength < 1 || c.MinLength > maxLength {
		return fmt.Errorf("min_length must be between 1 and %d (got: %d)", maxLength, c.MinLength)
	}
	return nil
}

// NewHasher creates a Hasher from configuration.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	return NewBcryptHasher(WithCost(cfg.BcryptCost), WithMinLength(cfg.MinLength))
}
