package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Config configures session token signing.
type Config struct {
	// Secret is the HMAC key. When empty the caller must supply one
	// (the identity service generates a per-process key).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is one of HS256, HS384 or HS512 (default: HS256).
	Method string `yaml:"method" mapstructure:"method"`

	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// AccessTokenTTL is how long a session token stays valid (default: 24h).
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 24 * time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.signingMethod() == nil {
		return fmt.Errorf("unsupported signing method %q", c.Method)
	}
	if len(c.Secret) < 16 {
		return errors.New("secret must be at least 16 characters")
	}
	if c.AccessTokenTTL < 0 {
		return errors.New("access_token_ttl must not be negative")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case "HS256":
		return gojwt.SigningMethodHS256
	case "HS384":
		return gojwt.SigningMethodHS384
	case "HS512":
		return gojwt.SigningMethodHS512
	default:
		return nil
	}
}
