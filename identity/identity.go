package identity

import (
	"context"
	"time"

	"github.com/kbukum/voicedoc/auth/jwt"
	"github.com/kbukum/voicedoc/auth/password"
	"github.com/kbukum/voicedoc/event"
)

// UserPrefix namespaces user records in the key-value store.
const UserPrefix = "voicedoc:users:"

// EventType names a session change.
type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

// Session is the signed-in user. A nil *Session means nobody is signed in.
type Session struct {
	UserIdentifier string    `json:"userIdentifier"`
	Email          string    `json:"email"`
	SignedInAt     time.Time `json:"signedInAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Token          string    `json:"token,omitempty"`
}

// Event is published to session subscribers.
type Event struct {
	Type    EventType `json:"type"`
	Session *Session  `json:"session,omitempty"`
}

// Credentials are the register/login inputs.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Provider is the identity contract consumed by the console and terminal.
type Provider interface {
	Register(ctx context.Context, email, password string) error
	Authenticate(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	CurrentSession() *Session
	OnSessionChange(fn func(Event)) *event.Subscription
}

// Claims are carried in session tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SetDefaults fills the time and issuer claims before signing.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string) {
	c.IssuedAt = jwtDate(now)
	c.NotBefore = jwtDate(now)
	c.ExpiresAt = jwtDate(now.Add(ttl))
	if c.Issuer == "" {
		c.Issuer = issuer
	}
}

// Config configures the local identity provider.
type Config struct {
	Token    jwt.Config      `yaml:"token" mapstructure:"token"`
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Token.Issuer == "" {
		c.Token.Issuer = "voicedoc"
	}
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks the configuration. An empty token secret is allowed; a
// random one is generated at startup.
func (c *Config) Validate() error {
	if c.Token.Secret != "" {
		if err := c.Token.Validate(); err != nil {
			return err
		}
	}
	return c.Password.Validate()
}

type user struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
