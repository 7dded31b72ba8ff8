// Package jwt issues and parses HMAC-signed session tokens for a caller-defined
// claims type.
//
//	type Claims struct {
//	    jwt.RegisteredClaims
//	    Email string `json:"email"`
//	}
//
//	svc, err := jwt.NewService(cfg, func() *Claims { return &Claims{} })
//	token, err := svc.GenerateAccess(&Claims{Email: "a@b.c"})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// RegisteredClaims is re-exported so callers need not import golang-jwt.
type RegisteredClaims = gojwt.RegisteredClaims

// Service provides token generation and parsing for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
}

// NewService creates a new token service. newEmpty returns a zero-value
// instance of T for parsing.
func NewService[T gojwt.Claims](cfg Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: cfg, newEmpty: newEmpty}, nil
}

// TTL returns the configured access token lifetime.
func (s *Service[T]) TTL() time.Duration { return s.cfg.AccessTokenTTL }

// Generate signs claims as-is.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccess fills the standard time and issuer claims, then signs.
// Claims types opt in by implementing SetDefaults.
func (s *Service[T]) GenerateAccess(claims T) (string, error) {
	if setter, ok := any(claims).(interface {
		SetDefaults(now time.Time, ttl time.Duration, issuer string)
	}); ok {
		setter.SetDefaults(time.Now(), s.cfg.AccessTokenTTL, s.cfg.Issuer)
	}
	return s.Generate(claims)
}

// Parse verifies the signature, expiry and issuer and returns the claims.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
