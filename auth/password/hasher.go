// Package password hashes and verifies user passwords with bcrypt.
//
//	hasher := password.NewBcryptHasher()
//	hash, err := hasher.Hash("my-password")
//	err = hasher.Verify("my-password", hash)
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxLength is the bcrypt input limit.
const maxLength = 72

var (
	// ErrTooShort is returned by Hash for passwords under the minimum length.
	ErrTooShort = errors.New("password: too short")
	// ErrTooLong is returned by Hash for passwords over 72 bytes.
	ErrTooLong = errors.New("password: maximum length is 72 characters (bcrypt limit)")
	// ErrMismatch is returned by Verify when the password does not match.
	ErrMismatch = errors.New("password: invalid password")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify returns nil if password matches hash.
	Verify(password, hash string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost      int
	minLength int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter. Out-of-range values are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// WithMinLength sets the minimum accepted password length.
func WithMinLength(n int) BcryptOption {
	return func(h *BcryptHasher) {
		if n > 0 && n <= maxLength {
			h.minLength = n
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: 12, minLength: 8}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// MinLength returns the minimum accepted password length.
func (h *BcryptHasher) MinLength() int { return h.minLength }

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) < h.minLength {
		return "", fmt.Errorf("%w: minimum length is %d characters", ErrTooShort, h.minLength)
	}
	if len(password) > maxLength {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}
