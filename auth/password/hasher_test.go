package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the password")
	}
	if err := h.Verify("correct horse", hash); err != nil {
		t.Errorf("Verify with right password: %v", err)
	}
	if err := h.Verify("wrong horse", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestBcryptLengthLimits(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))
	tests := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{"too short", "1234567", ErrTooShort},
		{"minimum", "12345678", nil},
		{"maximum", strings.Repeat("a", 72), nil},
		{"too long", strings.Repeat("a", 73), ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Hash(tt.pw)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewHasherFromConfig(t *testing.T) {
	h := NewHasher(Config{BcryptCost: bcrypt.MinCost, MinLength: 10}).(*BcryptHasher)
	if h.MinLength() != 10 {
		t.Errorf("MinLength = %d", h.MinLength())
	}
	if _, err := h.Hash("123456789"); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{BcryptCost: 40}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for cost 40")
	}
	cfg = Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	b, _ := GenerateToken(16)
	if len(a) != 32 || a == b {
		t.Errorf("unexpected tokens %q %q", a, b)
	}
}
