package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type testClaims struct {
	gojwt.RegisteredClaims
	Email string `json:"email"`
}

func (c *testClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
}

func newTestService(t *testing.T, cfg Config) *Service[*testClaims] {
	t.Helper()
	svc, err := NewService(cfg, func() *testClaims { return &testClaims{} })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGenerateAndParse(t *testing.T) {
	svc := newTestService(t, Config{Secret: "0123456789abcdef", Issuer: "voicedoc"})
	token, err := svc.GenerateAccess(&testClaims{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Issuer != "voicedoc" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestParseRejects(t *testing.T) {
	svc := newTestService(t, Config{Secret: "0123456789abcdef"})
	other := newTestService(t, Config{Secret: "fedcba9876543210"})

	foreign, _ := other.GenerateAccess(&testClaims{Email: "x@example.com"})
	expired, _ := svc.Generate(&testClaims{RegisteredClaims: gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	noExpiry, _ := svc.Generate(&testClaims{Email: "x@example.com"})

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"missing expiry", noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Parse(tt.token); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Secret: strings.Repeat("k", 16)}, ""},
		{"short secret", Config{Secret: "short"}, "secret"},
		{"bad method", Config{Secret: strings.Repeat("k", 16), Method: "RS256"}, "signing method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ApplyDefaults()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
