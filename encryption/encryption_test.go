package encryption

import (
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	for _, alg := range []string{ChaCha20, AESGCM} {
		t.Run(alg, func(t *testing.T) {
			enc, err := New(Config{Key: "passphrase", Algorithm: alg})
			if err != nil {
				t.Fatal(err)
			}
			a, err := enc.Seal("sk-test-1234567890")
			if err != nil {
				t.Fatal(err)
			}
			b, _ := enc.Seal("sk-test-1234567890")
			if a == b {
				t.Error("two seals of the same value should differ")
			}
			if strings.Contains(a, "sk-test") {
				t.Errorf("sealed value leaks plaintext: %s", a)
			}
			got, err := enc.Open(a)
			if err != nil {
				t.Fatal(err)
			}
			if got != "sk-test-1234567890" {
				t.Errorf("Open = %q", got)
			}
		})
	}
}

func TestOpenRejects(t *testing.T) {
	enc, _ := New(Config{Key: "passphrase"})
	other, _ := New(Config{Key: "another"})
	sealed, _ := enc.Seal("secret")

	tests := []struct {
		name  string
		input string
	}{
		{"wrong key", sealed},
		{"not base64", "%%%"},
		{"too short", "AAAA"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := other.Open(tc.input); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected an error without a key")
	}
	if _, err := New(Config{Key: "k", Algorithm: "rot13"}); err == nil {
		t.Error("expected an error for an unknown algorithm")
	}
}
