package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// GenerateToken returns length cryptographically random bytes, hex-encoded.
func GenerateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("password: generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
