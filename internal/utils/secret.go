package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	passwordEntropy = 32
	nonceEntropy    = 16
)

// GeneratePassword returns a random password for accounts created through an
// external provider. It is 43 characters, inside bcrypt's 72-byte limit.
func GeneratePassword() (string, error) {
	return randomString(passwordEntropy)
}

// NewNonce returns a random base64url value for one OAuth round trip.
func NewNonce() (string, error) {
	return randomString(nonceEntropy)
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
