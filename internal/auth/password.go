package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
//
// Legacy mode stores plaintext and accepts plaintext comparisons against
// values that are not bcrypt hashes. It exists only for environments that
// ran with hashing disabled and must be switched on explicitly.
type PasswordHasher struct {
	cost   int
	legacy bool
}

func NewPasswordHasher(legacyPlaintext bool) *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost, legacy: legacyPlaintext}
}

// NewPasswordHasherWithCost is used by tests to keep bcrypt fast.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Legacy() bool {
	return h.legacy
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.legacy {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *PasswordHasher) Verify(hash, candidate string) bool {
	if looksHashed(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
	}
	if !h.legacy || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}

func looksHashed(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
