package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher applies a salted, adaptive one-way transform to passwords.
// The produced hash embeds its own salt, so verification needs no extra state.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with cost factor 10.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: 10}
}

// Hash hashes a plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison is
// constant time with respect to content, and a malformed hash verifies as
// false rather than failing.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
