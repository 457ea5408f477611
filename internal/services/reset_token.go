package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"accounts/internal/models"
	"accounts/internal/repositories"
)

// ResetTokenManager owns the password-reset token lifecycle. Secrets are
// handed out once and stored only as SHA-256 hashes; a user has at most one
// live token at a time. Reset secrets use a fast digest rather than bcrypt:
// they are single-use, high-entropy and expire after 30 minutes, so the
// brute-force economics of password hashing do not apply.
type ResetTokenManager struct {
	repo     repositories.ResetTokenRepository
	tokenTTL time.Duration
}

// NewResetTokenManager creates a new ResetTokenManager.
func NewResetTokenManager(repo repositories.ResetTokenRepository) *ResetTokenManager {
	return &ResetTokenManager{
		repo:     repo,
		tokenTTL: 30 * time.Minute,
	}
}

// Request generates a fresh reset secret for the user, replaces any stored
// token for them, and returns the unhashed secret for delivery. The secret is
// never persisted.
func (m *ResetTokenManager) Request(userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset secret: %w", err)
	}
	// The user id suffix keeps secrets distinct across users even in the
	// unlikely event of a randomness collision.
	secret := hex.EncodeToString(buf) + userID

	if err := m.repo.DeleteByUserID(userID); err != nil {
		return "", fmt.Errorf("failed to clear previous reset token: %w", err)
	}

	now := time.Now()
	token := &models.ResetToken{
		UserID:    userID,
		TokenHash: hashResetSecret(secret),
		CreatedAt: now,
		ExpiresAt: now.Add(m.tokenTTL),
	}
	if err := m.repo.Create(token); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return secret, nil
}

// Verify checks a presented secret against the stored hashes and returns the
// owning user id. A wrong, expired or already consumed secret all fail the
// same way so callers cannot probe for token existence.
func (m *ResetTokenManager) Verify(secret string) (string, error) {
	token, err := m.repo.GetActiveByHash(hashResetSecret(secret), time.Now())
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}
	return token.UserID, nil
}

// Consume removes the user's stored token after a completed reset so the
// secret cannot be replayed inside its validity window.
func (m *ResetTokenManager) Consume(userID string) error {
	if err := m.repo.DeleteByUserID(userID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	return nil
}

func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
