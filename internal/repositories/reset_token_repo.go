package repositories

import (
	"time"

	"accounts/internal/models"
)

// ResetTokenRepository defines the interface for password-reset token storage.
type ResetTokenRepository interface {
	Create(token *models.ResetToken) error
	// GetActiveByHash returns the token matching the given hash whose expiry
	// is strictly after now. Expired and missing tokens are indistinguishable.
	GetActiveByHash(hash string, now time.Time) (*models.ResetToken, error)
	DeleteByUserID(userID string) error
}
