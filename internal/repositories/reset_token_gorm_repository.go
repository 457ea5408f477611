package repositories

import (
	"fmt"
	"time"

	"accounts/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMResetTokenRepository is a GORM implementation of ResetTokenRepository.
type GORMResetTokenRepository struct {
	db *gorm.DB
}

// NewGORMResetTokenRepository creates a new instance of GORMResetTokenRepository.
func NewGORMResetTokenRepository(db *gorm.DB) *GORMResetTokenRepository {
	return &GORMResetTokenRepository{
		db: db,
	}
}

// Create stores a new reset token row.
func (r *GORMResetTokenRepository) Create(token *models.ResetToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetActiveByHash retrieves an unexpired token by its hash.
func (r *GORMResetTokenRepository) GetActiveByHash(hash string, now time.Time) (*models.ResetToken, error) {
	var token models.ResetToken
	if err := r.db.First(&token, "token_hash = ? AND expires_at > ?", hash, now).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no active reset token found")
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	return &token, nil
}

// DeleteByUserID removes all reset tokens belonging to a user.
func (r *GORMResetTokenRepository) DeleteByUserID(userID string) error {
	if err := r.db.Delete(&models.ResetToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete reset tokens for user %s: %w", userID, err)
	}
	return nil
}
