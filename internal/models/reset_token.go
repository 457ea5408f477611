package models

import "time"

// ResetToken is a password-reset token row. Only the SHA-256 hash of the
// secret is stored, never the secret itself. At most one live row exists per
// user; a new request deletes any previous row first.
type ResetToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;not null;type:varchar(36)"`
	TokenHash string    `json:"-" gorm:"index;not null;type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
