package repositories_test

import (
	"testing"
	"time"

	"accounts/internal/models"
	"accounts/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupResetTokenRepo(t *testing.T) *repositories.GORMResetTokenRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.ResetToken{}))
	return repositories.NewGORMResetTokenRepository(db)
}

func TestGORMResetTokenRepository_ActiveLookup(t *testing.T) {
	repo := setupResetTokenRepo(t)
	now := time.Now()

	assert.NoError(t, repo.Create(&models.ResetToken{
		UserID:    "user-1",
		TokenHash: "live-hash",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}))
	assert.NoError(t, repo.Create(&models.ResetToken{
		UserID:    "user-2",
		TokenHash: "stale-hash",
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}))

	token, err := repo.GetActiveByHash("live-hash", now)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", token.UserID)

	// Expired rows are filtered out, not surfaced differently
	_, err = repo.GetActiveByHash("stale-hash", now)
	assert.Error(t, err)

	_, err = repo.GetActiveByHash("unknown-hash", now)
	assert.Error(t, err)
}

func TestGORMResetTokenRepository_DeleteByUserID(t *testing.T) {
	repo := setupResetTokenRepo(t)
	now := time.Now()

	assert.NoError(t, repo.Create(&models.ResetToken{
		UserID:    "user-1",
		TokenHash: "hash-a",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}))
	assert.NoError(t, repo.Create(&models.ResetToken{
		UserID:    "user-1",
		TokenHash: "hash-b",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}))

	assert.NoError(t, repo.DeleteByUserID("user-1"))

	_, err := repo.GetActiveByHash("hash-a", now)
	assert.Error(t, err)
	_, err = repo.GetActiveByHash("hash-b", now)
	assert.Error(t, err)

	// Deleting for a user without rows is not an error
	assert.NoError(t, repo.DeleteByUserID("user-2"))
}
