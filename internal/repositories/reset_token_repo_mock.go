package repositories

import (
	"fmt"
	"sync"
	"time"

	"accounts/internal/models"

	"github.com/google/uuid"
)

// MockResetTokenRepository is an in-memory implementation of ResetTokenRepository.
type MockResetTokenRepository struct {
	tokens map[string]models.ResetToken
	mu     sync.RWMutex
}

// NewMockResetTokenRepository creates a new instance of MockResetTokenRepository.
func NewMockResetTokenRepository() *MockResetTokenRepository {
	return &MockResetTokenRepository{
		tokens: make(map[string]models.ResetToken),
	}
}

// Create adds a new reset token.
func (r *MockResetTokenRepository) Create(token *models.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	r.tokens[token.ID] = *token
	return nil
}

// GetActiveByHash returns an unexpired token by its hash.
func (r *MockResetTokenRepository) GetActiveByHash(hash string, now time.Time) (*models.ResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tokens {
		if t.TokenHash == hash && t.ExpiresAt.After(now) {
			token := t
			return &token, nil
		}
	}
	return nil, fmt.Errorf("no active reset token found")
}

// DeleteByUserID removes all reset tokens belonging to a user.
func (r *MockResetTokenRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

// CountByUserID reports how many token rows exist for a user. Used by tests to
// verify the single-active-token invariant.
func (r *MockResetTokenRepository) CountByUserID(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}
