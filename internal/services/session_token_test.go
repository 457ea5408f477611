package services_test

import (
	"testing"
	"time"

	"accounts/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestSessionTokenCodec_IssueAndVerify(t *testing.T) {
	codec := services.NewSessionTokenCodec("test_jwt_secret")

	token, err := codec.Issue("user-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := codec.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestSessionTokenCodec_RejectsTamperedToken(t *testing.T) {
	codec := services.NewSessionTokenCodec("test_jwt_secret")

	token, err := codec.Issue("user-123")
	assert.NoError(t, err)

	_, err = codec.Verify(token + "x")
	assert.Error(t, err)

	_, err = codec.Verify("invalid.token.string")
	assert.Error(t, err)
}

func TestSessionTokenCodec_RejectsWrongSecret(t *testing.T) {
	codec := services.NewSessionTokenCodec("test_jwt_secret")
	other := services.NewSessionTokenCodec("another_secret")

	token, err := other.Issue("user-123")
	assert.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokenCodec_RejectsExpiredToken(t *testing.T) {
	codec := services.NewSessionTokenCodec("test_jwt_secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredString, err := expired.SignedString([]byte("test_jwt_secret"))
	assert.NoError(t, err)

	_, err = codec.Verify(expiredString)
	assert.Error(t, err)
}

func TestSessionTokenCodec_RejectsMissingUserID(t *testing.T) {
	codec := services.NewSessionTokenCodec("test_jwt_secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte("test_jwt_secret"))
	assert.NoError(t, err)

	_, err = codec.Verify(tokenString)
	assert.Error(t, err)
}
