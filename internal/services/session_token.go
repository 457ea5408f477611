package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SessionTokenCodec signs and verifies the compact session credentials issued
// at login and registration. Tokens are self-contained; logout works by
// expiring the cookie, there is no server-side denylist.
type SessionTokenCodec struct {
	secret     []byte
	tokenDurat time.Duration // Duration for which a session token is valid
}

// NewSessionTokenCodec creates a new SessionTokenCodec.
func NewSessionTokenCodec(secret string) *SessionTokenCodec {
	return &SessionTokenCodec{
		secret:     []byte(secret),
		tokenDurat: 24 * time.Hour, // Token valid for 1 day
	}
}

// Issue produces a signed token carrying the user id and an expiry one day
// from now.
func (c *SessionTokenCodec) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(c.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded user id.
func (c *SessionTokenCodec) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("session token carries no user id")
	}
	return userID, nil
}
