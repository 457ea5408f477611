package services

import "errors"

// Sentinel errors returned by the account flows. Handlers map these to HTTP
// statuses with errors.Is.
var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrEmailDelivery         = errors.New("email not sent, please try again")
)
