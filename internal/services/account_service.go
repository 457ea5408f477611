package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"accounts/internal/models"
	"accounts/internal/repositories"
	"accounts/pkg/mail"
	"accounts/pkg/rabbitmq"
)

// Account event types published to the message queue.
const (
	EventUserRegistered  = "user.registered"
	EventPasswordChanged = "user.password_changed"
)

const minPasswordLength = 6

// ProfileUpdate carries the mutable profile fields. Empty fields keep their
// current values; email is immutable through this path.
type ProfileUpdate struct {
	Name  string
	Phone string
	Bio   string
	Photo string
}

// AccountConfig holds the non-dependency settings of the AccountService.
type AccountConfig struct {
	FrontendURL string // base URL the reset link points at
	MailFrom    string // sender address for outbound mail
}

// AccountService orchestrates registration, login, profile management and the
// password-reset flow. It is the only component exposed to request handlers.
type AccountService struct {
	userRepo    repositories.UserRepository
	hasher      *PasswordHasher
	sessions    *SessionTokenCodec
	resetTokens *ResetTokenManager
	mailer      mail.Sender
	mqClient    *rabbitmq.Client // optional, events are skipped when nil
	cfg         AccountConfig
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	userRepo repositories.UserRepository,
	hasher *PasswordHasher,
	sessions *SessionTokenCodec,
	resetTokens *ResetTokenManager,
	mailer mail.Sender,
	mqClient *rabbitmq.Client,
	cfg AccountConfig,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		hasher:      hasher,
		sessions:    sessions,
		resetTokens: resetTokens,
		mailer:      mailer,
		mqClient:    mqClient,
		cfg:         cfg,
	}
}

// Register creates a new user, hashes their password and issues a session
// token.
func (s *AccountService) Register(name, email, password string) (models.Profile, string, error) {
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return models.Profile{}, "", fmt.Errorf("%w: please fill all the required fields", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return models.Profile{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return models.Profile{}, "", fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Profile{}, "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Photo:    models.DefaultPhoto,
		Phone:    models.DefaultPhone,
		Bio:      models.DefaultBio,
	}
	if err := s.userRepo.Create(user); err != nil {
		return models.Profile{}, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return models.Profile{}, "", err
	}

	s.publishEvent(EventUserRegistered, user.ID, user.Email)

	return user.PublicProfile(), token, nil
}

// Login authenticates a user and issues a session token. The token is issued
// only after the credential check succeeds; no session exists on failure.
func (s *AccountService) Login(email, password string) (models.Profile, string, error) {
	if email == "" || password == "" {
		return models.Profile{}, "", fmt.Errorf("%w: please enter email and password", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return models.Profile{}, "", ErrUserNotFound
	}

	if !s.hasher.Verify(password, user.Password) {
		return models.Profile{}, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return models.Profile{}, "", err
	}
	return user.PublicProfile(), token, nil
}

// GetProfile returns the public profile of a user.
func (s *AccountService) GetProfile(userID string) (models.Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return models.Profile{}, ErrUserNotFound
	}
	return user.PublicProfile(), nil
}

// UpdateProfile applies a partial update to the mutable profile fields.
func (s *AccountService) UpdateProfile(userID string, upd ProfileUpdate) (models.Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return models.Profile{}, ErrUserNotFound
	}

	if upd.Name != "" {
		user.Name = upd.Name
	}
	if upd.Phone != "" {
		user.Phone = upd.Phone
	}
	if upd.Bio != "" {
		user.Bio = upd.Bio
	}
	if upd.Photo != "" {
		user.Photo = upd.Photo
	}

	if err := s.userRepo.Update(user); err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return user.PublicProfile(), nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (s *AccountService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: please add old and new password", ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if !s.hasher.Verify(oldPassword, user.Password) {
		return fmt.Errorf("%w: old password is not correct", ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.publishEvent(EventPasswordChanged, user.ID, user.Email)
	return nil
}

// ForgotPassword creates a reset token for the user and mails them the reset
// link. The token row stays persisted even when mail delivery fails; it is
// harmless until matched against a valid secret.
func (s *AccountService) ForgotPassword(email string) error {
	if email == "" {
		return fmt.Errorf("%w: please enter an email", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return ErrUserNotFound
	}

	secret, err := s.resetTokens.Request(user.ID)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/resetpassword/%s", s.cfg.FrontendURL, secret)
	message := fmt.Sprintf(`
<h2>Hello %s</h2>
<p>Please use the url below to reset your password.</p>
<p>This link is valid for 30 minutes only.</p>

<a href="%s" clicktracking="off">%s</a>

<p>Regards.</p>
`, user.Name, resetURL, resetURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.mailer.Send(ctx, "Password Reset Request", message, user.Email, s.cfg.MailFrom); err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword verifies a presented reset secret, sets the new password and
// consumes the token so the secret cannot be replayed.
func (s *AccountService) ResetPassword(secret, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: please enter a new password", ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	userID, err := s.resetTokens.Verify(secret)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	// The password is already changed at this point, so a failed delete only
	// costs us the replay protection until natural expiry.
	if err := s.resetTokens.Consume(userID); err != nil {
		log.Printf("Warning: failed to consume reset token for user %s: %v", userID, err)
	}

	s.publishEvent(EventPasswordChanged, user.ID, user.Email)
	return nil
}

// publishEvent sends an account event to the message queue. Publishing is
// best effort; failures are logged and never fail the request.
func (s *AccountService) publishEvent(event, userID, email string) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":  event,
		"userID": userID,
		"email":  email,
		"at":     time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.mqClient.Publish(body); err != nil {
		log.Printf("Warning: failed to publish %s event for user %s: %v", event, userID, err)
	}
}
