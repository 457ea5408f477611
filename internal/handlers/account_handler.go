package handlers

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"accounts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const sessionCookieName = "token"

// AccountHandler handles HTTP requests for the user-account endpoints.
type AccountHandler struct {
	accountService *services.AccountService
	sessions       *services.SessionTokenCodec
	validate       *validator.Validate
	env            string // "production" suppresses stack traces in error responses
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService, sessions *services.SessionTokenCodec, env string) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessions:       sessions,
		validate:       validator.New(),
		env:            env,
	}
}

// RegisterRoutes registers the account routes with the Fiber app. The guard
// middleware protects the routes that need an authenticated session.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/logout", h.HandleLogout)
	users.Get("/loggedin", h.HandleLoginStatus)
	users.Post("/forgotpassword", h.HandleForgotPassword)
	users.Put("/resetpassword/:resetToken", h.HandleResetPassword)

	users.Get("/getuser", guard, h.HandleGetUser)
	users.Patch("/updateuser", guard, h.HandleUpdateUser)
	users.Patch("/changepassword", guard, h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest represents the partial profile update body. Email is
// deliberately absent, it cannot be changed through this endpoint.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Bio   string `json:"bio" validate:"max=250"`
	Photo string `json:"photo"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

// ForgotPasswordRequest represents the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for a password reset.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AccountHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	profile, token, err := h.accountService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return h.respondError(c, err)
	}

	c.Cookie(sessionCookie(token))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    profile.ID,
		"name":  profile.Name,
		"email": profile.Email,
		"photo": profile.Photo,
		"phone": profile.Phone,
		"bio":   profile.Bio,
		"token": token,
	})
}

// HandleLogin handles user login. The session cookie is set only after the
// credential check succeeded.
func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	profile, token, err := h.accountService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return h.respondError(c, err)
	}

	c.Cookie(sessionCookie(token))
	return c.JSON(fiber.Map{
		"id":    profile.ID,
		"name":  profile.Name,
		"email": profile.Email,
		"photo": profile.Photo,
		"phone": profile.Phone,
		"bio":   profile.Bio,
		"token": token,
	})
}

// HandleLogout expires the session cookie. Always succeeds.
func (h *AccountHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(expiredSessionCookie())
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// HandleLoginStatus reports whether the request carries a verifiable session
// token. Responds with a bare boolean.
func (h *AccountHandler) HandleLoginStatus(c *fiber.Ctx) error {
	token := c.Cookies(sessionCookieName)
	if token == "" {
		return c.JSON(false)
	}
	if _, err := h.sessions.Verify(token); err != nil {
		return c.JSON(false)
	}
	return c.JSON(true)
}

// HandleGetUser returns the profile of the authenticated user.
func (h *AccountHandler) HandleGetUser(c *fiber.Ctx) error {
	profile, err := h.accountService.GetProfile(sessionUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(profile)
}

// HandleUpdateUser applies a partial profile update for the authenticated
// user.
func (h *AccountHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	profile, err := h.accountService.UpdateProfile(sessionUserID(c), services.ProfileUpdate{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   req.Bio,
		Photo: req.Photo,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(profile)
}

// HandleChangePassword changes the password of the authenticated user.
func (h *AccountHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing change password request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.accountService.ChangePassword(sessionUserID(c), req.OldPassword, req.Password); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// HandleForgotPassword starts the password-reset flow and mails a reset link.
func (h *AccountHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing forgot password request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.accountService.ForgotPassword(req.Email); err != nil {
		log.Printf("Error handling forgot password for %s: %v", req.Email, err)
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reset email sent to the given email",
	})
}

// HandleResetPassword completes the reset flow with the secret from the URL.
func (h *AccountHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing reset password request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.accountService.ResetPassword(c.Params("resetToken"), req.Password); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successful, please login"})
}

// validationErrorResponse writes the 400 response for a failed DTO
// validation.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondError maps service errors onto HTTP statuses. Outside production the
// response also carries a diagnostic stack trace.
func (h *AccountHandler) respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidOrExpiredToken):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailDelivery):
		status = fiber.StatusInternalServerError
	}

	resp := fiber.Map{"message": err.Error()}
	if h.env != "production" {
		resp["stack"] = string(debug.Stack())
	}
	return c.Status(status).JSON(resp)
}

// sessionUserID returns the user id the guard middleware stored in the
// request context.
func sessionUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// sessionCookie builds the session cookie set on register and login.
func sessionCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour), // 1 day
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	}
}

// expiredSessionCookie builds the epoch-expired replacement cookie used for
// logout.
func expiredSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	}
}
