package middleware

import (
	"log"
	"strings"

	"accounts/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionRequired is a Fiber middleware that checks for a valid session
// token. The HTTP-only cookie set at login is checked first; a Bearer header
// works as a fallback for non-browser clients.
func SessionRequired(sessions *services.SessionTokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("token")
		if token == "" {
			// Expected format: "Bearer <token>"
			parts := strings.SplitN(c.Get("Authorization"), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, please login",
			})
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		// Store the user id in the Fiber context for subsequent handlers
		c.Locals("user_id", userID)

		return c.Next()
	}
}
