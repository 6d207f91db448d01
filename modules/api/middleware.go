package api

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/example/task-tracker/config"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// UserContextKey is the key under which the authenticated username is stored.
	UserContextKey = "user"

	msgAuthRequired       = "Unauthorized access. Authentication required."
	msgInvalidCredentials = "Invalid authentication credentials."
)

// BasicAuth returns a middleware that admits only requests carrying the
// configured credential pair in a Basic Authorization header.
func BasicAuth(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Basic ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: msgAuthRequired})
		}

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: msgInvalidCredentials})
		}

		username, password, _ := strings.Cut(string(decoded), ":")
		if !verifyCredentials(cfg, username, password) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: msgInvalidCredentials})
		}

		c.Locals(UserContextKey, username)
		return c.Next()
	}
}

// verifyCredentials compares both parts in constant time. A configured
// bcrypt hash replaces the plain password.
func verifyCredentials(cfg config.AuthConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1

	var passOK bool
	if cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	}
	return userOK && passOK
}
