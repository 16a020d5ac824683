package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trigate/trigate/internal/steptoken"
)

// Locals keys set by AccessAuth.
const (
	LocalSubject = "subject_id"
	LocalEmail   = "email"
)

// AccessAuth requires a Bearer access credential. Step tokens are rejected.
func AccessAuth(tokens *steptoken.Authority) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		access, err := tokens.VerifyAccess(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(LocalSubject, access.Subject)
		c.Locals(LocalEmail, access.Email)
		return c.Next()
	}
}
