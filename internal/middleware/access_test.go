package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/trigate/trigate/internal/logging"
	"github.com/trigate/trigate/internal/steptoken"
)

func TestAccessAuth(t *testing.T) {
	tokens, err := steptoken.NewAuthority("secret", "trigate", time.Minute)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
	app.Get("/me", AccessAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalSubject).(string) + "|" + c.Locals(LocalEmail).(string))
	})

	access, err := tokens.IssueAccess("subject-1", "a@x.com")
	require.NoError(t, err)
	step, err := tokens.IssueStep("subject-1", steptoken.StepFaceVerified)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + access.Value, fiber.StatusOK},
		{"lowercase scheme", "bearer " + access.Value, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"step token", "Bearer " + step.Value, fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"basic", "Basic abc", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
