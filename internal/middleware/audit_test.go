package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/trigate/trigate/internal/logging"
	"github.com/trigate/trigate/internal/metrics"
	"github.com/trigate/trigate/internal/mfa"
)

func TestAuditRendersErrorsAndLogsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
	app.Use(RequestID())
	app.Use(Audit(logger, metrics.New()))
	app.Post("/login", func(c *fiber.Ctx) error {
		return &mfa.Error{Kind: mfa.KindAuthentication, Code: mfa.CodeInvalidCredentials, Message: "Invalid email or password"}
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nothing here")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(requestIDHeader))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, mfa.CodeInvalidCredentials, body.Error)
	require.Equal(t, "Invalid email or password", body.Message)

	var entry map[string]any
	line := strings.SplitN(strings.TrimSpace(logs.String()), "\n", 2)[0]
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	require.EqualValues(t, 401, entry["status"])
	require.Equal(t, "WARN", entry["level"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "not_found", body.Error)
}

func TestRequestIDPreserved(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(requestIDHeader).(string))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "req-42", string(body))
	require.Equal(t, "req-42", resp.Header.Get(requestIDHeader))
}

func TestRequestIDReplacesUnsafeInput(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	for _, in := range []string{"has space", strings.Repeat("x", maxRequestIDLength+1)} {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, in)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NotEqual(t, in, string(body))
		require.Len(t, string(body), 36)
		require.Equal(t, string(body), resp.Header.Get(requestIDHeader))
	}
}
