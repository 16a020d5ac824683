package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/trigate/trigate/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *miniredis.Miniredis, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	var calls int32
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/send-otp", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"call": n})
	})
	app.Post("/fails", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return fiber.NewError(fiber.StatusInternalServerError, "delivery failed")
	})
	return app, mr, &calls
}

func post(t *testing.T, app *fiber.App, path, key string) (int, string) {
	t.Helper()
	return postBody(t, app, path, key, "{}")
}

func postBody(t *testing.T, app *fiber.App, path, key, payload string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, _, calls := setupTestApp(t)

	post(t, app, "/send-otp", "")
	_, body := post(t, app, "/send-otp", "")

	if *calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d", *calls)
	}
	if body != `{"call":2}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, _, calls := setupTestApp(t)

	status, first := post(t, app, "/send-otp", "abc123")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	status, second := post(t, app, "/send-otp", "abc123")
	if status != fiber.StatusOK {
		t.Fatalf("expected cached 200 got %d", status)
	}
	if first != second {
		t.Fatalf("expected cached payload %s got %s", first, second)
	}
	if *calls != 1 {
		t.Fatalf("expected one handler call, got %d", *calls)
	}

	post(t, app, "/send-otp", "other-key")
	if *calls != 2 {
		t.Fatalf("expected a new key to reach the handler, got %d calls", *calls)
	}
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	app, mr, calls := setupTestApp(t)

	status, _ := post(t, app, "/fails", "retry-me")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", status)
	}
	if mr.Exists(idempotencyCacheKey("/fails", "retry-me", []byte("{}"))) {
		t.Fatal("expected key to be released after failure")
	}
	post(t, app, "/fails", "retry-me")
	if *calls != 2 {
		t.Fatalf("expected retry to reach the handler, got %d calls", *calls)
	}
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	app, mr, calls := setupTestApp(t)
	if err := mr.Set(idempotencyCacheKey("/send-otp", "busy", []byte("{}")), inProgressMarker); err != nil {
		t.Fatalf("seed: %v", err)
	}

	status, _ := post(t, app, "/send-otp", "busy")
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 got %d", status)
	}
	if *calls != 0 {
		t.Fatalf("handler should not run, ran %d", *calls)
	}
}

func TestIdempotencyKeyIsScopedToBody(t *testing.T) {
	app, _, calls := setupTestApp(t)

	_, first := postBody(t, app, "/send-otp", "shared", `{"email":"ada@example.com"}`)
	_, second := postBody(t, app, "/send-otp", "shared", `{"email":"bob@example.com"}`)
	if *calls != 2 {
		t.Fatalf("expected each body to reach the handler, got %d calls", *calls)
	}
	if first == second {
		t.Fatalf("second caller received the first caller's response %s", second)
	}

	_, replay := postBody(t, app, "/send-otp", "shared", `{"email":"ada@example.com"}`)
	if replay != first || *calls != 2 {
		t.Fatalf("expected replay of %s without a handler call, got %s after %d calls", first, replay, *calls)
	}
}
