package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trigate/trigate/internal/auth"
)

// RegisterAuthRoutes wires the authentication flow. idempotent, when set,
// guards the endpoints that deliver a code.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, idempotent fiber.Handler, emailBootstrap bool) {
	group := r.Group("/auth")
	group.Post("/login", h.Login)
	group.Post("/verify-face", h.VerifyFace)
	group.Post("/verify-otp", h.VerifyOTP)

	delivering := []fiber.Handler{}
	if idempotent != nil {
		delivering = append(delivering, idempotent)
	}
	group.Post("/send-otp", append(delivering, h.SendOTP)...)
	if emailBootstrap {
		group.Post("/init-otp-by-email", append(delivering, h.InitOTPByEmail)...)
	}
}
