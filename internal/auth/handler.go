package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/trigate/trigate/internal/mfa"
	"github.com/trigate/trigate/internal/middleware"
)

// Handler exposes the authentication flow over HTTP.
type Handler struct {
	svc *mfa.Service
}

// NewHandler builds a Handler over svc.
func NewHandler(svc *mfa.Service) *Handler {
	return &Handler{svc: svc}
}

// Login checks email and password and returns a password_verified token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req mfa.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	res, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// VerifyFace compares the submitted image with the enrolled template.
func (h *Handler) VerifyFace(c *fiber.Ctx) error {
	var req mfa.FaceRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	res, err := h.svc.VerifyFace(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// SendOTP issues and delivers a fresh code.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req mfa.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	res, err := h.svc.SendOTP(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// VerifyOTP exchanges a valid code for an access token.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req mfa.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	res, err := h.svc.VerifyOTP(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// InitOTPByEmail starts the flow from an email address and delivers a code.
func (h *Handler) InitOTPByEmail(c *fiber.Ctx) error {
	var req mfa.InitOTPByEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	res, err := h.svc.InitOTPByEmail(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Me returns the masked profile of the access token holder.
func (h *Handler) Me(c *fiber.Ctx) error {
	subject, _ := c.Locals(middleware.LocalSubject).(string)
	if subject == "" {
		return c.SendStatus(http.StatusUnauthorized)
	}
	res, err := h.svc.Profile(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func badBody(err error) error {
	return &mfa.Error{
		Kind:    mfa.KindValidation,
		Code:    mfa.CodeInvalidRequest,
		Message: "request body must be a JSON object",
		Err:     err,
	}
}
