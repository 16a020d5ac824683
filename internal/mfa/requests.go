package mfa

import (
	"fmt"
	"strings"

	"github.com/trigate/trigate/internal/validation"
)

// LoginRequest is the password factor.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks field formats.
func (r LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

// FaceRequest is the biometric factor.
type FaceRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
	FaceImage    string `json:"face_image" validate:"required"`
}

// Validate checks required fields.
func (r FaceRequest) Validate() error {
	r.SessionToken = strings.TrimSpace(r.SessionToken)
	r.FaceImage = strings.TrimSpace(r.FaceImage)
	return check(r)
}

// SendOTPRequest asks for a code to be delivered.
type SendOTPRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

// Validate checks required fields.
func (r SendOTPRequest) Validate() error {
	r.SessionToken = strings.TrimSpace(r.SessionToken)
	return check(r)
}

// VerifyOTPRequest submits a delivered code.
type VerifyOTPRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
}

// Validate checks that the code is exactly length ASCII digits.
func (r VerifyOTPRequest) Validate(length int) error {
	r.SessionToken = strings.TrimSpace(r.SessionToken)
	if err := check(r); err != nil {
		return err
	}
	if err := validation.Var(r.OTP, fmt.Sprintf("number,len=%d", length)); err != nil {
		return validationError(fmt.Sprintf("otp must be exactly %d digits", length))
	}
	return nil
}

// InitOTPByEmailRequest starts the email bootstrap flow.
type InitOTPByEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate checks field formats.
func (r InitOTPByEmailRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

func check(req any) error {
	err := validation.Struct(req)
	if err == nil {
		return nil
	}
	if field, reason, ok := validation.Describe(err); ok {
		return validationError(field + " " + reason)
	}
	return internal(err)
}

// MaskedIdentity is the display-safe view of the authenticated identity.
type MaskedIdentity struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
}

// Next step names returned to clients.
const (
	NextFaceVerification = "face_verification"
	NextOTPVerification  = "otp_verification"
)

// LoginResult carries the password_verified token.
type LoginResult struct {
	SessionToken string         `json:"session_token"`
	ExpiresIn    int            `json:"expires_in"`
	User         MaskedIdentity `json:"user"`
	NextStep     string         `json:"next_step"`
}

// FaceResult carries the face_verified token.
type FaceResult struct {
	SessionToken  string  `json:"session_token"`
	ExpiresIn     int     `json:"expires_in"`
	MaskedContact string  `json:"masked_contact"`
	MultipleFaces bool    `json:"multiple_faces"`
	Distance      float64 `json:"-"`
	NextStep      string  `json:"next_step"`
}

// SendOTPResult reports a dispatched code.
type SendOTPResult struct {
	SessionToken  string `json:"session_token,omitempty"`
	ExpiresIn     int    `json:"expires_in"`
	MaskedContact string `json:"masked_contact"`
}

// VerifyOTPResult carries the access credential.
type VerifyOTPResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ProfileResult describes the holder of an access credential.
type ProfileResult struct {
	SubjectID string         `json:"subject_id"`
	User      MaskedIdentity `json:"user"`
}
