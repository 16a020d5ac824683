package mfa

import (
	"errors"
	"net/http"
)

// Kind groups failures by how a caller should react.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAuthentication   Kind = "authentication"
	KindNotFound         Kind = "not_found"
	KindUpstreamDelivery Kind = "upstream_delivery"
	KindInternal         Kind = "internal"
)

// Stable machine readable codes.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidSession     = "invalid_session"
	CodeNoFaceDetected     = "no_face_detected"
	CodeFaceMismatch       = "face_mismatch"
	CodeNoLinkedContact    = "no_linked_contact"
	CodeDeliveryFailed     = "delivery_failed"
	CodeNoActiveChallenge  = "no_active_challenge"
	CodeOTPExpired         = "otp_expired"
	CodeOTPMismatch        = "otp_mismatch"
	CodeUnknownEmail       = "unknown_email"
	CodeTemplateMissing    = "template_missing"
	CodeInternal           = "internal_error"
)

var statusByCode = map[string]int{
	CodeInvalidRequest:     http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeInvalidSession:     http.StatusUnauthorized,
	CodeNoFaceDetected:     http.StatusBadRequest,
	CodeFaceMismatch:       http.StatusUnauthorized,
	CodeNoLinkedContact:    http.StatusBadRequest,
	CodeDeliveryFailed:     http.StatusInternalServerError,
	CodeNoActiveChallenge:  http.StatusBadRequest,
	CodeOTPExpired:         http.StatusBadRequest,
	CodeOTPMismatch:        http.StatusUnauthorized,
	CodeUnknownEmail:       http.StatusNotFound,
	CodeTemplateMissing:    http.StatusInternalServerError,
	CodeInternal:           http.StatusInternalServerError,
}

// Error is returned by every Service operation. Message is safe to show to
// the caller; Err carries the internal cause for logs.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error code to an HTTP status.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AsError extracts an *Error from err, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internal(err)
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidRequest, Message: msg}
}

func internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error", Err: err}
}

var (
	errInvalidCredentials = &Error{Kind: KindAuthentication, Code: CodeInvalidCredentials, Message: "Invalid email or password"}
	errInvalidSession     = &Error{Kind: KindAuthentication, Code: CodeInvalidSession, Message: "Invalid or expired session. Please start again."}
	errFaceMismatch       = &Error{Kind: KindAuthentication, Code: CodeFaceMismatch, Message: "Face verification failed"}
	errNoActive           = &Error{Kind: KindAuthentication, Code: CodeNoActiveChallenge, Message: "No OTP request found. Please request a new OTP."}
	errOTPExpired         = &Error{Kind: KindAuthentication, Code: CodeOTPExpired, Message: "OTP has expired. Please request a new one."}
	errOTPMismatch        = &Error{Kind: KindAuthentication, Code: CodeOTPMismatch, Message: "Invalid OTP"}
	errUnknownEmail       = &Error{Kind: KindNotFound, Code: CodeUnknownEmail, Message: "No account found for this email"}
)

func noFace(err error) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeNoFaceDetected, Message: "No face detected in the image", Err: err}
}

func noContact(err error) *Error {
	return &Error{Kind: KindValidation, Code: CodeNoLinkedContact, Message: "No contact address linked to this identity", Err: err}
}

func deliveryFailed(err error) *Error {
	return &Error{Kind: KindUpstreamDelivery, Code: CodeDeliveryFailed, Message: "Failed to send OTP", Err: err}
}

func templateMissing() *Error {
	return &Error{Kind: KindInternal, Code: CodeTemplateMissing, Message: "No face template enrolled for this account"}
}
