package mfa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestValidation(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "a@x.com", Password: "p"}.Validate())
	require.Error(t, LoginRequest{Email: "not-an-email", Password: "p"}.Validate())
	require.Error(t, LoginRequest{Email: "a@x.com"}.Validate())

	require.NoError(t, FaceRequest{SessionToken: "t", FaceImage: "img"}.Validate())
	require.Error(t, FaceRequest{SessionToken: "t"}.Validate())
	require.Error(t, FaceRequest{FaceImage: "img"}.Validate())

	require.NoError(t, SendOTPRequest{SessionToken: "t"}.Validate())
	require.Error(t, SendOTPRequest{SessionToken: "  "}.Validate())

	require.NoError(t, VerifyOTPRequest{SessionToken: "t", OTP: "123456"}.Validate(6))
	require.Error(t, VerifyOTPRequest{SessionToken: "t", OTP: "1234567"}.Validate(6))
	require.Error(t, VerifyOTPRequest{SessionToken: "t", OTP: "12345a"}.Validate(6))
	require.NoError(t, VerifyOTPRequest{SessionToken: "t", OTP: "1234"}.Validate(4))

	require.NoError(t, InitOTPByEmailRequest{Email: "a@x.com"}.Validate())
	require.Error(t, InitOTPByEmailRequest{}.Validate())
}

func TestErrorStatus(t *testing.T) {
	require.Equal(t, 401, errInvalidSession.Status())
	require.Equal(t, 400, errOTPExpired.Status())
	require.Equal(t, 404, errUnknownEmail.Status())
	require.Equal(t, 500, (&Error{Code: "something_new"}).Status())

	e := AsError(errInvalidCredentials)
	require.Same(t, errInvalidCredentials, e)
	require.Equal(t, CodeInternal, AsError(errTest).Code)
	require.ErrorIs(t, AsError(errTest), errTest)
}

var errTest = errorString("boom")

type errorString string

func (e errorString) Error() string { return string(e) }

func TestValidationMessagesNameTheField(t *testing.T) {
	err := AsError(LoginRequest{Email: " ", Password: "p"}.Validate())
	require.Equal(t, CodeInvalidRequest, err.Code)
	require.Equal(t, "email is required", err.Message)

	err = AsError(VerifyOTPRequest{SessionToken: "t", OTP: "-12345"}.Validate(6))
	require.Equal(t, "otp must be exactly 6 digits", err.Message)

	err = AsError(SendOTPRequest{}.Validate())
	require.Equal(t, "session_token is required", err.Message)
}
