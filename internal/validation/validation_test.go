package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Email      string    `json:"email" validate:"required,email"`
	NationalID string    `json:"national_id" validate:"len=12,number"`
	Contact    string    `json:"contact" validate:"omitempty,email|e164"`
	Template   []float64 `json:"template" validate:"omitempty,len=3"`
}

func TestDescribeUsesJSONNames(t *testing.T) {
	cases := []struct {
		name   string
		in     sample
		field  string
		reason string
	}{
		{"missing email", sample{NationalID: "123456789012"}, "email", "is required"},
		{"bad email", sample{Email: "nope", NationalID: "123456789012"}, "email", "must be a valid email address"},
		{"short id", sample{Email: "a@x.com", NationalID: "1234"}, "national_id", "must be exactly 12 characters"},
		{"signed id", sample{Email: "a@x.com", NationalID: "-12345678901"}, "national_id", "must contain only digits"},
		{"contact", sample{Email: "a@x.com", NationalID: "123456789012", Contact: "9876"}, "contact", "must be a phone number or email"},
		{"template", sample{Email: "a@x.com", NationalID: "123456789012", Template: []float64{1}}, "template", "must have 3 values"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field, reason, ok := Describe(Struct(tc.in))
			require.True(t, ok)
			require.Equal(t, tc.field, field)
			require.Equal(t, tc.reason, reason)
		})
	}
}

func TestValidInput(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "a@x.com", NationalID: "123456789012", Contact: "+919876543210"}))
	require.NoError(t, Struct(sample{Email: "a@x.com", NationalID: "123456789012", Contact: "b@y.org"}))
	require.NoError(t, Var("012345", "required,number,len=6"))
	require.Error(t, Var("01234a", "required,number,len=6"))
}

func TestDescribeIgnoresOtherErrors(t *testing.T) {
	_, _, ok := Describe(errors.New("boom"))
	require.False(t, ok)
}
