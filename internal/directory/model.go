// Package directory is the read side of the identity registry: identity
// records, national-id to contact links and credential checks.
package directory

import (
	"errors"
	"time"
)

// NationalIDLength is the canonical national identifier length.
const NationalIDLength = 12

// TemplateDimension is the length of an enrolled face template.
const TemplateDimension = 128

var (
	// ErrNotFound is returned when an identity or link does not exist.
	ErrNotFound = errors.New("directory: not found")
	// ErrConflict is returned when a unique email or national id is reused.
	ErrConflict = errors.New("directory: identity already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("directory: invalid email or password")
	// ErrNoContact is returned when neither a link nor the identity holds a
	// delivery address.
	ErrNoContact = errors.New("directory: no contact address")
)

// Identity is an enrolled user. It is immutable during authentication.
type Identity struct {
	ID           string
	Email        string
	Name         string
	NationalID   string
	Contact      string
	PasswordHash []byte
	Template     []float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTemplate reports whether a face template is enrolled.
func (i Identity) HasTemplate() bool {
	return len(i.Template) > 0
}

// Link maps a national id to the contact address OTP codes are sent to.
type Link struct {
	NationalID string
	Contact    string
	UpdatedAt  time.Time
}

// Enrollment is the input of the administrative enrollment path.
type Enrollment struct {
	Email      string
	Name       string
	NationalID string
	Contact    string
	Password   string
	Template   []float64
}
