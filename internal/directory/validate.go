package directory

import (
	"strings"

	"github.com/trigate/trigate/internal/validation"
)

// MinPasswordLength is the shortest password enrollment accepts.
const MinPasswordLength = 6

// NormalizeEmail lowercases and trims an email for lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidationError describes the first invalid field of an enrollment.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "directory: invalid " + e.Field + ": " + e.Reason
}

// The national_id length matches NationalIDLength and the template length
// matches TemplateDimension.
type enrollmentRules struct {
	Email      string    `json:"email" validate:"required,email"`
	NationalID string    `json:"national_id" validate:"len=12,number"`
	Contact    string    `json:"contact" validate:"omitempty,email|e164"`
	Password   string    `json:"password" validate:"min=6"`
	Template   []float64 `json:"template" validate:"omitempty,len=128"`
}

type linkRules struct {
	NationalID string `json:"national_id" validate:"len=12,number"`
	Contact    string `json:"contact" validate:"required,email|e164"`
}

func (e Enrollment) validate() error {
	rules := enrollmentRules{
		Email:      e.Email,
		NationalID: e.NationalID,
		Contact:    e.Contact,
		Password:   e.Password,
	}
	if len(e.Template) > 0 {
		rules.Template = e.Template
	}
	return check(rules)
}

func validateLink(nationalID, contact string) error {
	return check(linkRules{NationalID: nationalID, Contact: contact})
}

func check(rules any) error {
	err := validation.Struct(rules)
	if err == nil {
		return nil
	}
	if field, reason, ok := validation.Describe(err); ok {
		return &ValidationError{Field: field, Reason: reason}
	}
	return err
}
