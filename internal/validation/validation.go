// Package validation holds the shared struct-tag validator. Field names in
// reported errors are the json names of the fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Struct validates s.
func Struct(s any) error {
	return Validator().Struct(s)
}

// Var validates a single value against tag.
func Var(value any, tag string) error {
	return Validator().Var(value, tag)
}

// Describe returns the first failing field and a readable reason. ok is false
// when err did not come from the validator.
func Describe(err error) (field, reason string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	fe := verrs[0]
	return fe.Field(), reasonFor(fe), true
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a phone number with country code"
	case "email|e164":
		return "must be a phone number or email"
	case "number":
		return "must contain only digits"
	case "len":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have %s values", fe.Param())
		}
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
