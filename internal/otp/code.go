package otp

import (
	"crypto/rand"
	"fmt"
	"io"
)

// generateCode returns length decimal digits read from r. Bytes >= 250 are
// discarded so every digit is uniform over 0-9.
func generateCode(r io.Reader, length int) (string, error) {
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("otp: read random: %w", err)
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// GenerateCode returns a cryptographically random numeric code.
func GenerateCode(length int) (string, error) {
	return generateCode(rand.Reader, length)
}

// IsNumeric reports whether s is exactly length ASCII digits.
func IsNumeric(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
