// Package security holds the bcrypt hasher shared by password and one-time
// code verification.
package security

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the secret does not match the hash.
var ErrMismatch = errors.New("security: secret does not match hash")

// Hasher salts and hashes secrets with bcrypt. Plaintext secrets must never be
// logged or persisted.
type Hasher struct {
	Cost int

	burnOnce sync.Once
	burnHash []byte
}

// NewHasher returns a Hasher with cost clamped into bcrypt's accepted range.
// A non-positive cost selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash returns a salted bcrypt hash of secret.
func (h *Hasher) Hash(secret []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(secret, h.Cost)
}

// Compare checks secret against hash in constant time. Any failure, including
// a malformed hash, is reported as ErrMismatch.
func (h *Hasher) Compare(hash, secret []byte) error {
	if err := bcrypt.CompareHashAndPassword(hash, secret); err != nil {
		return ErrMismatch
	}
	return nil
}

// Burn performs a comparison against a throwaway hash so callers can keep the
// timing of "unknown account" close to "wrong secret".
func (h *Hasher) Burn(secret []byte) {
	h.burnOnce.Do(func() {
		h.burnHash, _ = bcrypt.GenerateFromPassword([]byte("trigate-burn"), h.Cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.burnHash, secret)
}
