// Package otp issues and verifies one-time codes. A subject has at most one
// live challenge; issuing a new one supersedes the previous.
package otp

import (
	"context"
	"errors"
	"time"
)

// ErrNoChallenge is returned by a Store when the subject has no unverified
// challenge, or when a compare-and-set lost the race.
var ErrNoChallenge = errors.New("otp: no active challenge")

// Challenge is a persisted code hash for one subject.
type Challenge struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	CodeHash  []byte    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists challenges. Replace must atomically supersede any existing
// challenge for the subject, and MarkVerified must succeed for exactly one
// caller per challenge.
type Store interface {
	Replace(ctx context.Context, c Challenge) error
	Active(ctx context.Context, subjectID string) (Challenge, error)
	MarkVerified(ctx context.Context, subjectID, challengeID string) error
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
