package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trigate/trigate/internal/security"
)

// Outcome is the result of a verification attempt.
type Outcome int

const (
	Verified Outcome = iota
	NoActiveChallenge
	Expired
	Mismatch
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case NoActiveChallenge:
		return "no_active_challenge"
	case Expired:
		return "expired"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Issued is a freshly generated code. Code is plaintext and must only be
// handed to the delivery channel.
type Issued struct {
	ChallengeID string
	Code        string
	ExpiresAt   time.Time
}

// Manager generates, stores and checks one-time codes.
type Manager struct {
	store  Store
	hasher *security.Hasher
	length int
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager producing codes of length digits valid for ttl.
func NewManager(store Store, hasher *security.Hasher, length int, ttl time.Duration) (*Manager, error) {
	if length < 4 || length > 10 {
		return nil, fmt.Errorf("otp: code length %d out of range", length)
	}
	if ttl <= 0 {
		return nil, errors.New("otp: ttl must be positive")
	}
	return &Manager{store: store, hasher: hasher, length: length, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of m that reads time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

// Length is the number of digits in issued codes.
func (m *Manager) Length() int { return m.length }

// TTL is the validity window of issued codes.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue generates a new code for subjectID and replaces any prior challenge.
func (m *Manager) Issue(ctx context.Context, subjectID string) (Issued, error) {
	code, err := GenerateCode(m.length)
	if err != nil {
		return Issued{}, err
	}
	hash, err := m.hasher.Hash([]byte(code))
	if err != nil {
		return Issued{}, fmt.Errorf("otp: hash code: %w", err)
	}

	now := m.now().UTC()
	c := Challenge{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		CodeHash:  hash,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Replace(ctx, c); err != nil {
		return Issued{}, fmt.Errorf("otp: store challenge: %w", err)
	}
	return Issued{ChallengeID: c.ID, Code: code, ExpiresAt: c.ExpiresAt}, nil
}

// Verify checks candidate against the subject's active challenge. An expired
// challenge stays in place so repeated attempts keep reporting Expired.
func (m *Manager) Verify(ctx context.Context, subjectID, candidate string) (Outcome, error) {
	c, err := m.store.Active(ctx, subjectID)
	if errors.Is(err, ErrNoChallenge) {
		return NoActiveChallenge, nil
	}
	if err != nil {
		return 0, fmt.Errorf("otp: load challenge: %w", err)
	}

	if m.now().After(c.ExpiresAt) {
		return Expired, nil
	}
	if !IsNumeric(candidate, m.length) {
		return Mismatch, nil
	}
	if err := m.hasher.Compare(c.CodeHash, []byte(candidate)); err != nil {
		return Mismatch, nil
	}

	err = m.store.MarkVerified(ctx, subjectID, c.ID)
	if errors.Is(err, ErrNoChallenge) {
		return NoActiveChallenge, nil
	}
	if err != nil {
		return 0, fmt.Errorf("otp: mark verified: %w", err)
	}
	return Verified, nil
}
