package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps challenges in process memory. It is meant for tests and
// single-instance development runs.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]Challenge)}
}

func (s *MemoryStore) Replace(_ context.Context, c Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.SubjectID] = c
	return nil
}

func (s *MemoryStore) Active(_ context.Context, subjectID string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[subjectID]
	if !ok || c.Verified {
		return Challenge{}, ErrNoChallenge
	}
	return c, nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, subjectID, challengeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[subjectID]
	if !ok || c.ID != challengeID || c.Verified {
		return ErrNoChallenge
	}
	c.Verified = true
	s.challenges[subjectID] = c
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for subject, c := range s.challenges {
		if c.ExpiresAt.Before(before) {
			delete(s.challenges, subject)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored challenges, verified or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}
