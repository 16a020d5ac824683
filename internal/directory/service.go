package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trigate/trigate/internal/security"
)

// Service answers the identity questions asked during authentication and
// exposes the enrollment writes used by the administrative tooling.
type Service struct {
	repo   Repository
	hasher *security.Hasher
	now    func() time.Time
}

// NewService creates a directory service. hasher checks and produces
// password hashes.
func NewService(repo Repository, hasher *security.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher, now: time.Now}
}

// Authenticate returns the identity for email when password matches. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	identity, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		s.hasher.Burn([]byte(password))
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("find identity: %w", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return identity, nil
}

// Lookup finds an identity by email.
func (s *Service) Lookup(ctx context.Context, email string) (Identity, error) {
	identity, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Identity{}, fmt.Errorf("find identity: %w", err)
	}
	return identity, err
}

// Get finds an identity by subject id.
func (s *Service) Get(ctx context.Context, id string) (Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Identity{}, fmt.Errorf("find identity: %w", err)
	}
	return identity, err
}

// ResolveContact returns where OTP codes for identity are delivered. A link
// for the national id wins over the contact stored on the identity.
func (s *Service) ResolveContact(ctx context.Context, identity Identity) (string, error) {
	if identity.NationalID != "" {
		link, err := s.repo.FindLink(ctx, identity.NationalID)
		switch {
		case err == nil:
			return link.Contact, nil
		case !errors.Is(err, ErrNotFound):
			return "", fmt.Errorf("find link: %w", err)
		}
	}
	if contact := strings.TrimSpace(identity.Contact); contact != "" {
		return contact, nil
	}
	return "", ErrNoContact
}

// Enroll validates and stores a new identity with a hashed password.
func (s *Service) Enroll(ctx context.Context, e Enrollment) (Identity, error) {
	e.Email = NormalizeEmail(e.Email)
	e.Contact = strings.TrimSpace(e.Contact)
	if err := e.validate(); err != nil {
		return Identity{}, err
	}

	hash, err := s.hasher.Hash([]byte(e.Password))
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	identity := Identity{
		ID:           uuid.NewString(),
		Email:        e.Email,
		Name:         strings.TrimSpace(e.Name),
		NationalID:   e.NationalID,
		Contact:      e.Contact,
		PasswordHash: hash,
		Template:     e.Template,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// LinkContact points nationalID at contact, replacing any previous link.
func (s *Service) LinkContact(ctx context.Context, nationalID, contact string) (Link, error) {
	contact = strings.TrimSpace(contact)
	if err := validateLink(nationalID, contact); err != nil {
		return Link{}, err
	}
	link := Link{NationalID: nationalID, Contact: contact, UpdatedAt: s.now().UTC()}
	if err := s.repo.UpsertLink(ctx, link); err != nil {
		return Link{}, fmt.Errorf("upsert link: %w", err)
	}
	return link, nil
}
