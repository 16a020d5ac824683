package directory

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository that can also hold links in
// their legacy stored form.
type MemoryRepository struct {
	mu         sync.RWMutex
	identities map[string]Identity
	byEmail    map[string]string
	byNational map[string]string
	links      map[string]linkRecord
}

// NewMemoryRepository builds an in-memory directory for tests and local runs.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		identities: make(map[string]Identity),
		byEmail:    make(map[string]string),
		byNational: make(map[string]string),
		links:      make(map[string]linkRecord),
	}
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return r.identities[id], nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return identity, nil
}

func (r *MemoryRepository) FindLink(_ context.Context, nationalID string) (Link, error) {
	r.mu.RLock()
	rec, ok := r.links[nationalID]
	r.mu.RUnlock()
	if !ok {
		return Link{}, ErrNotFound
	}
	return rec.normalize()
}

func (r *MemoryRepository) Create(_ context.Context, identity Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[identity.Email]; exists {
		return ErrConflict
	}
	if _, exists := r.byNational[identity.NationalID]; exists {
		return ErrConflict
	}
	if _, exists := r.identities[identity.ID]; exists {
		return ErrConflict
	}
	r.identities[identity.ID] = identity
	r.byEmail[identity.Email] = identity.ID
	r.byNational[identity.NationalID] = identity.ID
	return nil
}

func (r *MemoryRepository) UpsertLink(_ context.Context, link Link) error {
	contact := link.Contact
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.NationalID] = linkRecord{NationalID: link.NationalID, Contact: &contact, UpdatedAt: link.UpdatedAt}
	return nil
}

// PutLegacyLink stores a link the way older tooling wrote it: contact is the
// current column (may be empty) and phone the legacy one.
func (r *MemoryRepository) PutLegacyLink(nationalID, contact, phone string) {
	rec := linkRecord{NationalID: nationalID}
	if contact != "" {
		rec.Contact = &contact
	}
	if phone != "" {
		rec.LegacyPhone = &phone
	}
	r.mu.Lock()
	r.links[nationalID] = rec
	r.mu.Unlock()
}
