// Package memory provides in-process implementations of the organization,
// admin, and tenant collection stores for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// OrganizationStore is an in-memory organization store. Slugs and
// collection names are unique.
type OrganizationStore struct {
	mu   sync.RWMutex
	orgs map[uuid.UUID]*domain.Organization
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		orgs: make(map[uuid.UUID]*domain.Organization),
	}
}

// Create stores a copy of org.
func (s *OrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[org.ID]; exists {
		return domain.ErrOrganizationExists
	}
	if s.taken(org.ID, org.Slug, org.CollectionName) {
		return domain.ErrOrganizationExists
	}

	copy := *org
	s.orgs[org.ID] = &copy
	return nil
}

// GetByID retrieves an organization by ID.
func (s *OrganizationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgs[id]
	if !exists {
		return nil, domain.ErrOrganizationNotFound
	}
	copy := *org
	return &copy, nil
}

// GetBySlug retrieves an organization by slug.
func (s *OrganizationStore) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.orgs {
		if org.Slug == slug {
			copy := *org
			return &copy, nil
		}
	}
	return nil, domain.ErrOrganizationNotFound
}

// Update applies the non-nil fields of update and refreshes UpdatedAt.
func (s *OrganizationStore) Update(ctx context.Context, id uuid.UUID, update domain.OrganizationUpdate) (*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, exists := s.orgs[id]
	if !exists {
		return nil, domain.ErrOrganizationNotFound
	}

	next := *org
	if update.Name != nil {
		next.Name = *update.Name
	}
	if update.Slug != nil {
		next.Slug = *update.Slug
	}
	if update.CollectionName != nil {
		next.CollectionName = *update.CollectionName
	}
	if s.taken(id, next.Slug, next.CollectionName) {
		return nil, domain.ErrOrganizationExists
	}
	next.UpdatedAt = time.Now().UTC()

	s.orgs[id] = &next
	copy := next
	return &copy, nil
}

// Delete removes an organization.
func (s *OrganizationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[id]; !exists {
		return domain.ErrOrganizationNotFound
	}
	delete(s.orgs, id)
	return nil
}

// taken reports whether another organization already uses slug or
// collectionName. Callers must hold the lock.
func (s *OrganizationStore) taken(id uuid.UUID, slug, collectionName string) bool {
	for otherID, other := range s.orgs {
		if otherID == id {
			continue
		}
		if other.Slug == slug || other.CollectionName == collectionName {
			return true
		}
	}
	return false
}
