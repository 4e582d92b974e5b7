package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// AdminStore is an in-memory admin store. Emails are unique.
type AdminStore struct {
	mu     sync.RWMutex
	admins map[uuid.UUID]*domain.Admin
}

// NewAdminStore creates a new in-memory admin store.
func NewAdminStore() *AdminStore {
	return &AdminStore{
		admins: make(map[uuid.UUID]*domain.Admin),
	}
}

// Create stores a copy of admin.
func (s *AdminStore) Create(ctx context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.admins[admin.ID]; exists {
		return domain.ErrAdminEmailExists
	}
	if s.emailTaken(admin.ID, admin.Email) {
		return domain.ErrAdminEmailExists
	}

	copy := *admin
	s.admins[admin.ID] = &copy
	return nil
}

// GetByID retrieves an admin by ID.
func (s *AdminStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, exists := s.admins[id]
	if !exists {
		return nil, domain.ErrAdminNotFound
	}
	copy := *admin
	return &copy, nil
}

// GetByEmail retrieves an admin by normalized email.
func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if admin.Email == email {
			copy := *admin
			return &copy, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

// Update applies the non-nil fields of update.
func (s *AdminStore) Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, exists := s.admins[id]
	if !exists {
		return nil, domain.ErrAdminNotFound
	}

	next := *admin
	if update.Email != nil {
		if s.emailTaken(id, *update.Email) {
			return nil, domain.ErrAdminEmailExists
		}
		next.Email = *update.Email
	}
	if update.PasswordHash != nil {
		next.PasswordHash = *update.PasswordHash
	}

	s.admins[id] = &next
	copy := next
	return &copy, nil
}

// Delete removes an admin.
func (s *AdminStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.admins[id]; !exists {
		return domain.ErrAdminNotFound
	}
	delete(s.admins, id)
	return nil
}

func (s *AdminStore) emailTaken(id uuid.UUID, email string) bool {
	for otherID, other := range s.admins {
		if otherID != id && other.Email == email {
			return true
		}
	}
	return false
}
