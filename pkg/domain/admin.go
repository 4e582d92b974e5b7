package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the single credentialed account that manages one organization.
type Admin struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	OrganizationID uuid.UUID
	CreatedAt      time.Time
}

// AdminUpdate holds the fields to change on an admin. Nil fields are left untouched.
type AdminUpdate struct {
	Email        *string
	PasswordHash *string
}

// IsEmpty returns true if the update changes nothing.
func (u AdminUpdate) IsEmpty() bool {
	return u.Email == nil && u.PasswordHash == nil
}
