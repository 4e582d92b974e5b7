package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the stores and services wraps one of
// these so callers can classify with errors.Is.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrInternal     = errors.New("internal error")
)

// Organization errors
var (
	ErrOrganizationNotFound     = Errorf(ErrNotFound, "organization not found")
	ErrOrganizationExists       = Errorf(ErrConflict, "organization with this name already exists")
	ErrOrganizationNameMismatch = Errorf(ErrForbidden, "you can only delete your own organization with matching name")
	ErrInvalidOrganizationName  = Errorf(ErrValidation, "invalid organization name")
)

// Admin and authentication errors
var (
	ErrAdminNotFound      = Errorf(ErrNotFound, "admin not found")
	ErrAdminEmailExists   = Errorf(ErrConflict, "admin with this email already exists")
	ErrInvalidCredentials = Errorf(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = Errorf(ErrUnauthorized, "invalid or expired token")
)

// Tenant collection errors
var (
	ErrCollectionExists   = Errorf(ErrConflict, "collection already exists")
	ErrCollectionNotFound = Errorf(ErrNotFound, "collection not found")
)

// Validation errors
var (
	ErrInvalidEmail = Errorf(ErrValidation, "invalid email address")
	ErrWeakPassword = Errorf(ErrValidation, "password does not meet requirements")
)

// kindError carries a user-facing message and unwraps to its parent error,
// which is either a kind or another sentinel built on one.
type kindError struct {
	parent error
	msg    string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

// Errorf returns an error with a formatted message that matches parent
// (and everything parent matches) under errors.Is.
func Errorf(parent error, format string, args ...any) error {
	return &kindError{parent: parent, msg: fmt.Sprintf(format, args...)}
}

// Kind returns the error kind err belongs to, or ErrInternal when err wraps
// none of the known kinds.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
