package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectionPrefix is prepended to an organization's slug to name its tenant collection.
const CollectionPrefix = "org_"

// MaxCollectionNameLength is the longest collection name the stores accept
// (PostgreSQL truncates identifiers beyond 63 bytes).
const MaxCollectionNameLength = 63

// Organization represents a tenant with exactly one admin and one tenant collection.
type Organization struct {
	ID             uuid.UUID
	Name           string
	Slug           string
	CollectionName string
	AdminID        uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrganizationUpdate holds the fields to change on an organization.
// Nil fields are left untouched; UpdatedAt is always refreshed.
type OrganizationUpdate struct {
	Name           *string
	Slug           *string
	CollectionName *string
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses runs of non-alphanumerics into
// single underscores, trimming underscores from both ends.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlphanumeric.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// CollectionNameFor returns the tenant collection name for a slug.
func CollectionNameFor(slug string) string {
	return CollectionPrefix + slug
}
