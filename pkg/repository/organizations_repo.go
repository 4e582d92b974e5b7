package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

const organizationColumns = `id, name, slug, collection_name, admin_id, created_at, updated_at`

// OrganizationsRepository handles organization persistence.
type OrganizationsRepository struct {
	db *sql.DB
}

// NewOrganizationsRepository creates a new organizations repository.
func NewOrganizationsRepository(db *sql.DB) *OrganizationsRepository {
	return &OrganizationsRepository{db: db}
}

// Create inserts a new organization. A duplicate slug or collection name
// returns domain.ErrOrganizationExists.
func (r *OrganizationsRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, collection_name, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.CollectionName,
		org.AdminID,
		org.CreatedAt,
		org.UpdatedAt,
	)
	return mapPostgresError(err, domain.ErrOrganizationExists)
}

// GetByID retrieves an organization by ID.
func (r *OrganizationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves an organization by slug.
func (r *OrganizationsRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, slug))
}

// Update applies the non-nil fields of update and refreshes updated_at.
func (r *OrganizationsRepository) Update(ctx context.Context, id uuid.UUID, update domain.OrganizationUpdate) (*domain.Organization, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Slug != nil {
		add("slug", *update.Slug)
	}
	if update.CollectionName != nil {
		add("collection_name", *update.CollectionName)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE organizations SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), organizationColumns,
	)

	org, err := scanOrganization(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapPostgresError(err, domain.ErrOrganizationExists)
	}
	return org, nil
}

// Delete permanently deletes an organization record.
func (r *OrganizationsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return mapPostgresError(err, nil)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}

func scanOrganization(row *sql.Row) (*domain.Organization, error) {
	var org domain.Organization
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.CollectionName,
		&org.AdminID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
