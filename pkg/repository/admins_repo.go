package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// AdminsRepository handles admin account persistence.
type AdminsRepository struct {
	db *sql.DB
}

// NewAdminsRepository creates a new admins repository.
func NewAdminsRepository(db *sql.DB) *AdminsRepository {
	return &AdminsRepository{db: db}
}

// Create inserts a new admin. A duplicate email returns domain.ErrAdminEmailExists.
func (r *AdminsRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, organization_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.OrganizationID, admin.CreatedAt,
	)
	return mapPostgresError(err, domain.ErrAdminEmailExists)
}

// GetByID retrieves an admin by ID.
func (r *AdminsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, organization_id, created_at
		FROM admins
		WHERE id = $1
	`
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an admin by normalized email.
func (r *AdminsRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, organization_id, created_at
		FROM admins
		WHERE email = $1
	`
	return scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

// Update applies the non-nil fields of update. An empty update returns the
// current record.
func (r *AdminsRepository) Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any
	if update.Email != nil {
		args = append(args, *update.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if update.PasswordHash != nil {
		args = append(args, *update.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE admins SET %s
		WHERE id = $%d
		RETURNING id, email, password_hash, organization_id, created_at
	`, strings.Join(sets, ", "), len(args))

	admin, err := scanAdmin(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapPostgresError(err, domain.ErrAdminEmailExists)
	}
	return admin, nil
}

// Delete permanently deletes an admin.
func (r *AdminsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return mapPostgresError(err, nil)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func scanAdmin(row *sql.Row) (*domain.Admin, error) {
	var admin domain.Admin
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.OrganizationID, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
