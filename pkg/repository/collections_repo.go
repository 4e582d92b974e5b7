package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// CollectionsRepository manages per-organization tenant tables. Each
// collection is a table holding opaque JSON documents.
type CollectionsRepository struct {
	db *sql.DB
}

// NewCollectionsRepository creates a new collections repository.
func NewCollectionsRepository(db *sql.DB) *CollectionsRepository {
	return &CollectionsRepository{db: db}
}

// Create creates an empty collection. It returns domain.ErrCollectionExists
// if a table with that name already exists.
func (r *CollectionsRepository) Create(ctx context.Context, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		CREATE TABLE %s (
			id         UUID PRIMARY KEY,
			document   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, pq.QuoteIdentifier(name))
	_, err := r.db.ExecContext(ctx, query)
	return mapCollectionError(err)
}

// Copy creates collection to with the structure and contents of from, in a
// single transaction. The source is left in place.
func (r *CollectionsRepository) Copy(ctx context.Context, from, to string) error {
	if err := validateCollectionName(from); err != nil {
		return err
	}
	if err := validateCollectionName(to); err != nil {
		return err
	}

	src := pq.QuoteIdentifier(from)
	dst := pq.QuoteIdentifier(to)

	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (LIKE %s INCLUDING ALL)`, dst, src)); err != nil {
			return mapCollectionError(err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s SELECT * FROM %s`, dst, src)); err != nil {
			return mapCollectionError(err)
		}
		return nil
	})
}

// Drop removes a collection. Dropping a missing collection is not an error.
func (r *CollectionsRepository) Drop(ctx context.Context, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, pq.QuoteIdentifier(name)))
	return mapCollectionError(err)
}

// Exists reports whether a collection exists in the current schema.
func (r *CollectionsRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, mapPostgresError(err, nil)
	}
	return exists, nil
}

// Insert stores a document in a collection.
func (r *CollectionsRepository) Insert(ctx context.Context, name string, data json.RawMessage) (*domain.Document, error) {
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, domain.Errorf(domain.ErrValidation, "document must be valid JSON")
	}

	doc := &domain.Document{
		ID:        uuid.New(),
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, document, created_at) VALUES ($1, $2, $3)`, pq.QuoteIdentifier(name))
	if _, err := r.db.ExecContext(ctx, query, doc.ID, []byte(doc.Data), doc.CreatedAt); err != nil {
		return nil, mapCollectionError(err)
	}
	return doc, nil
}

// Documents returns every document in a collection, oldest first.
func (r *CollectionsRepository) Documents(ctx context.Context, name string) ([]domain.Document, error) {
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, document, created_at FROM %s ORDER BY created_at, id`, pq.QuoteIdentifier(name))
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapCollectionError(err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data, &doc.CreatedAt); err != nil {
			return nil, err
		}
		doc.Data = json.RawMessage(data)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func validateCollectionName(name string) error {
	if name == "" {
		return domain.Errorf(domain.ErrValidation, "collection name is required")
	}
	if len(name) > domain.MaxCollectionNameLength {
		return domain.Errorf(domain.ErrValidation, "collection name must be at most %d bytes", domain.MaxCollectionNameLength)
	}
	return nil
}
