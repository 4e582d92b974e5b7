package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// mapPostgresError translates driver errors into domain errors. conflict is
// returned for unique violations; it may be nil when the caller has none.
// Errors that are not PostgreSQL errors are returned unchanged.
func mapPostgresError(err error, conflict error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pgerrcode.UniqueViolation:
		if conflict != nil {
			return conflict
		}
		return domain.Errorf(domain.ErrConflict, "duplicate value violates %s", pqErr.Constraint)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.AdminShutdown, pgerrcode.CrashShutdown:
		return fmt.Errorf("database server unavailable: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pqErr.Code, pqErr.Message, err)
	}
}

// mapCollectionError is mapPostgresError for statements that address a
// tenant collection table, where missing and duplicate tables are expected.
func mapCollectionError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.DuplicateTable:
			return domain.ErrCollectionExists
		case pgerrcode.UndefinedTable:
			return domain.ErrCollectionNotFound
		}
	}
	return mapPostgresError(err, nil)
}
