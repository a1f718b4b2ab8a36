package postgres

import (
	"errors"

	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgNumericOverflow     = "22003"
)

// storageError wraps err unless it already carries a domain meaning
func storageError(op string, err error) error {
	var storageErr shared.StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return shared.StorageError{Op: op, Err: err}
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// constraintError turns constraint violations into domain errors and returns
// nil for anything else. refs maps foreign key constraint names to the
// logical field and the id that was written to it.
func constraintError(err error, refs map[string]shared.ReferenceError) error {
	pgErr, isPg := pgError(err)
	if !isPg {
		return nil
	}

	switch pgErr.Code {
	case pgForeignKeyViolation:
		if ref, found := refs[pgErr.ConstraintName]; found {
			return ref
		}
		return shared.ReferenceError{Field: pgErr.ConstraintName}
	case pgCheckViolation, pgNotNullViolation:
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.ConstraintName
		}
		return shared.ValidationError{Field: field, Reason: pgErr.Message}
	case pgNumericOverflow:
		return shared.ValidationError{Field: "numeric value", Reason: "out of range"}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation
}
