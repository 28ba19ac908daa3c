package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/civicreg/constituent-service/internal/core/ports"
)

// SQLSTATE codes and constraint names this store reports on.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"

	ConstraintEmail   = "constituents_email_key"
	ConstraintNameAge = "unique_name_age"
)

// classify turns a Postgres constraint violation into *ports.StoreError and
// returns every other error unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		kind := ports.StoreConflictOther
		switch pgErr.ConstraintName {
		case ConstraintEmail:
			kind = ports.StoreConflictEmail
		case ConstraintNameAge:
			kind = ports.StoreConflictNameAge
		}
		return &ports.StoreError{Kind: kind, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail, Err: err}
	case codeCheckViolation:
		return &ports.StoreError{Kind: ports.StoreCheckFailed, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail, Err: err}
	default:
		return err
	}
}
