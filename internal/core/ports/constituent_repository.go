package ports

import (
	"context"
	"fmt"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// CreateConstituentParams carries the caller-owned columns of a new row.
type CreateConstituentParams struct {
	FirstName     string
	LastName      string
	Age           int
	Phone         string
	Email         string
	StreetAddress string
	City          string
	State         string
	Zip           string
	District      *string
}

// ConstituentRepository defines persistence operations for constituents.
//
// Implementations enforce uniqueness on email and on (first name, last name,
// age) and report violations as *StoreError so callers never depend on a
// particular store's constraint naming.
type ConstituentRepository interface {
	// ExistsByNameAge reports whether a record with exactly this triple exists.
	ExistsByNameAge(ctx context.Context, firstName, lastName string, age int) (bool, error)
	// Insert persists a row in a single atomic statement and returns it with
	// the store-assigned id, status and timestamps.
	Insert(ctx context.Context, params CreateConstituentParams) (*domain.Constituent, error)
	// List returns every record, most recently created first.
	List(ctx context.Context) ([]*domain.Constituent, error)
	Ping(ctx context.Context) error
}

// StoreErrorKind classifies a constraint rejection reported by the store.
type StoreErrorKind int

const (
	StoreConflictEmail StoreErrorKind = iota + 1
	StoreConflictNameAge
	StoreConflictOther
	StoreCheckFailed
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreConflictEmail:
		return "conflict_email"
	case StoreConflictNameAge:
		return "conflict_name_age"
	case StoreConflictOther:
		return "conflict_other"
	case StoreCheckFailed:
		return "check_failed"
	default:
		return "unknown"
	}
}

// StoreError is the structured constraint-violation contract returned by
// repositories. Any failure that is not a constraint violation is returned
// as a plain wrapped error instead.
type StoreError struct {
	Kind       StoreErrorKind
	Constraint string
	// Detail is the store's human-readable explanation, safe to show callers.
	Detail string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Kind, e.Constraint, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
