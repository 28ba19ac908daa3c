package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate constituent")
	ErrStorage    = errors.New("storage failure")
)

// ValidationReason identifies why a candidate was rejected as invalid.
type ValidationReason string

const (
	ReasonMissingFields ValidationReason = "missing required fields"
	ReasonCheckFailed   ValidationReason = "check-failed"
)

// ValidationError is returned when the candidate is incomplete or when the
// store rejects it through a check rule.
type ValidationError struct {
	Reason ValidationReason
	// Fields lists the missing field names for ReasonMissingFields.
	Fields []string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateKind names the uniqueness rule a candidate collided with.
type DuplicateKind string

const (
	DuplicateEmail   DuplicateKind = "email"
	DuplicateNameAge DuplicateKind = "name+age"
	DuplicateGeneric DuplicateKind = "generic"
)

// DuplicateError is returned when a candidate collides with an existing record.
type DuplicateError struct {
	Kind   DuplicateKind
	Detail string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate (%s): %s", e.Kind, e.Detail)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// StorageError wraps an unexpected backend failure. Its cause is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
