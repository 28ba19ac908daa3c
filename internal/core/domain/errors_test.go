package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy_Is(t *testing.T) {
	cause := errors.New("conn refused")
	cases := []struct {
		err    error
		target error
	}{
		{&ValidationError{Reason: ReasonMissingFields}, ErrValidation},
		{&ValidationError{Reason: ReasonCheckFailed, Detail: "x"}, ErrValidation},
		{&DuplicateError{Kind: DuplicateEmail}, ErrDuplicate},
		{fmt.Errorf("wrapped: %w", &DuplicateError{Kind: DuplicateNameAge}), ErrDuplicate},
		{&StorageError{Op: "create", Err: cause}, ErrStorage},
		{&StorageError{Op: "create", Err: cause}, cause},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.target) {
			t.Fatalf("expected %v to match %v", tc.err, tc.target)
		}
	}

	if errors.Is(&DuplicateError{}, ErrValidation) {
		t.Fatalf("duplicate must not match validation")
	}
}

func TestValidationError_Message(t *testing.T) {
	if got := (&ValidationError{Reason: ReasonMissingFields}).Error(); got != "missing required fields" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&ValidationError{Reason: ReasonMissingFields, Detail: "age required"}).Error(); got != "missing required fields: age required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestConstituent_DistrictOrEmpty(t *testing.T) {
	d := "4"
	if (&Constituent{}).DistrictOrEmpty() != "" {
		t.Fatalf("nil district must render empty")
	}
	if (&Constituent{District: &d}).DistrictOrEmpty() != "4" {
		t.Fatalf("district not returned")
	}
}
