package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/civicreg/constituent-service/internal/core/ports"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   ports.StoreErrorKind
		wantDetail string
	}{
		{
			name:       "email unique violation",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "constituents_email_key", Detail: "Key (email)=(a@b.c) already exists."},
			wantKind:   ports.StoreConflictEmail,
			wantDetail: "Key (email)=(a@b.c) already exists.",
		},
		{
			name:     "name and age unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "unique_name_age"},
			wantKind: ports.StoreConflictNameAge,
		},
		{
			name:       "other unique violation",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "constituents_pkey", Detail: "Key (id)=(x) already exists."},
			wantKind:   ports.StoreConflictOther,
			wantDetail: "Key (id)=(x) already exists.",
		},
		{
			name:       "check violation",
			err:        &pgconn.PgError{Code: "23514", ConstraintName: "constituents_age_check", Detail: "Failing row contains (-1)."},
			wantKind:   ports.StoreCheckFailed,
			wantDetail: "Failing row contains (-1).",
		},
		{
			name:     "wrapped violation",
			err:      fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "unique_name_age"}),
			wantKind: ports.StoreConflictNameAge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)

			var se *ports.StoreError
			if !errors.As(got, &se) {
				t.Fatalf("expected *ports.StoreError, got %T", got)
			}
			if se.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", se.Kind, tt.wantKind)
			}
			if se.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", se.Detail, tt.wantDetail)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	plain := errors.New("connection reset")
	if got := classify(plain); got != plain {
		t.Errorf("plain error should be returned unchanged, got %v", got)
	}

	notNull := &pgconn.PgError{Code: "23502", ColumnName: "email"}
	if got := classify(notNull); got != error(notNull) {
		t.Errorf("unmapped SQLSTATE should pass through, got %T", got)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/001_create_constituents.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, want := range []string{ConstraintEmail, ConstraintNameAge, "constituents_age_check"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("migration missing constraint %q", want)
		}
	}
}
