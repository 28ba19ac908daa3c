package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicreg/constituent-service/internal/core/ports"
)

func dupMessage(index string) string {
	return fmt.Sprintf(`E11000 duplicate key error collection: civic.constituents index: %s dup key: { email: "a@b.c" }`, index)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		we             mongo.WriteException
		wantKind       ports.StoreErrorKind
		wantConstraint string
	}{
		{
			name:           "email index",
			we:             mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: dupMessage(IndexEmail)}}},
			wantKind:       ports.StoreConflictEmail,
			wantConstraint: IndexEmail,
		},
		{
			name:           "name and age index",
			we:             mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: dupMessage(IndexNameAge)}}},
			wantKind:       ports.StoreConflictNameAge,
			wantConstraint: IndexNameAge,
		},
		{
			name:           "primary key",
			we:             mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: dupMessage("_id_")}}},
			wantKind:       ports.StoreConflictOther,
			wantConstraint: "_id_",
		},
		{
			name:           "validator",
			we:             mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}},
			wantKind:       ports.StoreCheckFailed,
			wantConstraint: ruleAgeCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(fmt.Errorf("insert: %w", tt.we))

			var se *ports.StoreError
			if !errors.As(got, &se) {
				t.Fatalf("expected *ports.StoreError, got %T (%v)", got, got)
			}
			if se.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", se.Kind, tt.wantKind)
			}
			if se.Constraint != tt.wantConstraint {
				t.Errorf("Constraint = %q, want %q", se.Constraint, tt.wantConstraint)
			}
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	plain := errors.New("server selection timeout")
	if got := classify(plain); got != plain {
		t.Errorf("got %v, want unchanged error", got)
	}

	other := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 2, Message: "bad value"}}}
	var se *ports.StoreError
	if errors.As(classify(other), &se) {
		t.Error("unmapped write error should not be classified")
	}
}

func TestDuplicateIndex(t *testing.T) {
	tests := map[string]string{
		dupMessage(IndexNameAge):             IndexNameAge,
		"E11000 duplicate key error":         "",
		"collection: x index: trailing_only": "trailing_only",
	}
	for msg, want := range tests {
		if got := duplicateIndex(msg); got != want {
			t.Errorf("duplicateIndex(%q) = %q, want %q", msg, got, want)
		}
	}
}
