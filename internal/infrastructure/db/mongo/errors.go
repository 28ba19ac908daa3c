package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicreg/constituent-service/internal/core/ports"
)

// Server error codes and the index names mirroring the relational
// constraint names.
const (
	codeDuplicateKey      = 11000
	codeValidationFailure = 121

	IndexEmail   = "constituents_email_key"
	IndexNameAge = "unique_name_age"

	ruleAgeCheck = "constituents_age_check"
)

// classify converts duplicate-key and document-validation write errors into
// *ports.StoreError. Anything else is returned unchanged.
func classify(err error) error {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return err
	}

	for _, e := range we.WriteErrors {
		switch e.Code {
		case codeDuplicateKey:
			index := duplicateIndex(e.Message)
			kind := ports.StoreConflictOther
			switch index {
			case IndexEmail:
				kind = ports.StoreConflictEmail
			case IndexNameAge:
				kind = ports.StoreConflictNameAge
			}
			return &ports.StoreError{Kind: kind, Constraint: index, Detail: e.Message, Err: err}
		case codeValidationFailure:
			return &ports.StoreError{Kind: ports.StoreCheckFailed, Constraint: ruleAgeCheck, Detail: e.Message, Err: err}
		}
	}
	return err
}

// duplicateIndex extracts the index name from a server message shaped like
// "E11000 duplicate key error collection: db.constituents index: unique_name_age dup key: {...}".
func duplicateIndex(msg string) string {
	const marker = " index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
