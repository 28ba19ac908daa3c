package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// requiredFields is the order missing fields are reported in.
var requiredFields = []string{"first_name", "last_name", "age", "email"}

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkPresence runs the presence rules on a candidate. Age is checked for
// nil explicitly; a zero age is additionally treated as missing unless
// allowZeroAge is set, which keeps the behaviour of the original form
// backend where 0 and "absent" could not be told apart.
func checkPresence(v *validator.Validate, c domain.Candidate, allowZeroAge bool) error {
	missing := make(map[string]struct{}, len(requiredFields))

	if err := v.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return &domain.ValidationError{Reason: domain.ReasonMissingFields, Detail: err.Error()}
		}
		for _, fe := range ve {
			missing[fe.Field()] = struct{}{}
		}
	}
	if c.Age != nil && *c.Age == 0 && !allowZeroAge {
		missing["age"] = struct{}{}
	}
	if len(missing) == 0 {
		return nil
	}

	fields := make([]string, 0, len(missing))
	for _, f := range requiredFields {
		if _, ok := missing[f]; ok {
			fields = append(fields, f)
		}
	}
	return &domain.ValidationError{
		Reason: domain.ReasonMissingFields,
		Fields: fields,
		Detail: strings.Join(fields, ", ") + " required",
	}
}
