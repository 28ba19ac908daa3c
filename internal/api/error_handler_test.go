package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicreg/constituent-service/internal/api/handler"
	"github.com/civicreg/constituent-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		want     handler.ErrorResponse
	}{
		{
			name:     "missing fields",
			err:      &domain.ValidationError{Reason: domain.ReasonMissingFields, Fields: []string{"age"}, Detail: "age required"},
			wantCode: http.StatusBadRequest,
			want:     handler.ErrorResponse{Error: "Missing required fields", Detail: "age required"},
		},
		{
			name:     "check failed",
			err:      &domain.ValidationError{Reason: domain.ReasonCheckFailed, Detail: "Failing row contains (-1)."},
			wantCode: http.StatusBadRequest,
			want:     handler.ErrorResponse{Error: "Validation failed", Detail: "Failing row contains (-1)."},
		},
		{
			name:     "duplicate email",
			err:      &domain.DuplicateError{Kind: domain.DuplicateEmail, Detail: "email already exists"},
			wantCode: http.StatusConflict,
			want:     handler.ErrorResponse{Error: "Email already exists", Detail: "email already exists"},
		},
		{
			name:     "duplicate name and age",
			err:      &domain.DuplicateError{Kind: domain.DuplicateNameAge, Detail: "duplicate constituent"},
			wantCode: http.StatusConflict,
			want:     handler.ErrorResponse{Error: "Duplicate constituent", Detail: "duplicate constituent"},
		},
		{
			name:     "duplicate generic",
			err:      &domain.DuplicateError{Kind: domain.DuplicateGeneric, Detail: "Key (id)=(x) already exists."},
			wantCode: http.StatusConflict,
			want:     handler.ErrorResponse{Error: "Duplicate record", Detail: "Key (id)=(x) already exists."},
		},
		{
			name:     "storage on create hides cause",
			err:      &domain.StorageError{Op: "create", Err: errors.New("dial tcp 10.0.0.1:5432: refused")},
			wantCode: http.StatusInternalServerError,
			want:     handler.ErrorResponse{Error: "Database error", Message: "An unexpected error occurred while creating the constituent."},
		},
		{
			name:     "storage on list",
			err:      fmt.Errorf("wrapped: %w", &domain.StorageError{Op: "list", Err: errors.New("timeout")}),
			wantCode: http.StatusInternalServerError,
			want:     handler.ErrorResponse{Error: "Database error"},
		},
		{
			name:     "echo http error",
			err:      echo.NewHTTPError(http.StatusBadRequest, "invalid payload"),
			wantCode: http.StatusBadRequest,
			want:     handler.ErrorResponse{Error: "invalid payload"},
		},
		{
			name:     "unexpected",
			err:      errors.New("secret internals"),
			wantCode: http.StatusInternalServerError,
			want:     handler.ErrorResponse{Error: "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/constituents/add", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var got handler.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("body = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/constituents/csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = c.String(http.StatusOK, "partial")
	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "partial" {
		t.Errorf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
