package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicreg/constituent-service/internal/api/handler"
	"github.com/civicreg/constituent-service/internal/core/domain"
	"github.com/civicreg/constituent-service/internal/core/service"
)

// Titles rendered in the "error" field.
const (
	titleMissingFields    = "Missing required fields"
	titleValidationFailed = "Validation failed"
	titleEmailExists      = "Email already exists"
	titleDuplicate        = "Duplicate constituent"
	titleDuplicateRecord  = "Duplicate record"
	titleDatabase         = "Database error"
	titleInternal         = "internal server error"

	messageCreateFailed = "An unexpected error occurred while creating the constituent."
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to HTTP status codes.
//   - Logs every failure with method, path and request id.
//   - Renders handler.ErrorResponse without leaking storage causes.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body, kind := resolveError(err)

		ev := log.Warn()
		if code >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("kind", kind).
			Int("status", code).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, handler.ErrorResponse, string) {
	var (
		ve *domain.ValidationError
		de *domain.DuplicateError
		se *domain.StorageError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		title := titleValidationFailed
		if ve.Reason == domain.ReasonMissingFields {
			title = titleMissingFields
		}
		return http.StatusBadRequest, handler.ErrorResponse{Error: title, Detail: ve.Detail}, "validation"

	case errors.As(err, &de):
		title := titleDuplicateRecord
		switch de.Kind {
		case domain.DuplicateEmail:
			title = titleEmailExists
		case domain.DuplicateNameAge:
			title = titleDuplicate
		}
		return http.StatusConflict, handler.ErrorResponse{Error: title, Detail: de.Detail}, "duplicate"

	case errors.As(err, &se):
		resp := handler.ErrorResponse{Error: titleDatabase}
		if se.Op == service.OpCreate {
			resp.Message = messageCreateFailed
		}
		return http.StatusInternalServerError, resp, "storage"

	// Echo's own errors (bind failures, 404 from router, etc.)
	case errors.As(err, &he):
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}, "http"
	}

	return http.StatusInternalServerError, handler.ErrorResponse{Error: titleInternal}, "unexpected"
}
