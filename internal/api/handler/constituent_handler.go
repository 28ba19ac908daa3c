package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicreg/constituent-service/internal/api/metrics"
	"github.com/civicreg/constituent-service/internal/core/domain"
	"github.com/civicreg/constituent-service/internal/core/ports"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	csvFilename = "constituents.csv"
	bannerText  = "Constituent service is running"
)

// ConstituentHandler handles HTTP requests for constituent operations.
// Errors are returned to Echo and rendered by the central error handler.
type ConstituentHandler struct {
	service ports.ConstituentService
	metrics *metrics.Metrics
}

func NewConstituentHandler(service ports.ConstituentService, m *metrics.Metrics) *ConstituentHandler {
	return &ConstituentHandler{service: service, metrics: m}
}

// Root handles GET /api/.
//
// @Summary      Service banner
// @Tags         meta
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/ [get]
func (h *ConstituentHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: bannerText})
}

// Add handles POST /api/constituents/add.
//
// @Summary      Register a constituent
// @Description  Requires first_name, last_name, age and email. A repeated Idempotency-Key replays the first result with 200.
// @Tags         constituents
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      addConstituentRequest  true   "Constituent details"
// @Success      201              {object}  constituentResponse
// @Success      200              {object}  constituentResponse    "Idempotent replay"
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Router       /api/constituents/add [post]
func (h *ConstituentHandler) Add(c echo.Context) error {
	var req addConstituentRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	result, err := h.service.Submit(c.Request().Context(), ports.SubmitInput{
		Candidate:      toCandidate(req),
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		h.observeFailure(err)
		return err
	}

	if result.Replayed {
		h.metrics.ObserveSubmission(metrics.OutcomeReplayed)
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
		return c.JSON(http.StatusOK, toConstituentResponse(result.Constituent))
	}

	h.metrics.ObserveSubmission(metrics.OutcomeCreated)
	return c.JSON(http.StatusCreated, toConstituentResponse(result.Constituent))
}

// List handles GET /api/constituents.
//
// @Summary      List constituents
// @Description  All records, most recently created first.
// @Tags         constituents
// @Produce      json
// @Success      200  {array}   constituentResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/constituents [get]
func (h *ConstituentHandler) List(c echo.Context) error {
	records, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toConstituentResponses(records))
}

// ExportCSV handles GET /api/constituents/csv.
//
// @Summary      Export constituents as CSV
// @Tags         constituents
// @Produce      text/csv
// @Success      200  {string}  string  "CSV document"
// @Failure      500  {object}  ErrorResponse
// @Router       /api/constituents/csv [get]
func (h *ConstituentHandler) ExportCSV(c echo.Context) error {
	// Buffered so a failed export can still be answered with a JSON error.
	var buf bytes.Buffer
	rows, err := h.service.ExportCSV(c.Request().Context(), &buf)
	if err != nil {
		return err
	}
	h.metrics.ObserveExport(rows)

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+csvFilename)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ConstituentHandler) observeFailure(err error) {
	var dup *domain.DuplicateError
	switch {
	case errors.As(err, &dup):
		h.metrics.ObserveSubmission(metrics.OutcomeDuplicate)
		h.metrics.ObserveDuplicate(string(dup.Kind))
	case errors.Is(err, domain.ErrValidation):
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
	default:
		h.metrics.ObserveSubmission(metrics.OutcomeStoreError)
	}
}
