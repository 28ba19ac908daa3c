package ports

import (
	"context"
	"io"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// SubmitInput is the DTO passed from the transport layer to ConstituentService.
type SubmitInput struct {
	Candidate domain.Candidate
	// IdempotencyKey is optional; a repeated key replays the first result.
	IdempotencyKey string
}

// SubmitResult is returned by the service after a successful submission.
type SubmitResult struct {
	Constituent *domain.Constituent
	// Replayed is true when the Idempotency-Key matched an earlier submission.
	Replayed bool
}

// ConstituentService defines the use-case operations for constituents.
type ConstituentService interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context) ([]*domain.Constituent, error)
	// ExportCSV writes every record as CSV to w and returns the row count.
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}
