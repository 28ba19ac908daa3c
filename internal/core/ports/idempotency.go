package ports

import (
	"context"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// IdempotencyStore remembers which record a client-supplied key produced.
type IdempotencyStore interface {
	// Lookup returns the record stored under key, or nil when the key is unknown.
	Lookup(ctx context.Context, key string) (*domain.Constituent, error)
	Remember(ctx context.Context, key string, c *domain.Constituent) error
}
