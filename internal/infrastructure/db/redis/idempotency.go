package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

const (
	keyPrefix  = "idempotency:constituents:"
	defaultTTL = 24 * time.Hour
)

// IdempotencyStore keeps the record each Idempotency-Key produced so a
// retried submission can be answered without touching the database.
// Key format: idempotency:constituents:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the remembered record, or nil when the key is unknown or
// has expired.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*domain.Constituent, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	var c domain.Constituent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &c, nil
}

// Remember stores c under key unless the key is already taken; the first
// record written for a key is the one replayed.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, c *domain.Constituent) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.SetNX(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Ping reports cache reachability for readiness checks.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return keyPrefix + k
}
