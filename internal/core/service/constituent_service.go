package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/civicreg/constituent-service/internal/core/domain"
	"github.com/civicreg/constituent-service/internal/core/ports"
)

// Caller-visible details for duplicate and check failures.
const (
	detailEmailExists     = "email already exists"
	detailDuplicate       = "duplicate constituent"
	detailDuplicateRecord = "This record already exists in the database."
	detailCheckFailed     = "The provided data failed validation rules."
)

// Storage operation names carried by domain.StorageError.
const (
	OpCreate = "create"
	OpList   = "list"
	OpExport = "export"
)

type ConstituentService struct {
	repo         ports.ConstituentRepository
	idempotency  ports.IdempotencyStore
	validate     *validator.Validate
	allowZeroAge bool
	logger       zerolog.Logger
}

// Option configures a ConstituentService.
type Option func(*ConstituentService)

// WithIdempotencyStore enables Idempotency-Key replay backed by store.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *ConstituentService) {
		s.idempotency = store
	}
}

// WithZeroAgeAllowed controls whether an explicit age of 0 passes the
// presence check.
func WithZeroAgeAllowed(allow bool) Option {
	return func(s *ConstituentService) {
		s.allowZeroAge = allow
	}
}

func NewConstituentService(repo ports.ConstituentRepository, logger zerolog.Logger, opts ...Option) *ConstituentService {
	s := &ConstituentService{
		repo:     repo,
		validate: newValidator(),
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit validates a candidate, runs the advisory name+age pre-check and
// inserts it. The pre-check can race with a concurrent submission; the
// store's unique constraints decide, and their violations come back as
// *domain.DuplicateError just like a pre-check hit.
func (s *ConstituentService) Submit(ctx context.Context, input ports.SubmitInput) (*ports.SubmitResult, error) {
	c := input.Candidate

	if err := checkPresence(s.validate, c, s.allowZeroAge); err != nil {
		s.logger.Warn().Err(err).Msg("candidate rejected")
		return nil, err
	}

	if prior := s.replay(ctx, input.IdempotencyKey); prior != nil {
		return &ports.SubmitResult{Constituent: prior, Replayed: true}, nil
	}

	exists, err := s.repo.ExistsByNameAge(ctx, c.FirstName, c.LastName, *c.Age)
	if err != nil {
		s.logger.Error().Err(err).Msg("duplicate pre-check failed")
		return nil, &domain.StorageError{Op: OpCreate, Err: err}
	}
	if exists {
		s.logger.Info().
			Str("first_name", c.FirstName).
			Str("last_name", c.LastName).
			Int("age", *c.Age).
			Msg("duplicate constituent rejected by pre-check")
		return nil, &domain.DuplicateError{Kind: domain.DuplicateNameAge, Detail: detailDuplicate}
	}

	created, err := s.repo.Insert(ctx, ports.CreateConstituentParams{
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           *c.Age,
		Phone:         c.Phone,
		Email:         c.Email,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		District:      c.District,
	})
	if err != nil {
		return nil, s.translateInsertError(err)
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, input.IdempotencyKey, created); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().Str("id", created.ID).Msg("constituent created")
	return &ports.SubmitResult{Constituent: created}, nil
}

// replay returns the record an earlier submission with the same key
// produced. Idempotency store failures are logged and treated as a miss.
func (s *ConstituentService) replay(ctx context.Context, key string) *domain.Constituent {
	if key == "" || s.idempotency == nil {
		return nil
	}
	prior, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, submitting anyway")
		return nil
	}
	if prior != nil {
		s.logger.Info().Str("idempotency_key", key).Str("id", prior.ID).Msg("idempotent replay")
	}
	return prior
}

// translateInsertError maps the store's constraint contract onto the domain
// error taxonomy. Anything unclassified becomes a StorageError.
func (s *ConstituentService) translateInsertError(err error) error {
	var se *ports.StoreError
	if !errors.As(err, &se) {
		s.logger.Error().Err(err).Msg("failed to insert constituent")
		return &domain.StorageError{Op: OpCreate, Err: err}
	}

	s.logger.Info().Str("kind", se.Kind.String()).Str("constraint", se.Constraint).Msg("insert rejected by store constraint")

	switch se.Kind {
	case ports.StoreConflictEmail:
		return &domain.DuplicateError{Kind: domain.DuplicateEmail, Detail: detailEmailExists}
	case ports.StoreConflictNameAge:
		return &domain.DuplicateError{Kind: domain.DuplicateNameAge, Detail: detailDuplicate}
	case ports.StoreConflictOther:
		return &domain.DuplicateError{Kind: domain.DuplicateGeneric, Detail: orDefault(se.Detail, detailDuplicateRecord)}
	case ports.StoreCheckFailed:
		return &domain.ValidationError{Reason: domain.ReasonCheckFailed, Detail: orDefault(se.Detail, detailCheckFailed)}
	default:
		return &domain.StorageError{Op: OpCreate, Err: err}
	}
}

// List returns all constituents, most recent first.
func (s *ConstituentService) List(ctx context.Context) ([]*domain.Constituent, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list constituents")
		return nil, &domain.StorageError{Op: OpList, Err: err}
	}
	return records, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
