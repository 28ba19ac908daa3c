package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicreg/constituent-service/internal/core/domain"
	"github.com/civicreg/constituent-service/internal/core/ports"
)

const constituentColumns = `
	id::text, first_name, last_name, age, phone, email, street_address,
	city, state, zip, district, status, created_at, updated_at`

// ConstituentRepository implements ports.ConstituentRepository on PostgreSQL.
type ConstituentRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewConstituentRepository(pool *pgxpool.Pool, timeout time.Duration) *ConstituentRepository {
	return &ConstituentRepository{pool: pool, timeout: timeoutOrDefault(timeout)}
}

// ExistsByNameAge reports whether a constituent with this exact triple exists.
func (r *ConstituentRepository) ExistsByNameAge(ctx context.Context, firstName, lastName string, age int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const existsSQL = `
		SELECT EXISTS (
			SELECT 1 FROM constituents
			WHERE first_name = $1 AND last_name = $2 AND age = $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, existsSQL, firstName, lastName, age).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: exists by name and age: %w", err)
	}
	return exists, nil
}

// Insert writes the row and returns it as persisted.
func (r *ConstituentRepository) Insert(ctx context.Context, p ports.CreateConstituentParams) (*domain.Constituent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	insertSQL := `
		INSERT INTO constituents (first_name, last_name, age, phone, email, street_address, city, state, zip, district)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + constituentColumns

	c, err := scanConstituent(r.pool.QueryRow(ctx, insertSQL,
		p.FirstName, p.LastName, p.Age, p.Phone, p.Email,
		p.StreetAddress, p.City, p.State, p.Zip, p.District,
	))
	if err != nil {
		return nil, fmt.Errorf("postgres: insert constituent: %w", classify(err))
	}
	return c, nil
}

// List returns every constituent, newest first.
func (r *ConstituentRepository) List(ctx context.Context) ([]*domain.Constituent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	listSQL := `SELECT ` + constituentColumns + ` FROM constituents ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("postgres: list constituents: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Constituent, error) {
		return scanConstituent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan constituents: %w", err)
	}
	return out, nil
}

// Ping checks that the pool can reach the database.
func (r *ConstituentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanConstituent(row pgx.Row) (*domain.Constituent, error) {
	var c domain.Constituent
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Age,
		&c.Phone,
		&c.Email,
		&c.StreetAddress,
		&c.City,
		&c.State,
		&c.Zip,
		&c.District,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
