package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nordkyc/internal/domain"
)

// PostgresStore persists customer records in Postgres. Uniqueness per
// (country, national_id) is enforced by the table's primary key; the insert
// uses ON CONFLICT DO NOTHING so losing writers observe zero affected rows
// instead of a constraint error.
//
// Expected schema:
//
//	CREATE TABLE customers (
//	    country       TEXT        NOT NULL,
//	    national_id   TEXT        NOT NULL,
//	    customer_id   UUID        NOT NULL,
//	    first_name    TEXT        NOT NULL,
//	    last_name     TEXT        NOT NULL,
//	    date_of_birth TEXT        NOT NULL,
//	    email         TEXT        NOT NULL,
//	    source        TEXT        NOT NULL,
//	    status        TEXT        NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (country, national_id)
//	);
//	CREATE INDEX customers_email_idx ON customers (email);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindByKey(ctx context.Context, key domain.CustomerKey) (*domain.CustomerRecord, error) {
	const query = `
		SELECT customer_id, national_id, country, first_name, last_name,
		       date_of_birth, email, source, status, created_at
		FROM customers
		WHERE country = $1 AND national_id = $2`

	var record domain.CustomerRecord
	err := s.pool.QueryRow(ctx, query, string(key.Country), key.NationalID).Scan(
		&record.CustomerID,
		&record.NationalID,
		&record.Country,
		&record.FirstName,
		&record.LastName,
		&record.DateOfBirth,
		&record.Email,
		&record.Source,
		&record.Status,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) Insert(ctx context.Context, record domain.CustomerRecord) error {
	const query = `
		INSERT INTO customers (
			country, national_id, customer_id, first_name, last_name,
			date_of_birth, email, source, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (country, national_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query,
		string(record.Country),
		record.NationalID,
		record.CustomerID,
		record.FirstName,
		record.LastName,
		record.DateOfBirth,
		record.Email,
		record.Source,
		string(record.Status),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}
