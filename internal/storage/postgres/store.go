// Package postgres provides Postgres-backed persistence for every
// repository interface in the module, sharing a single connection pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Store provides Postgres-backed persistence. One Store serves all
// repository interfaces.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[New] parse database url")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[New] connect to database")
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS areas (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			extension_active BOOLEAN NOT NULL DEFAULT FALSE,
			extension_days INT NOT NULL DEFAULT 0,
			anticipation_days INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL,
			area_id BIGINT REFERENCES areas(id),
			password_hash TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_access TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id BIGSERIAL PRIMARY KEY,
			area_id BIGINT NOT NULL REFERENCES areas(id),
			file_number TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			hire_date DATE NOT NULL,
			labor_category TEXT NOT NULL DEFAULT '',
			metro_line TEXT NOT NULL DEFAULT '',
			shift TEXT NOT NULL DEFAULT '',
			ticket_booth BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			rest_days TEXT[] NOT NULL DEFAULT '{}',
			rest_shift TEXT NOT NULL DEFAULT '',
			rest_line TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS vacation_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			requires_documents BOOLEAN NOT NULL DEFAULT FALSE,
			area_id BIGINT REFERENCES areas(id),
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS economic_day_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			help_text TEXT NOT NULL DEFAULT '',
			day_limit INT,
			area_id BIGINT REFERENCES areas(id),
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS requirements (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			mandatory BOOLEAN NOT NULL DEFAULT FALSE,
			area_id BIGINT REFERENCES areas(id),
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS signers (
			id BIGSERIAL PRIMARY KEY,
			area_id BIGINT NOT NULL REFERENCES areas(id),
			role TEXT NOT NULL,
			full_name TEXT NOT NULL,
			position TEXT NOT NULL DEFAULT '',
			sign_order INT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			folio TEXT UNIQUE NOT NULL,
			employee_id BIGINT NOT NULL REFERENCES employees(id),
			area_id BIGINT NOT NULL REFERENCES areas(id),
			kind TEXT NOT NULL,
			vacation_type_id BIGINT REFERENCES vacation_types(id),
			economic_day_type_id BIGINT REFERENCES economic_day_types(id),
			request_date DATE NOT NULL,
			start_date DATE NOT NULL,
			resume_date DATE NOT NULL,
			business_days INT NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			pdf_path TEXT NOT NULL DEFAULT '',
			pdf_generated_at TIMESTAMPTZ,
			rest_day_conflict BOOLEAN NOT NULL DEFAULT FALSE,
			warning TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by BIGINT REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS vacation_balances (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id),
			period TEXT NOT NULL,
			days_granted INT NOT NULL DEFAULT 0,
			days_used INT NOT NULL DEFAULT 0,
			days_available INT NOT NULL DEFAULT 0,
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			UNIQUE (employee_id, period)
		);`,
		`CREATE TABLE IF NOT EXISTS balance_movements (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id),
			period TEXT NOT NULL,
			movement_type TEXT NOT NULL,
			days_before INT NOT NULL,
			days_moved INT NOT NULL,
			days_after INT NOT NULL,
			request_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			moved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			token TEXT PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
			issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "[migrate] apply migrations")
		}
	}
	return nil
}

const uniqueViolationCode = "23505"
