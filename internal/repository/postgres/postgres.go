package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS equipment (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	daily_rate BIGINT NOT NULL CHECK (daily_rate >= 0),
	location TEXT NOT NULL,
	images TEXT[] NOT NULL DEFAULT '{}',
	available_from DATE NOT NULL,
	available_to DATE NOT NULL,
	insurance_required BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id TEXT NOT NULL,
	owner_name TEXT NOT NULL DEFAULT '',
	created_on TIMESTAMPTZ NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL,
	CHECK (available_from <= available_to)
);
CREATE INDEX IF NOT EXISTS idx_equipment_owner ON equipment(owner_id);

-- equipment_id is a weak reference: decided requests outlive their listing
CREATE TABLE IF NOT EXISTS rentals (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	equipment_id TEXT NOT NULL,
	equipment_name TEXT NOT NULL DEFAULT '',
	equipment_image TEXT NOT NULL DEFAULT '',
	renter_id TEXT NOT NULL,
	renter_name TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	total_days INTEGER NOT NULL,
	total_cost BIGINT NOT NULL,
	insurance_accepted BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	decided_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_rentals_renter ON rentals(renter_id);
CREATE INDEX IF NOT EXISTS idx_rentals_owner ON rentals(owner_id);
CREATE INDEX IF NOT EXISTS idx_rentals_equipment ON rentals(equipment_id);
`

// Open connects to PostgreSQL, verifies the connection and makes sure the
// schema exists.
func Open(ctx context.Context, dsn string) (*repository.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("ensure_schema", "CREATE TABLE IF NOT EXISTS ...")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("ensure_schema", 0, err)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func NewStore(db *sql.DB) *repository.Store {
	return repository.NewStore(
		NewUserRepository(db),
		NewEquipmentRepository(db),
		NewRentalRepository(db),
		db.Close,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows onto the domain error and passes anything else through.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(what, id)
	}
	return err
}

func checkAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(what, id)
	}
	return nil
}
