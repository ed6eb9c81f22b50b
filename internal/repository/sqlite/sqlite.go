// Package sqlite stores the marketplace in a single embedded SQLite file, the
// server-side stand-in for the browser storage the product started on.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS equipment(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  daily_rate INTEGER NOT NULL CHECK (daily_rate >= 0),
  location TEXT NOT NULL,
  images_json TEXT NOT NULL DEFAULT '[]',
  available_from TEXT NOT NULL,
  available_to TEXT NOT NULL,
  insurance_required INTEGER NOT NULL DEFAULT 0,
  owner_id TEXT NOT NULL,
  owner_name TEXT NOT NULL DEFAULT '',
  created_on TEXT NOT NULL,
  updated_on TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_equipment_owner ON equipment(owner_id);

CREATE TABLE IF NOT EXISTS rentals(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL DEFAULT '',
  equipment_image TEXT NOT NULL DEFAULT '',
  renter_id TEXT NOT NULL,
  renter_name TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  total_days INTEGER NOT NULL,
  total_cost INTEGER NOT NULL,
  insurance_accepted INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  created_at TEXT NOT NULL,
  decided_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_rentals_renter ON rentals(renter_id);
CREATE INDEX IF NOT EXISTS idx_rentals_owner ON rentals(owner_id);
CREATE INDEX IF NOT EXISTS idx_rentals_equipment ON rentals(equipment_id);
`

// Open opens (or creates) the database at dsn and makes sure the schema exists.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string) (*repository.Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func NewStore(db *sqlx.DB) *repository.Store {
	return repository.NewStore(
		NewUserRepository(db),
		NewEquipmentRepository(db),
		NewRentalRepository(db),
		db.Close,
	)
}

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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s, what, id string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, domain.CorruptState("%s %s has invalid timestamp %q", what, id, s)
	}
	return t, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeImages(raw, id string) ([]string, error) {
	images := []string{}
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, domain.CorruptState("equipment %s has invalid images_json: %v", id, err)
	}
	return images, nil
}
