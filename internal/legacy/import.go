package legacy

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"
)

//go:embed seed.json
var seedDocument []byte

// Result counts what an import wrote and what it left alone.
type Result struct {
	Users     int `json:"users"`
	Equipment int `json:"equipment"`
	Rentals   int `json:"rentals"`
	Skipped   int `json:"skipped"`
}

// Import writes every record of snap that the store does not already hold.
// Running it twice with the same snapshot changes nothing the second time.
func Import(ctx context.Context, store *repository.Store, snap *Snapshot) (Result, error) {
	var res Result

	for i := range snap.Users {
		u := &snap.Users[i]
		created, err := createIfMissing("user", u.ID,
			func() error { _, err := store.Users.GetByID(ctx, u.ID); return err },
			func() error { return store.Users.Create(ctx, u) })
		if err != nil {
			return res, err
		}
		count(&res, &res.Users, created)
	}

	for i := range snap.Equipment {
		e := &snap.Equipment[i]
		created, err := createIfMissing("equipment", e.ID,
			func() error { _, err := store.Equipment.GetByID(ctx, e.ID); return err },
			func() error { return store.Equipment.Create(ctx, e) })
		if err != nil {
			return res, err
		}
		count(&res, &res.Equipment, created)
	}

	for i := range snap.Rentals {
		rt := &snap.Rentals[i]
		created, err := createIfMissing("rental request", rt.ID,
			func() error { _, err := store.Rentals.GetByID(ctx, rt.ID); return err },
			func() error { return store.Rentals.Create(ctx, rt) })
		if err != nil {
			return res, err
		}
		count(&res, &res.Rentals, created)
	}

	logger.Info("Legacy snapshot imported",
		"users", res.Users, "equipment", res.Equipment, "rentals", res.Rentals, "skipped", res.Skipped)
	return res, nil
}

func createIfMissing(what, id string, get, create func() error) (bool, error) {
	err := get()
	if err == nil {
		logger.Debug("Skipping existing record", "collection", what, "id", id)
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("failed to look up %s %s: %w", what, id, err)
	}
	if err := create(); err != nil {
		return false, fmt.Errorf("failed to import %s %s: %w", what, id, err)
	}
	return true, nil
}

func count(res *Result, n *int, created bool) {
	if created {
		*n++
		return
	}
	res.Skipped++
}

// Seed returns the sample catalog and users the marketplace ships with.
func Seed(now time.Time) (*Snapshot, error) {
	return Decode(bytes.NewReader(seedDocument), now)
}

// LoadSeed imports the sample data when the catalog is empty. It reports
// whether anything was loaded.
func LoadSeed(ctx context.Context, store *repository.Store, now time.Time) (bool, error) {
	existing, err := store.Equipment.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	snap, err := Seed(now)
	if err != nil {
		return false, err
	}
	if _, err := Import(ctx, store, snap); err != nil {
		return false, err
	}
	return true, nil
}
