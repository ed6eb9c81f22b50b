package postgres

import (
	"context"
	"database/sql"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/utils"
)

const rentalColumns = `id, equipment_id, equipment_name, equipment_image, renter_id, renter_name, owner_id, start_date, end_date, total_days, total_cost, insurance_accepted, status, created_at, decided_at`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.RentalRequest, error) {
	rt := &domain.RentalRequest{}
	var start, end time.Time
	var decidedAt sql.NullTime
	err := row.Scan(&rt.ID, &rt.EquipmentID, &rt.EquipmentName, &rt.EquipmentImage, &rt.RenterID, &rt.RenterName, &rt.OwnerID, &start, &end, &rt.TotalDays, &rt.TotalCost, &rt.InsuranceAccepted, &rt.Status, &rt.CreatedAt, &decidedAt)
	if err != nil {
		return nil, err
	}
	if !rt.Status.Valid() {
		return nil, domain.CorruptState("rental request %s has unknown status %q", rt.ID, rt.Status)
	}
	rt.StartDate = utils.FormatDate(start)
	rt.EndDate = utils.FormatDate(end)
	if decidedAt.Valid {
		at := decidedAt.Time
		rt.DecidedAt = &at
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	query := `INSERT INTO rentals (` + rentalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	logger.DatabaseCall("insert", "INSERT INTO rentals", "rental_id", rt.ID)
	res, err := r.db.ExecContext(ctx, query, rt.ID, rt.EquipmentID, rt.EquipmentName, rt.EquipmentImage, rt.RenterID, rt.RenterName, rt.OwnerID, rt.StartDate, rt.EndDate, rt.TotalDays, rt.TotalCost, rt.InsuranceAccepted, rt.Status, rt.CreatedAt, rt.DecidedAt)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("insert", n, err, "rental_id", rt.ID)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "rental request", id)
	}
	return rt, nil
}

// UpdateStatus is a compare-and-set on status; the WHERE clause keeps a
// concurrent decision from being overwritten.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus, decidedAt time.Time) error {
	query := `UPDATE rentals SET status=$1, decided_at=$2 WHERE id=$3 AND status=$4`
	logger.DatabaseCall("update", "UPDATE rentals", "rental_id", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, to, decidedAt, id, from)
	if err != nil {
		logger.DatabaseResult("update", 0, err, "rental_id", id)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("update", n, err, "rental_id", id)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current domain.RentalStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM rentals WHERE id = $1`, id).Scan(&current)
	if err != nil {
		return notFound(err, "rental request", id)
	}
	return domain.AlreadyDecided(id, current)
}

func (r *rentalRepository) list(ctx context.Context, where string, args ...any) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + where + ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.RentalRequest{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.RentalRequest, error) {
	return r.list(ctx, "renter_id = $1", renterID)
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.RentalRequest, error) {
	return r.list(ctx, "owner_id = $1", ownerID)
}

func (r *rentalRepository) ListByEquipment(ctx context.Context, equipmentID string, status domain.RentalStatus) ([]domain.RentalRequest, error) {
	if status == "" {
		return r.list(ctx, "equipment_id = $1", equipmentID)
	}
	return r.list(ctx, "equipment_id = $1 AND status = $2", equipmentID, status)
}

func (r *rentalRepository) ListPendingStartingBefore(ctx context.Context, date string) ([]domain.RentalRequest, error) {
	return r.list(ctx, "status = $1 AND start_date < $2", domain.RentalStatusPending, date)
}
