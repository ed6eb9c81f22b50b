package sqlite

import (
	"context"
	"database/sql"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const rentalSelect = `
  SELECT
    id, equipment_id, equipment_name, equipment_image, renter_id, renter_name, owner_id,
    start_date, end_date, total_days, total_cost, insurance_accepted, status, created_at, decided_at
  FROM rentals`

type rentalRow struct {
	ID                string         `db:"id"`
	EquipmentID       string         `db:"equipment_id"`
	EquipmentName     string         `db:"equipment_name"`
	EquipmentImage    string         `db:"equipment_image"`
	RenterID          string         `db:"renter_id"`
	RenterName        string         `db:"renter_name"`
	OwnerID           string         `db:"owner_id"`
	StartDate         string         `db:"start_date"`
	EndDate           string         `db:"end_date"`
	TotalDays         int32          `db:"total_days"`
	TotalCost         int64          `db:"total_cost"`
	InsuranceAccepted bool           `db:"insurance_accepted"`
	Status            string         `db:"status"`
	CreatedAt         string         `db:"created_at"`
	DecidedAt         sql.NullString `db:"decided_at"`
}

func (row *rentalRow) toDomain() (*domain.RentalRequest, error) {
	status := domain.RentalStatus(row.Status)
	if !status.Valid() {
		return nil, domain.CorruptState("rental request %s has unknown status %q", row.ID, row.Status)
	}
	created, err := parseTime(row.CreatedAt, "rental request", row.ID)
	if err != nil {
		return nil, err
	}

	rt := &domain.RentalRequest{
		ID:                row.ID,
		EquipmentID:       row.EquipmentID,
		EquipmentName:     row.EquipmentName,
		EquipmentImage:    row.EquipmentImage,
		RenterID:          row.RenterID,
		RenterName:        row.RenterName,
		OwnerID:           row.OwnerID,
		StartDate:         row.StartDate,
		EndDate:           row.EndDate,
		TotalDays:         row.TotalDays,
		TotalCost:         row.TotalCost,
		InsuranceAccepted: row.InsuranceAccepted,
		Status:            status,
		CreatedAt:         created,
	}
	if row.DecidedAt.Valid {
		at, err := parseTime(row.DecidedAt.String, "rental request", row.ID)
		if err != nil {
			return nil, err
		}
		rt.DecidedAt = &at
	}
	return rt, nil
}

func decidedAtValue(rt *domain.RentalRequest) sql.NullString {
	if rt.DecidedAt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*rt.DecidedAt), Valid: true}
}

type RentalRepo struct{ db *sqlx.DB }

func NewRentalRepository(db *sqlx.DB) repository.RentalRepository {
	return &RentalRepo{db: db}
}

func (r *RentalRepo) Create(ctx context.Context, rt *domain.RentalRequest) error {
	_, err := r.db.ExecContext(ctx, `
  INSERT INTO rentals(id, equipment_id, equipment_name, equipment_image, renter_id, renter_name, owner_id,
    start_date, end_date, total_days, total_cost, insurance_accepted, status, created_at, decided_at)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.EquipmentID, rt.EquipmentName, rt.EquipmentImage, rt.RenterID, rt.RenterName, rt.OwnerID,
		rt.StartDate, rt.EndDate, rt.TotalDays, rt.TotalCost, rt.InsuranceAccepted, string(rt.Status),
		formatTime(rt.CreatedAt), decidedAtValue(rt))
	return err
}

func (r *RentalRepo) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	var row rentalRow
	if err := r.db.GetContext(ctx, &row, rentalSelect+` WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "rental request", id)
	}
	return row.toDomain()
}

func (r *RentalRepo) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus, decidedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE rentals SET status = ?, decided_at = ? WHERE id = ? AND status = ?`,
		string(to), formatTime(decidedAt), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current string
	if err := r.db.GetContext(ctx, &current, `SELECT status FROM rentals WHERE id = ?`, id); err != nil {
		return notFound(err, "rental request", id)
	}
	return domain.AlreadyDecided(id, domain.RentalStatus(current))
}

func (r *RentalRepo) selectAll(ctx context.Context, where string, args ...any) ([]domain.RentalRequest, error) {
	var rows []rentalRow
	if err := r.db.SelectContext(ctx, &rows, rentalSelect+` WHERE `+where+` ORDER BY seq`, args...); err != nil {
		return nil, err
	}

	out := make([]domain.RentalRequest, 0, len(rows))
	for i := range rows {
		rt, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, nil
}

func (r *RentalRepo) ListByRenter(ctx context.Context, renterID string) ([]domain.RentalRequest, error) {
	return r.selectAll(ctx, `renter_id = ?`, renterID)
}

func (r *RentalRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.RentalRequest, error) {
	return r.selectAll(ctx, `owner_id = ?`, ownerID)
}

func (r *RentalRepo) ListByEquipment(ctx context.Context, equipmentID string, status domain.RentalStatus) ([]domain.RentalRequest, error) {
	if status == "" {
		return r.selectAll(ctx, `equipment_id = ?`, equipmentID)
	}
	return r.selectAll(ctx, `equipment_id = ? AND status = ?`, equipmentID, string(status))
}

func (r *RentalRepo) ListPendingStartingBefore(ctx context.Context, date string) ([]domain.RentalRequest, error) {
	return r.selectAll(ctx, `status = ? AND start_date < ?`, string(domain.RentalStatusPending), date)
}
