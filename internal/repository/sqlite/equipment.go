package sqlite

import (
	"context"
	"strings"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const equipmentSelect = `
  SELECT
    id, name, description, daily_rate, location, images_json, available_from, available_to,
    insurance_required, owner_id, owner_name, created_on, updated_on
  FROM equipment`

type equipmentRow struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Description       string `db:"description"`
	DailyRate         int64  `db:"daily_rate"`
	Location          string `db:"location"`
	ImagesJSON        string `db:"images_json"`
	AvailableFrom     string `db:"available_from"`
	AvailableTo       string `db:"available_to"`
	InsuranceRequired bool   `db:"insurance_required"`
	OwnerID           string `db:"owner_id"`
	OwnerName         string `db:"owner_name"`
	CreatedOn         string `db:"created_on"`
	UpdatedOn         string `db:"updated_on"`
}

func (row *equipmentRow) toDomain() (*domain.Equipment, error) {
	images, err := decodeImages(row.ImagesJSON, row.ID)
	if err != nil {
		return nil, err
	}
	created, err := parseTime(row.CreatedOn, "equipment", row.ID)
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(row.UpdatedOn, "equipment", row.ID)
	if err != nil {
		return nil, err
	}
	if row.DailyRate < 0 {
		return nil, domain.CorruptState("equipment %s has negative daily rate %d", row.ID, row.DailyRate)
	}
	return &domain.Equipment{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		DailyRate:         row.DailyRate,
		Location:          row.Location,
		Images:            images,
		AvailableFrom:     row.AvailableFrom,
		AvailableTo:       row.AvailableTo,
		InsuranceRequired: row.InsuranceRequired,
		OwnerID:           row.OwnerID,
		OwnerName:         row.OwnerName,
		CreatedOn:         created,
		UpdatedOn:         updated,
	}, nil
}

type EquipmentRepo struct{ db *sqlx.DB }

func NewEquipmentRepository(db *sqlx.DB) repository.EquipmentRepository {
	return &EquipmentRepo{db: db}
}

func (r *EquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	images, err := encodeImages(e.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
  INSERT INTO equipment(id, name, description, daily_rate, location, images_json, available_from, available_to,
    insurance_required, owner_id, owner_name, created_on, updated_on)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Description, e.DailyRate, e.Location, images, e.AvailableFrom, e.AvailableTo,
		e.InsuranceRequired, e.OwnerID, e.OwnerName, formatTime(e.CreatedOn), formatTime(e.UpdatedOn))
	return err
}

func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	var row equipmentRow
	if err := r.db.GetContext(ctx, &row, equipmentSelect+` WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "equipment", id)
	}
	return row.toDomain()
}

func (r *EquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	images, err := encodeImages(e.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
  UPDATE equipment
  SET name = ?, description = ?, daily_rate = ?, location = ?, images_json = ?, available_from = ?,
    available_to = ?, insurance_required = ?, updated_on = ?
  WHERE id = ?`,
		e.Name, e.Description, e.DailyRate, e.Location, images, e.AvailableFrom,
		e.AvailableTo, e.InsuranceRequired, formatTime(e.UpdatedOn), e.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "equipment", e.ID)
}

func (r *EquipmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "equipment", id)
}

func (r *EquipmentRepo) selectAll(ctx context.Context, where string, args ...any) ([]domain.Equipment, error) {
	query := equipmentSelect
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY seq`

	var rows []equipmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]domain.Equipment, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *EquipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	return r.selectAll(ctx, "")
}

func (r *EquipmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	return r.selectAll(ctx, `owner_id = ?`, ownerID)
}

func (r *EquipmentRepo) Search(ctx context.Context, term string) ([]domain.Equipment, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return r.List(ctx)
	}
	p := "%" + term + "%"
	return r.selectAll(ctx, `(LOWER(name) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?)`, p, p, p)
}
