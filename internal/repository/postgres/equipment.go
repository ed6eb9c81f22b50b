package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/utils"

	"github.com/lib/pq"
)

const equipmentColumns = `id, name, description, daily_rate, location, images, available_from, available_to, insurance_required, owner_id, owner_name, created_on, updated_on`

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func scanEquipment(row rowScanner) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	var from, to time.Time
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.DailyRate, &e.Location, pq.Array(&e.Images), &from, &to, &e.InsuranceRequired, &e.OwnerID, &e.OwnerName, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if e.DailyRate < 0 {
		return nil, domain.CorruptState("equipment %s has negative daily rate %d", e.ID, e.DailyRate)
	}
	e.AvailableFrom = utils.FormatDate(from)
	e.AvailableTo = utils.FormatDate(to)
	if e.Images == nil {
		e.Images = []string{}
	}
	return e, nil
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	query := `INSERT INTO equipment (` + equipmentColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Name, e.Description, e.DailyRate, e.Location, pq.Array(e.Images), e.AvailableFrom, e.AvailableTo, e.InsuranceRequired, e.OwnerID, e.OwnerName, e.CreatedOn, e.UpdatedOn)
	return err
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	e, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "equipment", id)
	}
	return e, nil
}

func (r *equipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	query := `UPDATE equipment SET name=$1, description=$2, daily_rate=$3, location=$4, images=$5, available_from=$6, available_to=$7, insurance_required=$8, updated_on=$9 WHERE id=$10`
	res, err := r.db.ExecContext(ctx, query, e.Name, e.Description, e.DailyRate, e.Location, pq.Array(e.Images), e.AvailableFrom, e.AvailableTo, e.InsuranceRequired, e.UpdatedOn, e.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "equipment", e.ID)
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "equipment", id)
}

func (r *equipmentRepository) list(ctx context.Context, where string, args ...any) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *equipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	return r.list(ctx, "")
}

func (r *equipmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	return r.list(ctx, "owner_id = $1", ownerID)
}

func (r *equipmentRepository) Search(ctx context.Context, term string) ([]domain.Equipment, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx)
	}
	pattern := "%" + escapeLike(term) + "%"
	return r.list(ctx, "name ILIKE $1 OR location ILIKE $1 OR description ILIKE $1", pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
