package postgres

import (
	"context"
	"testing"
	"time"

	"farmshare-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var equipmentRowColumns = []string{"id", "name", "description", "daily_rate", "location", "images", "available_from", "available_to", "insurance_required", "owner_id", "owner_name", "created_on", "updated_on"}

func TestEquipmentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)
	now := time.Now()
	item := &domain.Equipment{
		ID:            "eq-1",
		Name:          "John Deere Tractor",
		DailyRate:     2500,
		Location:      "Mumbai, Maharashtra",
		Images:        []string{"a.jpg"},
		AvailableFrom: "2024-03-01",
		AvailableTo:   "2024-12-31",
		OwnerID:       "1",
		OwnerName:     "John Doe",
		CreatedOn:     now,
		UpdatedOn:     now,
	}

	mock.ExpectExec("INSERT INTO equipment").
		WithArgs(item.ID, item.Name, "", item.DailyRate, item.Location, sqlmock.AnyArg(), item.AvailableFrom, item.AvailableTo, false, item.OwnerID, item.OwnerName, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(equipmentRowColumns).
			AddRow("eq-1", "John Deere Tractor", "Powerful tractor", 2500, "Mumbai", "{a.jpg,b.jpg}", date("2024-03-01"), date("2024-12-31"), true, "1", "John Doe", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM equipment WHERE id = \\$1").
			WithArgs("eq-1").
			WillReturnRows(rows)

		item, err := repo.GetByID(ctx, "eq-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, item.Images)
		assert.Equal(t, "2024-03-01", item.AvailableFrom)
		assert.Equal(t, "2024-12-31", item.AvailableTo)
		assert.True(t, item.InsuranceRequired)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM equipment WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(equipmentRowColumns))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEquipmentRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM equipment WHERE name ILIKE \\$1 (.+) ORDER BY seq").
		WithArgs("%100\\%%").
		WillReturnRows(sqlmock.NewRows(equipmentRowColumns))

	items, err := repo.Search(context.Background(), " 100% ")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)

	mock.ExpectExec("DELETE FROM equipment WHERE id = \\$1").
		WithArgs("eq-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM equipment WHERE id = \\$1").
		WithArgs("eq-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "eq-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "eq-1"), domain.ErrNotFound)
}
