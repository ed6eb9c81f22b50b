package sqlite

import (
	"context"
	"testing"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEquipment(id, owner string) *domain.Equipment {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Equipment{
		ID:                id,
		Name:              "John Deere Tractor",
		Description:       "Powerful tractor for farming",
		DailyRate:         2500,
		Location:          "Mumbai, Maharashtra",
		Images:            []string{"tractor.jpg"},
		AvailableFrom:     "2024-03-01",
		AvailableTo:       "2024-12-31",
		InsuranceRequired: true,
		OwnerID:           owner,
		OwnerName:         "John Doe",
		CreatedOn:         now,
		UpdatedOn:         now,
	}
}

func sampleRental(id, equipmentID, start string) *domain.RentalRequest {
	return &domain.RentalRequest{
		ID:                id,
		EquipmentID:       equipmentID,
		EquipmentName:     "John Deere Tractor",
		RenterID:          "2",
		RenterName:        "Jane Smith",
		OwnerID:           "1",
		StartDate:         start,
		EndDate:           "2024-04-13",
		TotalDays:         3,
		TotalCost:         7500,
		InsuranceAccepted: true,
		Status:            domain.RentalStatusPending,
		CreatedAt:         time.Date(2024, 3, 20, 8, 30, 0, 0, time.UTC),
	}
}

func TestUserRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &domain.User{ID: "1", Name: "John Doe", Email: "john@example.com"}))

	u, err := store.Users.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)

	_, err = store.Users.GetByID(ctx, "9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEquipmentRepository_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := sampleEquipment("eq-1", "1")
	require.NoError(t, store.Equipment.Create(ctx, item))

	got, err := store.Equipment.GetByID(ctx, "eq-1")
	require.NoError(t, err)
	assert.Equal(t, item.Images, got.Images)
	assert.Equal(t, int64(2500), got.DailyRate)
	assert.True(t, got.InsuranceRequired)
	assert.True(t, item.CreatedOn.Equal(got.CreatedOn))

	got.DailyRate = 3000
	got.Images = append(got.Images, "side.jpg")
	require.NoError(t, store.Equipment.Update(ctx, got))

	again, err := store.Equipment.GetByID(ctx, "eq-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), again.DailyRate)
	assert.Len(t, again.Images, 2)

	require.NoError(t, store.Equipment.Delete(ctx, "eq-1"))
	_, err = store.Equipment.GetByID(ctx, "eq-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Equipment.Delete(ctx, "eq-1"), domain.ErrNotFound)
}

func TestEquipmentRepository_ListAndSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := sampleEquipment("eq-1", "1")
	second := sampleEquipment("eq-2", "2")
	second.Name = "Harvester Machine"
	second.Location = "Delhi, NCR"
	require.NoError(t, store.Equipment.Create(ctx, first))
	require.NoError(t, store.Equipment.Create(ctx, second))

	all, err := store.Equipment.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "eq-1", all[0].ID)
	assert.Equal(t, "eq-2", all[1].ID)

	mine, err := store.Equipment.ListByOwner(ctx, "2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "eq-2", mine[0].ID)

	found, err := store.Equipment.Search(ctx, "DELHI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Harvester Machine", found[0].Name)
}

func TestEquipmentRepository_CorruptImages(t *testing.T) {
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	repo := store.Equipment.(*EquipmentRepo)
	require.NoError(t, repo.Create(ctx, sampleEquipment("eq-1", "1")))

	_, err = repo.db.ExecContext(ctx, `UPDATE equipment SET images_json = 'not json' WHERE id = ?`, "eq-1")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "eq-1")
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}

func TestRentalRepository_Lifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Rentals.Create(ctx, sampleRental("r-1", "eq-1", "2024-04-10")))
	require.NoError(t, store.Rentals.Create(ctx, sampleRental("r-2", "eq-1", "2024-05-10")))

	got, err := store.Rentals.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusPending, got.Status)
	assert.Nil(t, got.DecidedAt)

	decided := time.Date(2024, 3, 21, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Rentals.UpdateStatus(ctx, "r-1", domain.RentalStatusPending, domain.RentalStatusApproved, decided))

	err = store.Rentals.UpdateStatus(ctx, "r-1", domain.RentalStatusPending, domain.RentalStatusRejected, decided.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	got, err = store.Rentals.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusApproved, got.Status)
	require.NotNil(t, got.DecidedAt)
	assert.True(t, decided.Equal(*got.DecidedAt))

	byOwner, err := store.Rentals.ListByOwner(ctx, "1")
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	assert.Equal(t, "r-1", byOwner[0].ID)

	pending, err := store.Rentals.ListByEquipment(ctx, "eq-1", domain.RentalStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r-2", pending[0].ID)

	stale, err := store.Rentals.ListPendingStartingBefore(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "r-2", stale[0].ID)

	err = store.Rentals.UpdateStatus(ctx, "r-9", domain.RentalStatusPending, domain.RentalStatusApproved, decided)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRentalRepository_CorruptStatus(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	repo := store.Rentals.(*RentalRepo)
	require.NoError(t, repo.Create(ctx, sampleRental("r-1", "eq-1", "2024-04-10")))

	_, err := repo.db.ExecContext(ctx, `UPDATE rentals SET status = 'cancelled' WHERE id = ?`, "r-1")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "r-1")
	assert.ErrorIs(t, err, domain.ErrCorruptState)

	_, err = repo.ListByRenter(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}
