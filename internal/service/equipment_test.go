package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID(time.Time) string {
	g.n++
	return fmt.Sprintf("eq-%d", g.n)
}

func newEquipmentFixture(t *testing.T) (EquipmentService, *repository.Store, *fixedClock) {
	t.Helper()
	store := memory.NewStore()
	clock := newFixedClock("2024-02-10T12:00:00Z")
	return NewEquipmentService(store.Equipment, store.Rentals, clock, &seqIDs{}), store, clock
}

func tractorInput() domain.EquipmentInput {
	return domain.EquipmentInput{
		Name:              "  John Deere Tractor ",
		Description:       "Powerful tractor for farming",
		DailyRate:         2500,
		Location:          "Mumbai, Maharashtra",
		Images:            []string{"tractor.jpg"},
		AvailableFrom:     "2024-03-01",
		AvailableTo:       "2024-12-31",
		InsuranceRequired: true,
	}
}

func TestEquipmentService_CreateEquipment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store, clock := newEquipmentFixture(t)

		item, err := svc.CreateEquipment(ctx, session(owner), tractorInput())
		require.NoError(t, err)
		assert.Equal(t, "eq-1", item.ID)
		assert.Equal(t, "John Deere Tractor", item.Name)
		assert.Equal(t, owner.ID, item.OwnerID)
		assert.Equal(t, owner.Name, item.OwnerName)
		assert.Equal(t, clock.Now(), item.CreatedOn)

		stored, err := store.Equipment.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, *item, *stored)
	})

	t.Run("Default window", func(t *testing.T) {
		svc, _, _ := newEquipmentFixture(t)
		in := tractorInput()
		in.AvailableFrom, in.AvailableTo = "", ""

		item, err := svc.CreateEquipment(ctx, session(owner), in)
		require.NoError(t, err)
		assert.Equal(t, "2024-02-10", item.AvailableFrom)
		assert.Equal(t, "2024-05-10", item.AvailableTo)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, store, _ := newEquipmentFixture(t)
		cases := []struct {
			name   string
			mutate func(*domain.EquipmentInput)
			want   error
		}{
			{"no name", func(in *domain.EquipmentInput) { in.Name = " " }, domain.ErrInvalidInput},
			{"no location", func(in *domain.EquipmentInput) { in.Location = "" }, domain.ErrInvalidInput},
			{"no images", func(in *domain.EquipmentInput) { in.Images = nil }, domain.ErrInvalidInput},
			{"negative rate", func(in *domain.EquipmentInput) { in.DailyRate = -1 }, domain.ErrInvalidInput},
			{"rate over cap", func(in *domain.EquipmentInput) { in.DailyRate = domain.MaxDailyRate + 1 }, domain.ErrInvalidInput},
			{"reversed window", func(in *domain.EquipmentInput) { in.AvailableFrom, in.AvailableTo = "2024-12-31", "2024-03-01" }, domain.ErrInvalidRange},
			{"bad date", func(in *domain.EquipmentInput) { in.AvailableTo = "31/12/2024" }, domain.ErrInvalidRange},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := tractorInput()
				tc.mutate(&in)
				_, err := svc.CreateEquipment(ctx, session(owner), in)
				assert.ErrorIs(t, err, tc.want)
			})
		}

		all, err := store.Equipment.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestEquipmentService_UpdateEquipment(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newEquipmentFixture(t)

	item, err := svc.CreateEquipment(ctx, session(owner), tractorInput())
	require.NoError(t, err)

	t.Run("Keeps window when omitted", func(t *testing.T) {
		clock.Advance(time.Hour)
		in := tractorInput()
		in.DailyRate = 3000
		in.AvailableFrom, in.AvailableTo = "", ""

		updated, err := svc.UpdateEquipment(ctx, session(owner), item.ID, in)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), updated.DailyRate)
		assert.Equal(t, "2024-03-01", updated.AvailableFrom)
		assert.Equal(t, "2024-12-31", updated.AvailableTo)
		assert.Equal(t, clock.Now(), updated.UpdatedOn)
		assert.Equal(t, item.CreatedOn, updated.CreatedOn)
	})

	t.Run("Owner only", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, session(renter), item.ID, tractorInput())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, session(owner), "nope", tractorInput())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Window must stay ordered", func(t *testing.T) {
		in := tractorInput()
		in.AvailableFrom, in.AvailableTo = "2025-01-01", ""
		_, err := svc.UpdateEquipment(ctx, session(owner), item.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})
}

func TestEquipmentService_DeleteEquipment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newEquipmentFixture(t)

	item, err := svc.CreateEquipment(ctx, session(owner), tractorInput())
	require.NoError(t, err)

	rentals := NewRentalService(store.Rentals, store.Equipment, store.Users, nopNotifier{},
		WithRentalClock(newFixedClock("2024-02-11T00:00:00Z")))
	conf, err := rentals.CreateRentalRequest(ctx, session(renter), item.ID, "2024-03-10", "2024-03-13", true)
	require.NoError(t, err)

	err = svc.DeleteEquipment(ctx, session(renter), item.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteEquipment(ctx, session(owner), item.ID)
	assert.ErrorIs(t, err, domain.ErrPendingRequests)

	_, err = rentals.DecideRentalRequest(ctx, session(owner), conf.Request.ID, domain.RentalStatusRejected)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEquipment(ctx, session(owner), item.ID))
	_, err = svc.GetEquipment(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// decided requests stay as history
	hist, err := store.Rentals.ListByEquipment(ctx, item.ID, "")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestEquipmentService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEquipmentRepo)
	svc := NewEquipmentService(repo, new(MockRentalRepo), nil, nil)

	items := []domain.Equipment{{ID: "1", Name: "John Deere Tractor"}}
	repo.On("List", mock.Anything).Return(items, nil)
	repo.On("Search", mock.Anything, "tractor").Return(items, nil)
	repo.On("ListByOwner", mock.Anything, owner.ID).Return(items, nil)
	repo.On("GetByID", mock.Anything, "2").Return(nil, errors.New("boom"))

	got, err := svc.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, got)

	got, err = svc.SearchEquipment(ctx, "tractor")
	require.NoError(t, err)
	assert.Equal(t, items, got)

	got, err = svc.ListMyEquipment(ctx, session(owner))
	require.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = svc.GetEquipment(ctx, "2")
	assert.EqualError(t, err, "boom")

	repo.AssertExpectations(t)
}
