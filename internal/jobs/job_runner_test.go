package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmshare-backend/internal/config"
	"farmshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRentalService struct{ mock.Mock }

func (m *MockRentalService) CreateRentalRequest(ctx context.Context, s domain.Session, equipmentID, start, end string, insurance bool) (*domain.RentalConfirmation, error) {
	args := m.Called(ctx, s, equipmentID, start, end, insurance)
	return args.Get(0).(*domain.RentalConfirmation), args.Error(1)
}
func (m *MockRentalService) DecideRentalRequest(ctx context.Context, s domain.Session, id string, status domain.RentalStatus) (*domain.RentalRequest, error) {
	args := m.Called(ctx, s, id, status)
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ListRentalRequests(ctx context.Context, userID, role string) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) GetRentalRequest(ctx context.Context, s domain.Session, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, s, id)
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ExpireStaleRequests(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

func TestExpireStaleRentalRequests(t *testing.T) {
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	rentals := new(MockRentalService)
	jr := NewJobRunner(&Services{Rental: rentals}, &config.Config{}, stubClock{now})

	rentals.On("ExpireStaleRequests", mock.Anything, now).Return(2, nil).Once()
	require.NoError(t, jr.RunJob("expire-stale-requests"))

	rentals.On("ExpireStaleRequests", mock.Anything, now).Return(0, errors.New("db down")).Once()
	assert.EqualError(t, jr.RunAllNightlyJobs(), "db down")

	rentals.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(&Services{}, &config.Config{}, nil)

	err := jr.runWithRecovery("Boom", func(ctx context.Context) error {
		panic("nil map")
	})
	assert.ErrorContains(t, err, "panicked")

	err = jr.runWithRecovery("Deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	assert.NoError(t, err)
}

func TestRunJob_Unknown(t *testing.T) {
	jr := NewJobRunner(&Services{}, &config.Config{}, nil)
	assert.ErrorIs(t, jr.RunJob("bill-splitting"), ErrUnknownJob)
	assert.Equal(t, []string{"expire-stale-requests"}, jr.JobNames())
}
