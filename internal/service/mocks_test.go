package service

import (
	"context"
	"sync"
	"time"

	"farmshare-backend/internal/domain"

	"github.com/stretchr/testify/mock"
	"gopkg.in/gomail.v2"
)

// MockRentalRepo
type MockRentalRepo struct{ mock.Mock }

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.RentalRequest) error {
	return m.Called(ctx, rt).Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus, decidedAt time.Time) error {
	return m.Called(ctx, id, from, to, decidedAt).Error(0)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID string) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) ListByEquipment(ctx context.Context, equipmentID string, status domain.RentalStatus) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, equipmentID, status)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) ListPendingStartingBefore(ctx context.Context, date string) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}

// MockEquipmentRepo
type MockEquipmentRepo struct{ mock.Mock }

func (m *MockEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEquipmentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockEquipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Search(ctx context.Context, term string) ([]domain.Equipment, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotifier
type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyRentalRequested(ctx context.Context, rt *domain.RentalRequest, owner *domain.User) error {
	return m.Called(ctx, rt, owner).Error(0)
}
func (m *MockNotifier) NotifyRentalDecided(ctx context.Context, rt *domain.RentalRequest, renter *domain.User) error {
	return m.Called(ctx, rt, renter).Error(0)
}

// MockEmailSender
type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	return m.Called(ctx, toEmail, toName, subject, body).Error(0)
}

// MockDialer
type MockDialer struct{ mock.Mock }

func (m *MockDialer) DialAndSend(msgs ...*gomail.Message) error {
	return m.Called(msgs).Error(0)
}

// fixedClock returns the same instant until moved.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(s string) *fixedClock {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &fixedClock{now: t}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// nopNotifier drops every notification.
type nopNotifier struct{}

func (nopNotifier) NotifyRentalRequested(context.Context, *domain.RentalRequest, *domain.User) error {
	return nil
}
func (nopNotifier) NotifyRentalDecided(context.Context, *domain.RentalRequest, *domain.User) error {
	return nil
}
