package repository

import (
	"context"
	"time"

	"farmshare-backend/internal/domain"
)

// Lookups by id return an error matching domain.ErrNotFound when the record
// does not exist. Records that fail typed decoding are reported as
// domain.ErrCorruptState. List methods preserve insertion order.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type EquipmentRepository interface {
	Create(ctx context.Context, item *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Update(ctx context.Context, item *domain.Equipment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Equipment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error)
	// Search matches term case-insensitively against name, location and description.
	Search(ctx context.Context, term string) ([]domain.Equipment, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.RentalRequest) error
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	// UpdateStatus moves a request from one status to another and records when.
	// The check and the write are atomic: when the stored status is no longer
	// from, nothing is written and the error matches domain.ErrAlreadyDecided.
	UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus, decidedAt time.Time) error
	ListByRenter(ctx context.Context, renterID string) ([]domain.RentalRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.RentalRequest, error)
	// ListByEquipment filters on status unless status is empty.
	ListByEquipment(ctx context.Context, equipmentID string, status domain.RentalStatus) ([]domain.RentalRequest, error)
	// ListPendingStartingBefore returns pending requests whose start date is before date (yyyy-mm-dd).
	ListPendingStartingBefore(ctx context.Context, date string) ([]domain.RentalRequest, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users     UserRepository
	Equipment EquipmentRepository
	Rentals   RentalRepository
	closeFn   func() error
}

func NewStore(users UserRepository, equipment EquipmentRepository, rentals RentalRepository, closeFn func() error) *Store {
	return &Store{
		Users:     users,
		Equipment: equipment,
		Rentals:   rentals,
		closeFn:   closeFn,
	}
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
