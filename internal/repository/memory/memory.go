// Package memory keeps every collection in process memory. It backs unit tests
// and single-session demos; nothing survives a restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"
)

func NewStore() *repository.Store {
	return repository.NewStore(NewUserRepository(), NewEquipmentRepository(), NewRentalRepository(), nil)
}

type userRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID {
			return domain.NewError(domain.KindInvalidInput, "user %q already exists", user.ID)
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, domain.NotFound("user", id)
}

type equipmentRepository struct {
	mu    sync.RWMutex
	items []domain.Equipment
}

func NewEquipmentRepository() repository.EquipmentRepository {
	return &equipmentRepository{}
}

func copyEquipment(e domain.Equipment) domain.Equipment {
	e.Images = append([]string(nil), e.Images...)
	return e
}

func (r *equipmentRepository) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *equipmentRepository) Create(ctx context.Context, item *domain.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(item.ID) >= 0 {
		return domain.NewError(domain.KindInvalidInput, "equipment %q already exists", item.ID)
	}
	r.items = append(r.items, copyEquipment(*item))
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.NotFound("equipment", id)
	}
	out := copyEquipment(r.items[i])
	return &out, nil
}

func (r *equipmentRepository) Update(ctx context.Context, item *domain.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(item.ID)
	if i < 0 {
		return domain.NotFound("equipment", item.ID)
	}
	r.items[i] = copyEquipment(*item)
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.NotFound("equipment", id)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *equipmentRepository) filter(keep func(*domain.Equipment) bool) []domain.Equipment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Equipment{}
	for i := range r.items {
		if keep(&r.items[i]) {
			out = append(out, copyEquipment(r.items[i]))
		}
	}
	return out
}

func (r *equipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	return r.filter(func(*domain.Equipment) bool { return true }), nil
}

func (r *equipmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	return r.filter(func(e *domain.Equipment) bool { return e.OwnerID == ownerID }), nil
}

func (r *equipmentRepository) Search(ctx context.Context, term string) ([]domain.Equipment, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return r.filter(func(e *domain.Equipment) bool {
		return strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Location), term) ||
			strings.Contains(strings.ToLower(e.Description), term)
	}), nil
}

type rentalRepository struct {
	mu      sync.RWMutex
	rentals []domain.RentalRequest
}

func NewRentalRepository() repository.RentalRepository {
	return &rentalRepository{}
}

func copyRental(rt domain.RentalRequest) domain.RentalRequest {
	if rt.DecidedAt != nil {
		at := *rt.DecidedAt
		rt.DecidedAt = &at
	}
	return rt
}

func (r *rentalRepository) indexOf(id string) int {
	for i := range r.rentals {
		if r.rentals[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(rt.ID) >= 0 {
		return domain.NewError(domain.KindInvalidInput, "rental request %q already exists", rt.ID)
	}
	r.rentals = append(r.rentals, copyRental(*rt))
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.NotFound("rental request", id)
	}
	out := copyRental(r.rentals[i])
	return &out, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus, decidedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.NotFound("rental request", id)
	}
	rt := &r.rentals[i]
	if rt.Status != from {
		return domain.AlreadyDecided(id, rt.Status)
	}
	rt.Status = to
	rt.DecidedAt = &decidedAt
	return nil
}

func (r *rentalRepository) filter(keep func(*domain.RentalRequest) bool) []domain.RentalRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.RentalRequest{}
	for i := range r.rentals {
		if keep(&r.rentals[i]) {
			out = append(out, copyRental(r.rentals[i]))
		}
	}
	return out
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.RentalRequest, error) {
	return r.filter(func(rt *domain.RentalRequest) bool { return rt.RenterID == renterID }), nil
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.RentalRequest, error) {
	return r.filter(func(rt *domain.RentalRequest) bool { return rt.OwnerID == ownerID }), nil
}

func (r *rentalRepository) ListByEquipment(ctx context.Context, equipmentID string, status domain.RentalStatus) ([]domain.RentalRequest, error) {
	return r.filter(func(rt *domain.RentalRequest) bool {
		return rt.EquipmentID == equipmentID && (status == "" || rt.Status == status)
	}), nil
}

func (r *rentalRepository) ListPendingStartingBefore(ctx context.Context, date string) ([]domain.RentalRequest, error) {
	// yyyy-mm-dd compares correctly as a string
	return r.filter(func(rt *domain.RentalRequest) bool {
		return rt.Status == domain.RentalStatusPending && rt.StartDate < date
	}), nil
}
