package service

import (
	"context"
	"fmt"
	"strings"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/utils"
)

// DefaultAvailabilityDays is how long a new listing stays rentable when the
// owner does not pick a window.
const DefaultAvailabilityDays = 90

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	rentalRepo    repository.RentalRepository
	clock         Clock
	ids           IDGen
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository, rentalRepo repository.RentalRepository, clock Clock, ids IDGen) EquipmentService {
	if clock == nil {
		clock = SystemClock
	}
	if ids == nil {
		ids = NewUUIDGen()
	}
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		rentalRepo:    rentalRepo,
		clock:         clock,
		ids:           ids,
	}
}

func (s *equipmentService) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.equipmentRepo.List(ctx)
}

func (s *equipmentService) SearchEquipment(ctx context.Context, term string) ([]domain.Equipment, error) {
	return s.equipmentRepo.Search(ctx, term)
}

func (s *equipmentService) ListMyEquipment(ctx context.Context, session domain.Session) ([]domain.Equipment, error) {
	return s.equipmentRepo.ListByOwner(ctx, session.UserID)
}

func (s *equipmentService) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

func (s *equipmentService) CreateEquipment(ctx context.Context, session domain.Session, input domain.EquipmentInput) (*domain.Equipment, error) {
	const method = "EquipmentService.CreateEquipment"
	logger.EnterMethod(method, "ownerID", session.UserID, "name", input.Name)

	now := s.clock.Now()
	today := utils.FormatDate(now)
	if input.AvailableFrom == "" {
		input.AvailableFrom = today
	}
	if input.AvailableTo == "" {
		input.AvailableTo = utils.FormatDate(now.AddDate(0, 0, DefaultAvailabilityDays))
	}
	if err := validateEquipmentInput(&input); err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	item := &domain.Equipment{
		ID:        s.ids.NewID(now),
		OwnerID:   session.UserID,
		OwnerName: session.Name,
		CreatedOn: now,
		UpdatedOn: now,
	}
	applyInput(item, input)

	if err := s.equipmentRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	logger.ExitMethod(method, "equipmentID", item.ID)
	return item, nil
}

func (s *equipmentService) UpdateEquipment(ctx context.Context, session domain.Session, id string, input domain.EquipmentInput) (*domain.Equipment, error) {
	const method = "EquipmentService.UpdateEquipment"
	logger.EnterMethod(method, "ownerID", session.UserID, "equipmentID", id)

	item, err := s.ownedEquipment(ctx, session, id)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	if input.AvailableFrom == "" {
		input.AvailableFrom = item.AvailableFrom
	}
	if input.AvailableTo == "" {
		input.AvailableTo = item.AvailableTo
	}
	if err := validateEquipmentInput(&input); err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	applyInput(item, input)
	item.UpdatedOn = s.clock.Now()
	if err := s.equipmentRepo.Update(ctx, item); err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	logger.ExitMethod(method, "equipmentID", item.ID)
	return item, nil
}

func (s *equipmentService) DeleteEquipment(ctx context.Context, session domain.Session, id string) error {
	const method = "EquipmentService.DeleteEquipment"
	logger.EnterMethod(method, "ownerID", session.UserID, "equipmentID", id)

	if _, err := s.ownedEquipment(ctx, session, id); err != nil {
		logger.ExitMethodWithError(method, err)
		return err
	}

	pending, err := s.rentalRepo.ListByEquipment(ctx, id, domain.RentalStatusPending)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return fmt.Errorf("failed to check pending rental requests: %w", err)
	}
	if len(pending) > 0 {
		err := domain.NewError(domain.KindPendingRequests, "equipment %s has %d pending rental request(s)", id, len(pending))
		logger.ExitMethodWithError(method, err)
		return err
	}

	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError(method, err)
		return err
	}
	logger.ExitMethod(method, "equipmentID", id)
	return nil
}

func (s *equipmentService) ownedEquipment(ctx context.Context, session domain.Session, id string) (*domain.Equipment, error) {
	item, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != session.UserID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// validateEquipmentInput trims and checks the listing form. The window must
// already be filled in.
func validateEquipmentInput(in *domain.EquipmentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Name == "":
		return domain.NewError(domain.KindInvalidInput, "name is required")
	case in.Location == "":
		return domain.NewError(domain.KindInvalidInput, "location is required")
	case len(in.Images) == 0:
		return domain.NewError(domain.KindInvalidInput, "at least one image is required")
	case in.DailyRate < 0:
		return domain.NewError(domain.KindInvalidInput, "daily rate must not be negative")
	case in.DailyRate > domain.MaxDailyRate:
		return domain.NewError(domain.KindInvalidInput, "daily rate must not exceed %d", domain.MaxDailyRate)
	}

	from, to, err := utils.ParseRange(in.AvailableFrom, in.AvailableTo)
	if err != nil {
		return err
	}
	in.AvailableFrom = utils.FormatDate(from)
	in.AvailableTo = utils.FormatDate(to)
	return nil
}

func applyInput(item *domain.Equipment, in domain.EquipmentInput) {
	item.Name = in.Name
	item.Description = in.Description
	item.DailyRate = in.DailyRate
	item.Location = in.Location
	item.Images = append([]string(nil), in.Images...)
	item.AvailableFrom = in.AvailableFrom
	item.AvailableTo = in.AvailableTo
	item.InsuranceRequired = in.InsuranceRequired
}
