package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/utils"
)

type rentalService struct {
	rentalRepo    repository.RentalRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	notifier      Notifier
	clock         Clock
	ids           IDGen
}

type RentalOption func(*rentalService)

func WithRentalClock(c Clock) RentalOption { return func(s *rentalService) { s.clock = c } }
func WithRentalIDGen(g IDGen) RentalOption { return func(s *rentalService) { s.ids = g } }

func NewRentalService(
	rentalRepo repository.RentalRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	opts ...RentalOption,
) RentalService {
	s := &rentalService{
		rentalRepo:    rentalRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		clock:         SystemClock,
		ids:           NewULIDGen(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *rentalService) CreateRentalRequest(ctx context.Context, session domain.Session, equipmentID, startDate, endDate string, insuranceAccepted bool) (*domain.RentalConfirmation, error) {
	const method = "RentalService.CreateRentalRequest"
	logger.EnterMethod(method, "renterID", session.UserID, "equipmentID", equipmentID, "startDate", startDate, "endDate", endDate)

	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		logger.ExitMethodWithError(method, domain.ErrMissingDates)
		return nil, domain.ErrMissingDates
	}

	item, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		logger.ExitMethodWithError(method, err, "equipmentID", equipmentID)
		return nil, err
	}

	start, end, err := utils.ParseRange(startDate, endDate)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}
	if err := utils.CheckAvailability(start, end, item); err != nil {
		logger.ExitMethodWithError(method, err, "availableFrom", item.AvailableFrom, "availableTo", item.AvailableTo)
		return nil, err
	}
	if item.InsuranceRequired && !insuranceAccepted {
		logger.ExitMethodWithError(method, domain.ErrInsuranceRequired, "equipmentID", equipmentID)
		return nil, domain.ErrInsuranceRequired
	}

	cost, err := utils.CalculateRental(start, end, item.DailyRate)
	if err != nil {
		logger.ExitMethodWithError(method, err, "equipmentID", equipmentID, "dailyRate", item.DailyRate)
		return nil, err
	}
	now := s.clock.Now()

	rental := &domain.RentalRequest{
		ID:                s.ids.NewID(now),
		EquipmentID:       item.ID,
		EquipmentName:     item.Name,
		EquipmentImage:    item.PrimaryImage(),
		RenterID:          session.UserID,
		RenterName:        session.Name,
		OwnerID:           item.OwnerID,
		StartDate:         utils.FormatDate(start),
		EndDate:           utils.FormatDate(end),
		TotalDays:         cost.TotalDays,
		TotalCost:         cost.TotalCost,
		InsuranceAccepted: insuranceAccepted,
		Status:            domain.RentalStatusPending,
		CreatedAt:         now,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		logger.ExitMethodWithError(method, err, "rentalID", rental.ID)
		return nil, fmt.Errorf("failed to store rental request: %w", err)
	}

	if owner := s.lookupUser(ctx, item.OwnerID); owner != nil {
		if err := s.notifier.NotifyRentalRequested(ctx, rental, owner); err != nil {
			logger.Warn("Failed to notify owner of rental request", "rentalID", rental.ID, "ownerID", owner.ID, "error", err)
		}
	}

	formatted := utils.FormatAmount(rental.TotalCost)
	logger.ExitMethod(method, "rentalID", rental.ID, "totalDays", rental.TotalDays, "totalCost", rental.TotalCost)
	return &domain.RentalConfirmation{
		Request:       rental,
		FormattedCost: formatted,
		Message:       confirmationMessage(rental, formatted),
	}, nil
}

func confirmationMessage(rt *domain.RentalRequest, formattedCost string) string {
	days := "days"
	if rt.TotalDays == 1 {
		days = "day"
	}
	msg := fmt.Sprintf("Rental request sent for %s: %d %s, total %s.", rt.EquipmentName, rt.TotalDays, days, formattedCost)
	if rt.InsuranceAccepted {
		msg += " Insurance accepted."
	}
	return msg
}

func (s *rentalService) DecideRentalRequest(ctx context.Context, session domain.Session, rentalID string, status domain.RentalStatus) (*domain.RentalRequest, error) {
	const method = "RentalService.DecideRentalRequest"
	logger.EnterMethod(method, "ownerID", session.UserID, "rentalID", rentalID, "status", status)

	if !status.IsDecision() {
		err := domain.NewError(domain.KindInvalidStatus, "cannot decide a rental request as %q", status)
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError(method, err, "rentalID", rentalID)
		return nil, err
	}
	if rt.OwnerID != session.UserID {
		logger.ExitMethodWithError(method, domain.ErrForbidden, "rentalID", rentalID, "ownerID", rt.OwnerID)
		return nil, domain.ErrForbidden
	}
	if err := s.transition(ctx, rt, status); err != nil {
		logger.ExitMethodWithError(method, err, "rentalID", rentalID)
		return nil, err
	}

	if renter := s.lookupUser(ctx, rt.RenterID); renter != nil {
		if err := s.notifier.NotifyRentalDecided(ctx, rt, renter); err != nil {
			logger.Warn("Failed to notify renter of decision", "rentalID", rt.ID, "renterID", renter.ID, "error", err)
		}
	}

	logger.ExitMethod(method, "rentalID", rt.ID, "status", rt.Status)
	return rt, nil
}

// transition moves rt out of its current status and persists it. The store
// only writes if the stored status still matches rt, so of two concurrent
// decisions one fails with AlreadyDecided. rt is left untouched on failure.
func (s *rentalService) transition(ctx context.Context, rt *domain.RentalRequest, status domain.RentalStatus) error {
	if !rt.Status.CanTransition(status) {
		return domain.AlreadyDecided(rt.ID, rt.Status)
	}

	decidedAt := s.clock.Now()
	if err := s.rentalRepo.UpdateStatus(ctx, rt.ID, rt.Status, status, decidedAt); err != nil {
		if domain.KindOf(err) != "" {
			return err
		}
		return fmt.Errorf("failed to update rental request: %w", err)
	}
	rt.Status = status
	rt.DecidedAt = &decidedAt
	return nil
}

func (s *rentalService) ListRentalRequests(ctx context.Context, userID, role string) ([]domain.RentalRequest, error) {
	r, err := domain.ParseRentalRole(role)
	if err != nil {
		return nil, err
	}
	if r == domain.RentalRoleOwner {
		return s.rentalRepo.ListByOwner(ctx, userID)
	}
	return s.rentalRepo.ListByRenter(ctx, userID)
}

func (s *rentalService) GetRentalRequest(ctx context.Context, session domain.Session, rentalID string) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != session.UserID && rt.OwnerID != session.UserID {
		return nil, domain.ErrForbidden
	}
	return rt, nil
}

func (s *rentalService) ExpireStaleRequests(ctx context.Context, asOf time.Time) (int, error) {
	const method = "RentalService.ExpireStaleRequests"
	cutoff := utils.FormatDate(asOf)
	logger.EnterMethod(method, "cutoff", cutoff)

	stale, err := s.rentalRepo.ListPendingStartingBefore(ctx, cutoff)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return 0, fmt.Errorf("failed to list stale rental requests: %w", err)
	}

	expired := 0
	for i := range stale {
		rt := &stale[i]
		if err := s.transition(ctx, rt, domain.RentalStatusRejected); err != nil {
			if errors.Is(err, domain.ErrAlreadyDecided) {
				logger.Info("Rental request decided before it could expire", "rentalID", rt.ID)
				continue
			}
			logger.Error("Failed to expire rental request", "rentalID", rt.ID, "error", err)
			continue
		}
		expired++
		if renter := s.lookupUser(ctx, rt.RenterID); renter != nil {
			if err := s.notifier.NotifyRentalDecided(ctx, rt, renter); err != nil {
				logger.Warn("Failed to notify renter of expiry", "rentalID", rt.ID, "error", err)
			}
		}
	}

	logger.ExitMethod(method, "found", len(stale), "expired", expired)
	return expired, nil
}

func (s *rentalService) lookupUser(ctx context.Context, id string) *domain.User {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Warn("Notification recipient not found", "userID", id, "error", err)
		return nil
	}
	return u
}
