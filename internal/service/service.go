package service

import (
	"context"
	"io"
	"time"

	"farmshare-backend/internal/domain"
)

type UserService interface {
	// ResolveSession turns a caller-supplied user id into a session.
	ResolveSession(ctx context.Context, userID string) (domain.Session, error)
}

type EquipmentService interface {
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	SearchEquipment(ctx context.Context, term string) ([]domain.Equipment, error)
	ListMyEquipment(ctx context.Context, session domain.Session) ([]domain.Equipment, error)
	GetEquipment(ctx context.Context, id string) (*domain.Equipment, error)
	CreateEquipment(ctx context.Context, session domain.Session, input domain.EquipmentInput) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, session domain.Session, id string, input domain.EquipmentInput) (*domain.Equipment, error)
	DeleteEquipment(ctx context.Context, session domain.Session, id string) error
}

type RentalService interface {
	CreateRentalRequest(ctx context.Context, session domain.Session, equipmentID, startDate, endDate string, insuranceAccepted bool) (*domain.RentalConfirmation, error)
	DecideRentalRequest(ctx context.Context, session domain.Session, rentalID string, status domain.RentalStatus) (*domain.RentalRequest, error)
	ListRentalRequests(ctx context.Context, userID, role string) ([]domain.RentalRequest, error)
	GetRentalRequest(ctx context.Context, session domain.Session, rentalID string) (*domain.RentalRequest, error)
	// ExpireStaleRequests rejects pending requests whose start date is before asOf.
	ExpireStaleRequests(ctx context.Context, asOf time.Time) (int, error)
}

type ImageStorageService interface {
	UploadImage(ctx context.Context, session domain.Session, filename, contentType string, body io.Reader) (key, url string, err error)
	OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Notifier tells the other side of a rental request that something happened.
type Notifier interface {
	NotifyRentalRequested(ctx context.Context, rental *domain.RentalRequest, owner *domain.User) error
	NotifyRentalDecided(ctx context.Context, rental *domain.RentalRequest, renter *domain.User) error
}

// EmailSender delivers a single plain-text message.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}
