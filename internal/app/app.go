// Package app builds the service graph from configuration. The server, the
// cron runner and the importer share it so they agree on store and
// notifier selection.
package app

import (
	"context"
	"fmt"
	"time"

	"farmshare-backend/internal/config"
	"farmshare-backend/internal/legacy"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/repository"
	"farmshare-backend/internal/repository/memory"
	"farmshare-backend/internal/repository/postgres"
	"farmshare-backend/internal/repository/sqlite"
	"farmshare-backend/internal/service"
	"farmshare-backend/internal/storage"
)

// App holds the store and every service built on it
type App struct {
	Store     *repository.Store
	Users     service.UserService
	Equipment service.EquipmentService
	Rentals   service.RentalService
	Images    service.ImageStorageService

	emailQueue *service.EmailQueue
}

// OpenStore connects the backend named by cfg.Store.Type
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.Store.Type {
	case "memory":
		logger.Info("Using in-memory store")
		return memory.NewStore(), nil
	case "sqlite":
		logger.Info("Opening SQLite store", "path", cfg.Store.SQLitePath)
		return sqlite.Open(ctx, cfg.Store.SQLitePath)
	case "postgres":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port,
			"database", cfg.Database.Database, "user", cfg.Database.User)
		return postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Store.Type)
	}
}

// NewEmailSender picks the transport named by cfg.Email.Provider
func NewEmailSender(cfg *config.Config) (service.EmailSender, error) {
	switch cfg.Email.Provider {
	case "smtp":
		logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		return service.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password,
			cfg.Email.From, cfg.Email.FromName), nil
	case "sendgrid":
		logger.Info("Using SendGrid for email", "from", cfg.Email.From)
		return service.NewSendGridSender(cfg.SendGrid.APIKey, cfg.Email.From, cfg.Email.FromName), nil
	case "log":
		logger.Info("Email delivery disabled, messages are logged")
		return service.NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
	}
}

// New opens the store and wires the services. Close the returned App when
// done with it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sender, err := NewEmailSender(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	images, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir, cfg.Storage.MaxFileSizeMB<<20)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	if cfg.Seed.Enabled {
		loaded, err := legacy.LoadSeed(ctx, store, time.Now().UTC())
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load seed data: %w", err)
		}
		if loaded {
			logger.Info("Loaded sample catalog into empty store")
		}
	}

	a := &App{Store: store}
	if cfg.Email.QueueWorkers > 0 {
		logger.Info("Email delivery queued", "workers", cfg.Email.QueueWorkers,
			"queue_size", cfg.Email.QueueSize, "max_retries", cfg.Email.MaxRetries)
		a.emailQueue = service.NewEmailQueue(sender, cfg.Email.QueueSize, cfg.Email.MaxRetries)
		a.emailQueue.Start(ctx, cfg.Email.QueueWorkers)
		sender = a.emailQueue
	}

	notifier := service.NewEmailNotifier(sender, cfg.Email.FromName)
	a.Users = service.NewUserService(store.Users)
	a.Equipment = service.NewEquipmentService(store.Equipment, store.Rentals, nil, nil)
	a.Rentals = service.NewRentalService(store.Rentals, store.Equipment, store.Users, notifier)
	a.Images = service.NewImageStorageService(images)
	return a, nil
}

// Close drains queued email and releases the store. It is safe to call
// more than once.
func (a *App) Close() error {
	if a.emailQueue != nil {
		a.emailQueue.Stop()
	}
	return a.Store.Close()
}
