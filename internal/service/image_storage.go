package service

import (
	"context"
	"errors"
	"io"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/storage"
)

type imageStorageService struct {
	store storage.ImageStore
}

func NewImageStorageService(store storage.ImageStore) ImageStorageService {
	return &imageStorageService{store: store}
}

func (s *imageStorageService) UploadImage(ctx context.Context, session domain.Session, filename, contentType string, body io.Reader) (string, string, error) {
	const method = "ImageStorageService.UploadImage"
	logger.EnterMethod(method, "userID", session.UserID, "filename", filename, "contentType", contentType)

	key, err := storage.NewKey(contentType)
	if err != nil {
		err = domain.NewError(domain.KindInvalidInput, "content type %q is not allowed: use jpeg, png or gif", contentType)
		logger.ExitMethodWithError(method, err)
		return "", "", err
	}

	size, err := s.store.Save(ctx, key, body)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			err = domain.NewError(domain.KindInvalidInput, "image %q is too large", filename)
		}
		logger.ExitMethodWithError(method, err)
		return "", "", err
	}

	logger.ExitMethod(method, "key", key, "bytes", size)
	return key, s.store.URL(key), nil
}

func (s *imageStorageService) OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, "", domain.NotFound("image", key)
		}
		return nil, "", err
	}
	return rc, storage.ContentType(key), nil
}
