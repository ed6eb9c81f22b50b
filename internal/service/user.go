package service

import (
	"context"
	"strings"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ResolveSession(ctx context.Context, userID string) (domain.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Session{}, domain.NewError(domain.KindInvalidInput, "user id is required")
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.NewSession(u), nil
}
