package service

import (
	"context"
	"errors"

	"authsphere/domain"

	"gorm.io/gorm"
)

type userService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) domain.UserUseCase {
	return &userService{repo: repo}
}

func (s *userService) Me(ctx context.Context, userUUID string) (*domain.User, error) {
	user, err := s.repo.GetUserByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the mutable identity fields to the caller's own
// record. Email is not part of ProfileChanges: it stays read-only for life.
func (s *userService) UpdateProfile(ctx context.Context, userUUID string, changes domain.ProfileChanges) (*domain.User, error) {
	user, err := s.repo.GetUserByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if changes.Username != nil {
		user.Username = *changes.Username
	}
	if changes.FirstName != nil {
		user.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		user.LastName = *changes.LastName
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
