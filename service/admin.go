package service

import (
	"context"
	"errors"

	"authsphere/domain"

	"gorm.io/gorm"
)

// adminService is a thin read-only facade over the stores for the staff
// endpoints. No business logic lives here.
type adminService struct {
	userRepo domain.UserRepository
	otpRepo  domain.OTPRepository
}

func NewAdminService(userRepo domain.UserRepository, otpRepo domain.OTPRepository) domain.AdminUseCase {
	return &adminService{userRepo: userRepo, otpRepo: otpRepo}
}

func (s *adminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	return s.userRepo.ListUsers(ctx, filter)
}

func (s *adminService) GetUser(ctx context.Context, uuid string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) ListOTPs(ctx context.Context, filter domain.OTPFilter) ([]domain.OTP, int64, error) {
	return s.otpRepo.ListOTPs(ctx, filter)
}
