package service

import (
	"context"

	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/google/uuid"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo user.Repository
}

// NewUserService creates a new user service
func NewUserService(userRepo user.Repository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

// GetProfile retrieves an account by its ID, returns ErrUserNotFound if missing
func (s *UserServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile updates the mutable profile fields of an account
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, address, city, country string) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		u.FullName = fullName
	}
	if address != "" {
		u.Address = address
	}
	if city != "" {
		u.City = city
	}
	if country != "" {
		u.Country = country
	}

	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
