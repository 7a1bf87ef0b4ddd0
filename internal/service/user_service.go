package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"portfolio/internal/config"
	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/domain/services"
)

// MsgNoUserFields rejects a profile update with nothing in it
const MsgNoUserFields = "At least one field (fullName or phone) is required"

// UserService implements services.UserService
type UserService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) services.UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the stored user
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites fullName and/or phone
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error) {
	if req.IsEmpty() {
		return nil, domain.NewValidationError(MsgNoUserFields)
	}
	err := validation.Errors{
		"fullName": validation.Validate(req.FullName.Value, validation.Length(0, config.MaxFullNameLength)),
		"phone":    validation.Validate(req.Phone.Value, validation.Length(0, config.MaxPhoneLength)),
	}.Filter()
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	user, err := s.userRepo.Update(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"full_name", req.FullName.Present,
		"phone", req.Phone.Present,
	)
	return user, nil
}
