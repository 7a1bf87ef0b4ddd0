package services

import (
	"context"

	"portfolio/internal/domain/models"
)

// UserService reads and updates the caller's own profile.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile applies present fields and returns the re-read user.
	// An empty request fails validation before the store is touched.
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error)
}
