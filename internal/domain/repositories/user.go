package repositories

import (
	"context"

	"portfolio/internal/domain/models"
)

// UserRepository defines data access for the users database
type UserRepository interface {
	// Create adds a user. PasswordHash must already be set.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail returns nil, nil when no user has that email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns domain.ErrNotFound when the user does not exist
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Update overwrites only the fields present in req and returns the stored user
	Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)

	// List returns every user in store order
	List(ctx context.Context) ([]models.User, error)
}
