package services

import (
	"context"

	"portfolio/internal/domain/models"
)

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService interface {
	// Register creates an account and signs the caller in.
	// A duplicate email is a validation error.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error)

	// Login checks credentials. Unknown email and wrong password both
	// return the same unauthorized error.
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
}
