package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/domain/services"
)

// Caller-facing auth messages
const (
	MsgCredentialsRequired = "Email and password are required"
	MsgEmailTaken          = "User already exists with this email"
	MsgInvalidCredentials  = "Invalid email or password"
)

// AuthService implements services.AuthService
type AuthService struct {
	userRepo repositories.UserRepository
	issuer   auth.TokenIssuer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	issuer auth.TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Register creates a user with a bcrypt-hashed password and issues a token
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, domain.NewValidationError(MsgCredentialsRequired)
	}
	if err := s.validateRegister(req); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError(MsgEmailTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.result(user)
}

// Login verifies the password and issues a token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.NewValidationError(MsgCredentialsRequired)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, &domain.UnauthorizedError{Message: MsgInvalidCredentials}
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		// A record with a missing or corrupt hash can never log in.
		s.logger.Warn("stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, &domain.UnauthorizedError{Message: MsgInvalidCredentials}
	}
	if !ok {
		return nil, &domain.UnauthorizedError{Message: MsgInvalidCredentials}
	}

	s.logger.Debug("user logged in", "user_id", user.ID)
	return s.result(user)
}

func (s *AuthService) result(user *models.User) (*models.AuthResult, error) {
	token, err := s.issuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *AuthService) validateRegister(req *models.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, is.EmailFormat, validation.Length(1, config.MaxEmailLength)),
		validation.Field(&req.Password, validation.Length(1, config.MaxPasswordLength)),
		validation.Field(&req.FullName, validation.Length(0, config.MaxFullNameLength)),
		validation.Field(&req.Phone, validation.Length(0, config.MaxPhoneLength)),
	)
}
