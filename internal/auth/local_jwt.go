package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid.
	DefaultTokenTTL = 24 * time.Hour
	// DefaultIssuer is the iss claim of every locally issued token.
	DefaultIssuer = "portfolio-api"
)

// LocalJWT issues and verifies HS256 tokens signed with a shared secret.
type LocalJWT struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	// now is overridden in tests.
	now func() time.Time
}

// NewLocalJWT creates a LocalJWT. A zero ttl means DefaultTokenTTL.
func NewLocalJWT(secret string, ttl time.Duration, logger *slog.Logger) (*LocalJWT, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &LocalJWT{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// IssueToken signs a token carrying userId and email.
func (a *LocalJWT) IssueToken(userID, email string) (string, error) {
	now := a.now()
	claims := models.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, issuer and expiry.
func (a *LocalJWT) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithIssuer(DefaultIssuer))
	if err != nil {
		a.logger.Debug("token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || claims.GetUserID() == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Close is a no-op.
func (a *LocalJWT) Close() error { return nil }
