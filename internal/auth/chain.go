package auth

import (
	"errors"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
)

// ChainVerifier accepts a token if any of its verifiers does.
type ChainVerifier struct {
	verifiers []JWTVerifier
}

// NewChainVerifier tries verifiers in order.
func NewChainVerifier(verifiers ...JWTVerifier) *ChainVerifier {
	return &ChainVerifier{verifiers: verifiers}
}

func (c *ChainVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	var errs []error
	for _, v := range c.verifiers {
		claims, err := v.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, domain.ErrUnauthorized
	}
	return nil, errors.Join(errs...)
}

func (c *ChainVerifier) Close() error {
	var errs []error
	for _, v := range c.verifiers {
		errs = append(errs, v.Close())
	}
	return errors.Join(errs...)
}
