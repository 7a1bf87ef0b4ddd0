package services

import (
	"context"

	"portfolio/internal/domain/models"
)

// DatabaseService backs the admin database viewer. Listings include
// store metadata and every status.
type DatabaseService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListCaseStudies(ctx context.Context) ([]models.CaseStudy, error)
	GetCaseStudy(ctx context.Context, id string) (*models.CaseStudy, error)

	// Overview fetches both databases concurrently
	Overview(ctx context.Context) (*models.DatabaseOverview, error)
}
