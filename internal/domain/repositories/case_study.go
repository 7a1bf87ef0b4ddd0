package repositories

import (
	"context"

	"portfolio/internal/domain/models"
)

// CaseStudyRepository defines data access for the case studies database
type CaseStudyRepository interface {
	// Create adds a case study with already-validated fields
	Create(ctx context.Context, cs *models.CaseStudy) (*models.CaseStudy, error)

	// GetByID returns domain.ErrNotFound for unknown or archived records
	GetByID(ctx context.Context, id string) (*models.CaseStudy, error)

	// List returns records in store order. The filter is applied by the store query.
	List(ctx context.Context, filter models.CaseStudyFilter) ([]models.CaseStudy, error)

	// Update overwrites only the fields present in req and returns the stored record
	Update(ctx context.Context, id string, req *models.UpdateCaseStudyRequest) (*models.CaseStudy, error)

	// Archive soft-deletes a record
	Archive(ctx context.Context, id string) error
}
