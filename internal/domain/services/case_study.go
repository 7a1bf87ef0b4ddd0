package services

import (
	"context"

	"portfolio/internal/domain/models"
)

// CaseStudyService is the business logic behind /api/case-studies.
type CaseStudyService interface {
	// ListPublished returns case studies whose status is models.StatusPublished
	ListPublished(ctx context.Context) ([]models.CaseStudy, error)

	GetCaseStudy(ctx context.Context, id string) (*models.CaseStudy, error)

	// GetWithContent also materializes the page's block tree
	GetWithContent(ctx context.Context, id string) (*models.CaseStudyWithContent, error)

	CreateCaseStudy(ctx context.Context, req *models.CreateCaseStudyRequest) (*models.CaseStudy, error)

	// UpdateCaseStudy applies present fields only
	UpdateCaseStudy(ctx context.Context, id string, req *models.UpdateCaseStudyRequest) (*models.CaseStudy, error)

	// DeleteCaseStudy archives the record
	DeleteCaseStudy(ctx context.Context, id string) error
}

// ContentTranslator materializes the block tree under a page or block.
type ContentTranslator interface {
	Tree(ctx context.Context, rootID string) ([]models.ContentBlock, error)
}
