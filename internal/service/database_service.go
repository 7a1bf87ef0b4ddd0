package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/config"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/domain/services"
)

// DatabaseService implements services.DatabaseService
type DatabaseService struct {
	userRepo      repositories.UserRepository
	caseStudyRepo repositories.CaseStudyRepository
	logger        *slog.Logger
}

// NewDatabaseService creates the admin viewer service
func NewDatabaseService(
	userRepo repositories.UserRepository,
	caseStudyRepo repositories.CaseStudyRepository,
	logger *slog.Logger,
) services.DatabaseService {
	return &DatabaseService{
		userRepo:      userRepo,
		caseStudyRepo: caseStudyRepo,
		logger:        logger,
	}
}

func (s *DatabaseService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *DatabaseService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *DatabaseService) ListCaseStudies(ctx context.Context) ([]models.CaseStudy, error) {
	list, err := s.caseStudyRepo.List(ctx, models.FilterAll)
	if err != nil {
		return nil, fmt.Errorf("list case studies: %w", err)
	}
	return list, nil
}

func (s *DatabaseService) GetCaseStudy(ctx context.Context, id string) (*models.CaseStudy, error) {
	cs, err := s.caseStudyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case study: %w", err)
	}
	return cs, nil
}

// Overview counts both databases. Either listing failing fails the whole call.
func (s *DatabaseService) Overview(ctx context.Context) (*models.DatabaseOverview, error) {
	var (
		users       []models.User
		caseStudies []models.CaseStudy
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		caseStudies, err = s.ListCaseStudies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	byStatus := make(map[string]int)
	for _, cs := range caseStudies {
		byStatus[cs.Status]++
	}

	return &models.DatabaseOverview{
		Users: models.UserOverview{
			Total:  len(users),
			Recent: head(users, config.OverviewRecentCount),
		},
		CaseStudies: models.CaseStudyOverview{
			Total:    len(caseStudies),
			ByStatus: byStatus,
			Recent:   head(caseStudies, config.OverviewRecentCount),
		},
	}, nil
}

// head returns at most the first n items, never nil.
func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
