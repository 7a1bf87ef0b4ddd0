package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"portfolio/internal/config"
	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/domain/services"
)

// Caller-facing case study messages
const (
	MsgNameRequired     = "Case study name is required"
	MsgNoFieldsToUpdate = "No fields provided for update"
)

// CaseStudyService implements services.CaseStudyService
type CaseStudyService struct {
	repo       repositories.CaseStudyRepository
	translator services.ContentTranslator
	logger     *slog.Logger
}

// NewCaseStudyService creates a new case study service
func NewCaseStudyService(
	repo repositories.CaseStudyRepository,
	translator services.ContentTranslator,
	logger *slog.Logger,
) services.CaseStudyService {
	return &CaseStudyService{
		repo:       repo,
		translator: translator,
		logger:     logger,
	}
}

// ListPublished returns only published case studies, filtered by the store
func (s *CaseStudyService) ListPublished(ctx context.Context) ([]models.CaseStudy, error) {
	list, err := s.repo.List(ctx, models.FilterPublished)
	if err != nil {
		return nil, fmt.Errorf("list case studies: %w", err)
	}
	return list, nil
}

// GetCaseStudy returns one case study without content
func (s *CaseStudyService) GetCaseStudy(ctx context.Context, id string) (*models.CaseStudy, error) {
	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case study: %w", err)
	}
	return cs, nil
}

// GetWithContent returns the case study and its full block tree
func (s *CaseStudyService) GetWithContent(ctx context.Context, id string) (*models.CaseStudyWithContent, error) {
	cs, err := s.GetCaseStudy(ctx, id)
	if err != nil {
		return nil, err
	}

	blocks, err := s.translator.Tree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case study content: %w", err)
	}

	return &models.CaseStudyWithContent{
		CaseStudy:  *cs,
		Blocks:     blocks,
		HasContent: len(blocks) > 0,
	}, nil
}

// CreateCaseStudy validates and stores a new case study
func (s *CaseStudyService) CreateCaseStudy(ctx context.Context, req *models.CreateCaseStudyRequest) (*models.CaseStudy, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError(MsgNameRequired)
	}

	status := req.Status
	if status == "" {
		status = models.StatusNotStarted
	}

	cs := &models.CaseStudy{
		Name:           name,
		ProjectDetails: req.ProjectDetails,
		Tags:           models.DedupeTags(req.Tags),
		CoverImage:     normalizeCover(req.CoverImage),
		Status:         status,
	}
	if err := s.validate(cs); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, cs)
	if err != nil {
		return nil, fmt.Errorf("create case study: %w", err)
	}

	s.logger.Info("case study created", "case_study_id", created.ID, "status", created.Status)
	return created, nil
}

// UpdateCaseStudy applies the present fields of req
func (s *CaseStudyService) UpdateCaseStudy(ctx context.Context, id string, req *models.UpdateCaseStudyRequest) (*models.CaseStudy, error) {
	if req.IsEmpty() {
		return nil, domain.NewValidationError(MsgNoFieldsToUpdate)
	}

	if req.Name.Present {
		req.Name.Value = strings.TrimSpace(req.Name.Value)
		if req.Name.Value == "" {
			return nil, domain.NewValidationError(MsgNameRequired)
		}
	}
	if req.Tags.Present {
		req.Tags.Value = models.DedupeTags(req.Tags.Value)
	}
	if req.CoverImage.Present {
		req.CoverImage.Value = normalizeCover(req.CoverImage.Value)
	}

	err := validation.Errors{
		"name":           validation.Validate(req.Name.Value, validation.Length(0, config.MaxCaseStudyNameLength)),
		"projectDetails": validation.Validate(req.ProjectDetails.Value, validation.Length(0, config.MaxProjectDetailsLength)),
		"status":         validation.Validate(req.Status.Value, validation.When(req.Status.Present, validation.Required, statusRule)),
		"tags":           validation.Validate(req.Tags.Value, tagsRules...),
		"coverImage":     validateCover(req.CoverImage.Value),
	}.Filter()
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update case study: %w", err)
	}

	s.logger.Info("case study updated", "case_study_id", id)
	return updated, nil
}

// DeleteCaseStudy archives the record; it disappears from every listing
func (s *CaseStudyService) DeleteCaseStudy(ctx context.Context, id string) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return fmt.Errorf("delete case study: %w", err)
	}
	s.logger.Info("case study archived", "case_study_id", id)
	return nil
}

var (
	statusRule = validation.In(toAny(models.CaseStudyStatuses)...).
			Error("must be one of: " + strings.Join(models.CaseStudyStatuses, ", "))
	noComma   = regexp.MustCompile(`^[^,]*$`)
	tagsRules = []validation.Rule{
		validation.Length(0, config.MaxTags),
		validation.Each(
			validation.Length(1, config.MaxTagLength),
			validation.Match(noComma).Error("must not contain commas"),
		),
	}
)

func (s *CaseStudyService) validate(cs *models.CaseStudy) error {
	err := validation.ValidateStruct(cs,
		validation.Field(&cs.Name, validation.Length(1, config.MaxCaseStudyNameLength)),
		validation.Field(&cs.ProjectDetails, validation.Length(0, config.MaxProjectDetailsLength)),
		validation.Field(&cs.Status, validation.Required, statusRule),
		validation.Field(&cs.Tags, tagsRules...),
	)
	if err == nil {
		err = validateCover(cs.CoverImage)
	}
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

func validateCover(c *models.CoverImage) error {
	if c == nil {
		return nil
	}
	return validation.Errors{
		"url": validation.Validate(c.URL, validation.By(httpURL)),
	}.Filter()
}

// httpURL accepts absolute http(s) URLs only.
func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// normalizeCover treats a cover without a URL as no cover and fills in
// the default name.
func normalizeCover(c *models.CoverImage) *models.CoverImage {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return nil
	}
	out := &models.CoverImage{URL: strings.TrimSpace(c.URL), Name: c.Name}
	if out.Name == "" {
		out.Name = models.DefaultCoverImageName
	}
	return out
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
