package workspacedb

import (
	"context"
	"log/slog"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/workspace"
)

// CaseStudyRepository stores case studies as pages of the case studies database
type CaseStudyRepository struct {
	cfg    *RepositoryConfig
	props  CaseStudyProperties
	logger *slog.Logger
}

// NewCaseStudyRepository creates a new CaseStudyRepository
func NewCaseStudyRepository(cfg *RepositoryConfig) repositories.CaseStudyRepository {
	return &CaseStudyRepository{
		cfg:    cfg,
		props:  cfg.schema().CaseStudies,
		logger: cfg.Logger,
	}
}

func (r *CaseStudyRepository) Create(ctx context.Context, cs *models.CaseStudy) (*models.CaseStudy, error) {
	props := workspace.Properties{
		r.props.Name:           workspace.TitleProperty(cs.Name),
		r.props.ProjectDetails: workspace.RichTextProperty(cs.ProjectDetails),
		r.props.Status:         workspace.StatusProperty(cs.Status),
		r.props.CreatedAt:      workspace.DateProperty(r.cfg.now()),
	}
	if len(cs.Tags) > 0 {
		props[r.props.Tags] = workspace.MultiSelectProperty(cs.Tags)
	}
	if cs.CoverImage != nil && cs.CoverImage.URL != "" {
		props[r.props.CoverImage] = r.coverProperty(cs.CoverImage)
	}

	page, err := r.cfg.Store.CreatePage(ctx, r.cfg.CaseStudiesDatabaseID, props)
	if err != nil {
		return nil, mapStoreError("create case study", "Case study", err)
	}

	r.logger.Debug("case study page created", "case_study_id", page.ID)
	return r.fromPage(page, false), nil
}

func (r *CaseStudyRepository) GetByID(ctx context.Context, id string) (*models.CaseStudy, error) {
	page, err := r.retrieve(ctx, "get case study", id)
	if err != nil {
		return nil, err
	}
	return r.fromPage(page, false), nil
}

// retrieve loads a live page of the case studies database. Pages of any
// other database read as not found.
func (r *CaseStudyRepository) retrieve(ctx context.Context, op, id string) (*workspace.Page, error) {
	page, err := r.cfg.Store.RetrievePage(ctx, id)
	if err != nil {
		return nil, mapStoreError(op, "Case study", err)
	}
	if page.Archived || !belongsTo(page, r.cfg.CaseStudiesDatabaseID) {
		return nil, &domain.NotFoundError{Message: "Case study not found"}
	}
	return page, nil
}

func (r *CaseStudyRepository) List(ctx context.Context, filter models.CaseStudyFilter) ([]models.CaseStudy, error) {
	var query *workspace.Query
	withMetadata := true
	if filter == models.FilterPublished {
		query = workspace.StatusEquals(r.props.Status, models.StatusPublished)
		withMetadata = false
	}

	pages, err := r.cfg.Store.QueryDatabase(ctx, r.cfg.CaseStudiesDatabaseID, query)
	if err != nil {
		return nil, mapStoreError("list case studies", "Case study", err)
	}

	out := make([]models.CaseStudy, 0, len(pages))
	for i := range pages {
		out = append(out, *r.fromPage(&pages[i], withMetadata))
	}
	return out, nil
}

func (r *CaseStudyRepository) Update(ctx context.Context, id string, req *models.UpdateCaseStudyRequest) (*models.CaseStudy, error) {
	if _, err := r.retrieve(ctx, "update case study", id); err != nil {
		return nil, err
	}

	props := workspace.Properties{}
	if req.Name.Present {
		props[r.props.Name] = workspace.TitleProperty(req.Name.Value)
	}
	if req.ProjectDetails.Present {
		props[r.props.ProjectDetails] = workspace.RichTextProperty(req.ProjectDetails.Value)
	}
	if req.Status.Present {
		props[r.props.Status] = workspace.StatusProperty(req.Status.Value)
	}
	if req.Tags.Present {
		props[r.props.Tags] = workspace.MultiSelectProperty(req.Tags.Value)
	}
	if req.CoverImage.Present {
		props[r.props.CoverImage] = r.coverProperty(req.CoverImage.Value)
	}

	page, err := r.cfg.Store.UpdatePage(ctx, id, props)
	if err != nil {
		return nil, mapStoreError("update case study", "Case study", err)
	}
	return r.fromPage(page, false), nil
}

func (r *CaseStudyRepository) Archive(ctx context.Context, id string) error {
	if _, err := r.retrieve(ctx, "archive case study", id); err != nil {
		return err
	}
	if _, err := r.cfg.Store.ArchivePage(ctx, id); err != nil {
		return mapStoreError("archive case study", "Case study", err)
	}
	return nil
}

// coverProperty writes a single external file; nil clears the property.
func (r *CaseStudyRepository) coverProperty(cover *models.CoverImage) workspace.PropertyValue {
	if cover == nil {
		return workspace.ExternalFileProperty("", "")
	}
	name := cover.Name
	if name == "" {
		name = models.DefaultCoverImageName
	}
	return workspace.ExternalFileProperty(name, cover.URL)
}

// fromPage reads a case study page. Missing tags read as [], a missing
// cover as nil and a missing status as "Not Started".
func (r *CaseStudyRepository) fromPage(page *workspace.Page, withMetadata bool) *models.CaseStudy {
	p := page.Properties

	tags := make([]string, 0, len(p[r.props.Tags].MultiSelect))
	for _, opt := range p[r.props.Tags].MultiSelect {
		tags = append(tags, opt.Name)
	}

	status := models.StatusNotStarted
	if s := p[r.props.Status].Status; s != nil && s.Name != "" {
		status = s.Name
	}

	var cover *models.CoverImage
	if files := p[r.props.CoverImage].Files; len(files) > 0 {
		if url := files[0].ResolvedURL(); url != "" {
			cover = &models.CoverImage{URL: url, Name: files[0].Name}
		}
	}

	cs := &models.CaseStudy{
		ID:             page.ID,
		Name:           models.FirstText(p[r.props.Name].Title),
		ProjectDetails: models.FirstText(p[r.props.ProjectDetails].RichText),
		Tags:           tags,
		CoverImage:     cover,
		Status:         status,
		CreatedAt:      dateStart(p[r.props.CreatedAt]),
	}
	if withMetadata {
		cs.URL = page.URL
		cs.LastEditedTime = page.LastEditedTime
		cs.CreatedTime = page.CreatedTime
	}
	return cs
}
