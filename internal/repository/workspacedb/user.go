package workspacedb

import (
	"context"
	"log/slog"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/workspace"
)

// UserRepository stores users as pages of the users database
type UserRepository struct {
	cfg    *RepositoryConfig
	props  UserProperties
	logger *slog.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(cfg *RepositoryConfig) repositories.UserRepository {
	return &UserRepository{
		cfg:    cfg,
		props:  cfg.schema().Users,
		logger: cfg.Logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	props := workspace.Properties{
		r.props.Email:     workspace.TitleProperty(user.Email),
		r.props.Password:  workspace.RichTextProperty(user.PasswordHash),
		r.props.FullName:  workspace.RichTextProperty(user.FullName),
		r.props.Phone:     workspace.RichTextProperty(user.Phone),
		r.props.CreatedAt: workspace.DateProperty(r.cfg.now()),
	}

	page, err := r.cfg.Store.CreatePage(ctx, r.cfg.UsersDatabaseID, props)
	if err != nil {
		return nil, mapStoreError("create user", "User", err)
	}

	r.logger.Debug("user page created", "user_id", page.ID)
	return r.fromPage(page, false), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	pages, err := r.cfg.Store.QueryDatabase(ctx, r.cfg.UsersDatabaseID, workspace.TitleEquals(r.props.Email, email))
	if err != nil {
		return nil, mapStoreError("find user by email", "User", err)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return r.fromPage(&pages[0], false), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	page, err := r.retrieve(ctx, "get user", id)
	if err != nil {
		return nil, err
	}
	return r.fromPage(page, false), nil
}

func (r *UserRepository) retrieve(ctx context.Context, op, id string) (*workspace.Page, error) {
	page, err := r.cfg.Store.RetrievePage(ctx, id)
	if err != nil {
		return nil, mapStoreError(op, "User", err)
	}
	if page.Archived || !belongsTo(page, r.cfg.UsersDatabaseID) {
		return nil, &domain.NotFoundError{Message: "User not found"}
	}
	return page, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if _, err := r.retrieve(ctx, "update user", id); err != nil {
		return nil, err
	}

	props := workspace.Properties{}
	if req.FullName.Present {
		props[r.props.FullName] = workspace.RichTextProperty(req.FullName.Value)
	}
	if req.Phone.Present {
		props[r.props.Phone] = workspace.RichTextProperty(req.Phone.Value)
	}

	page, err := r.cfg.Store.UpdatePage(ctx, id, props)
	if err != nil {
		return nil, mapStoreError("update user", "User", err)
	}
	return r.fromPage(page, false), nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	pages, err := r.cfg.Store.QueryDatabase(ctx, r.cfg.UsersDatabaseID, nil)
	if err != nil {
		return nil, mapStoreError("list users", "User", err)
	}

	users := make([]models.User, 0, len(pages))
	for i := range pages {
		users = append(users, *r.fromPage(&pages[i], true))
	}
	return users, nil
}

// fromPage reads a user page. Absent optional properties map to "".
func (r *UserRepository) fromPage(page *workspace.Page, withMetadata bool) *models.User {
	p := page.Properties
	user := &models.User{
		ID:           page.ID,
		Email:        models.FirstText(p[r.props.Email].Title),
		PasswordHash: models.FirstText(p[r.props.Password].RichText),
		FullName:     models.FirstText(p[r.props.FullName].RichText),
		Phone:        models.FirstText(p[r.props.Phone].RichText),
		CreatedAt:    dateStart(p[r.props.CreatedAt]),
	}
	if withMetadata {
		user.URL = page.URL
		user.LastEditedTime = page.LastEditedTime
		user.CreatedTime = page.CreatedTime
	}
	return user
}

func dateStart(v workspace.PropertyValue) string {
	if v.Date == nil {
		return ""
	}
	return v.Date.Start
}
