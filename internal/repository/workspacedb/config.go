// Package workspacedb maps users, case studies and block content onto
// workspace databases through a workspace.Store.
package workspacedb

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/domain"
	"portfolio/internal/workspace"
)

// RepositoryConfig holds what every repository in this package needs
type RepositoryConfig struct {
	Store                 workspace.Store
	Schema                *Schema
	UsersDatabaseID       string
	CaseStudiesDatabaseID string
	PageSize              int
	Logger                *slog.Logger

	// Now stamps "Created At" on new records. Defaults to time.Now.
	Now func() time.Time
}

func (c *RepositoryConfig) now() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().UTC().Format(workspace.TimeLayout)
}

func (c *RepositoryConfig) schema() *Schema {
	if c.Schema == nil {
		c.Schema = DefaultSchema()
	}
	return c.Schema
}

// mapStoreError turns store not-found and conflict rejections into domain
// errors and wraps the rest.
func mapStoreError(op, kind string, err error) error {
	if workspace.IsNotFound(err) {
		return &domain.NotFoundError{Message: kind + " not found"}
	}
	var apiErr *workspace.APIError
	if errors.As(err, &apiErr) && apiErr.Code == workspace.CodeConflict {
		return &domain.ConflictError{Message: apiErr.Message}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// belongsTo reports whether page is a row of databaseID. Notion answers
// with dashed UUIDs while configured IDs are often undashed.
func belongsTo(page *workspace.Page, databaseID string) bool {
	return page.Parent.DatabaseID != "" && normalizeID(page.Parent.DatabaseID) == normalizeID(databaseID)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}
