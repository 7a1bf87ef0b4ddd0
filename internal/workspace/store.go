// Package workspace defines the contract with the external workspace store:
// databases of pages with typed properties, and pages with nested block content.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"portfolio/internal/domain/models"
)

// DefaultPageSize is the page size used when walking block children.
const DefaultPageSize = 100

// Store is the set of operations the adapter needs from the external store.
// Implementations must honour ctx cancellation and must not retry.
type Store interface {
	// CreatePage adds a page to a database.
	CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error)

	// QueryDatabase returns every non-archived page matching q, following
	// cursors until the result set is exhausted. Order is the store's own.
	QueryDatabase(ctx context.Context, databaseID string, q *Query) ([]Page, error)

	// RetrievePage returns a single page, archived or not.
	RetrievePage(ctx context.Context, pageID string) (*Page, error)

	// UpdatePage overwrites only the given properties and returns the updated page.
	UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error)

	// ArchivePage soft-deletes a page.
	ArchivePage(ctx context.Context, pageID string) (*Page, error)

	// ListBlockChildren returns one page of direct children of a block or page.
	ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*BlockList, error)

	// AppendBlockChildren appends blocks under a parent and returns them in order.
	AppendBlockChildren(ctx context.Context, blockID string, children []BlockInput) ([]Block, error)
}

// Query narrows a database query.
type Query struct {
	Filter *Filter `json:"filter,omitempty"`
}

// Filter is a single property condition.
type Filter struct {
	Property string     `json:"property"`
	Title    *Condition `json:"title,omitempty"`
	RichText *Condition `json:"rich_text,omitempty"`
	Status   *Condition `json:"status,omitempty"`
}

// Condition is an equality test on a property value.
type Condition struct {
	Equals string `json:"equals"`
}

// StatusEquals filters on a status property.
func StatusEquals(property, value string) *Query {
	return &Query{Filter: &Filter{Property: property, Status: &Condition{Equals: value}}}
}

// TitleEquals filters on a title property.
func TitleEquals(property, value string) *Query {
	return &Query{Filter: &Filter{Property: property, Title: &Condition{Equals: value}}}
}

// Match evaluates the filter against a page. Stores that cannot push the
// filter down to their backend use it to apply the same semantics.
func (f *Filter) Match(p Page) bool {
	if f == nil {
		return true
	}
	v, ok := p.Properties[f.Property]
	switch {
	case f.Title != nil:
		return ok && models.FirstText(v.Title) == f.Title.Equals
	case f.RichText != nil:
		return ok && models.FirstText(v.RichText) == f.RichText.Equals
	case f.Status != nil:
		return ok && v.Status != nil && v.Status.Name == f.Status.Equals
	}
	return true
}

// APIError is a rejection reported by the store.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("workspace API error (status %d, %s): %s", e.Status, e.Code, e.Message)
}

// Error codes shared by all store implementations.
const (
	CodeObjectNotFound  = "object_not_found"
	CodeValidationError = "validation_error"
	CodeRateLimited     = "rate_limited"
	CodeConflict        = "conflict_error"
)

// NotFound builds the store's not-found rejection.
func NotFound(kind, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeObjectNotFound,
		Message: fmt.Sprintf("Could not find %s with ID: %s.", kind, id),
	}
}

// Invalid builds the store's validation rejection.
func Invalid(format string, args ...any) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidationError,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict builds the store's rejection for a write that lost a race.
func Conflict(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

// IsNotFound reports whether err is a store not-found rejection.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Code == CodeObjectNotFound
	}
	return false
}
