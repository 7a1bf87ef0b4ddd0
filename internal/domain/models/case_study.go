package models

import "strings"

// Case study statuses
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusDone       = "Done"

	// StatusPublished is the status shown on the public list
	StatusPublished = StatusDone

	// DefaultCoverImageName labels a cover image supplied without a name
	DefaultCoverImageName = "cover-image"
)

// CaseStudyStatuses lists every accepted status value.
var CaseStudyStatuses = []string{StatusNotStarted, StatusInProgress, StatusCompleted, StatusDone}

// CaseStudy is a showcased project record.
type CaseStudy struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	ProjectDetails string      `json:"projectDetails"`
	Tags           []string    `json:"tags"`
	CoverImage     *CoverImage `json:"coverImage"`
	Status         string      `json:"status"`
	CreatedAt      string      `json:"createdAt,omitempty"`

	// Store metadata, filled on admin listings
	URL            string `json:"url,omitempty"`
	LastEditedTime string `json:"lastEditedTime,omitempty"`
	CreatedTime    string `json:"createdTime,omitempty"`
}

// CoverImage is an optional image shown on the case study card.
type CoverImage struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// CaseStudyWithContent adds the materialized block tree.
type CaseStudyWithContent struct {
	CaseStudy
	Blocks     []ContentBlock `json:"blocks"`
	HasContent bool           `json:"hasContent"`
}

// CaseStudyFilter selects which records a list returns.
type CaseStudyFilter int

const (
	// FilterPublished returns only StatusPublished records
	FilterPublished CaseStudyFilter = iota
	// FilterAll returns every non-archived record
	FilterAll
)

// CreateCaseStudyRequest is the body of POST /api/case-studies
type CreateCaseStudyRequest struct {
	Name           string      `json:"name"`
	ProjectDetails string      `json:"projectDetails"`
	Tags           []string    `json:"tags"`
	CoverImage     *CoverImage `json:"coverImage"`
	Status         string      `json:"status"`
}

// UpdateCaseStudyRequest is a partial update; absent fields are left untouched.
type UpdateCaseStudyRequest struct {
	Name           Optional[string]
	ProjectDetails Optional[string]
	Tags           Optional[[]string]
	CoverImage     Optional[*CoverImage]
	Status         Optional[string]
}

// IsEmpty reports whether no field was supplied.
func (r *UpdateCaseStudyRequest) IsEmpty() bool {
	return !r.Name.Present &&
		!r.ProjectDetails.Present &&
		!r.Tags.Present &&
		!r.CoverImage.Present &&
		!r.Status.Present
}

// DedupeTags trims tags and removes repeated and blank ones, keeping first
// occurrences in order. The result is never nil.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DatabaseOverview aggregates both databases for the admin viewer.
type DatabaseOverview struct {
	Users       UserOverview      `json:"users"`
	CaseStudies CaseStudyOverview `json:"caseStudies"`
}

// UserOverview counts users and lists the first few in store order.
type UserOverview struct {
	Total  int    `json:"total"`
	Recent []User `json:"recent"`
}

// CaseStudyOverview counts case studies by status.
type CaseStudyOverview struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Recent   []CaseStudy    `json:"recent"`
}
