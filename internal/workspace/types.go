package workspace

import (
	"encoding/json"
	"fmt"

	"portfolio/internal/domain/models"
)

// TimeLayout is the timestamp format used for created/last-edited times.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Property value types understood by the adapter.
const (
	PropertyTitle       = "title"
	PropertyRichText    = "rich_text"
	PropertyDate        = "date"
	PropertyStatus      = "status"
	PropertyMultiSelect = "multi_select"
	PropertyFiles       = "files"
)

// Page is one record in a database.
type Page struct {
	Object         string     `json:"object"`
	ID             string     `json:"id"`
	CreatedTime    string     `json:"created_time"`
	LastEditedTime string     `json:"last_edited_time"`
	Archived       bool       `json:"archived"`
	URL            string     `json:"url"`
	Parent         Parent     `json:"parent"`
	Properties     Properties `json:"properties"`
}

// Parent identifies the database a page belongs to.
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// Properties maps property names to typed values.
type Properties map[string]PropertyValue

// PropertyValue is a typed property. Only the field matching Type is meaningful.
type PropertyValue struct {
	ID          string            `json:"id,omitempty"`
	Type        string            `json:"type,omitempty"`
	Title       []models.RichText `json:"title,omitempty"`
	RichText    []models.RichText `json:"rich_text,omitempty"`
	Date        *DateValue        `json:"date,omitempty"`
	Status      *SelectOption     `json:"status,omitempty"`
	MultiSelect []SelectOption    `json:"multi_select,omitempty"`
	Files       []FileObject      `json:"files,omitempty"`
}

// MarshalJSON always emits the payload for Type, so an empty multi_select
// or files list is sent as [] and clears the property.
func (p PropertyValue) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if p.ID != "" {
		m["id"] = p.ID
	}
	m["type"] = p.Type

	switch p.Type {
	case PropertyTitle:
		m[PropertyTitle] = nonNil(p.Title)
	case PropertyRichText:
		m[PropertyRichText] = nonNil(p.RichText)
	case PropertyDate:
		m[PropertyDate] = p.Date
	case PropertyStatus:
		m[PropertyStatus] = p.Status
	case PropertyMultiSelect:
		m[PropertyMultiSelect] = nonNil(p.MultiSelect)
	case PropertyFiles:
		m[PropertyFiles] = nonNil(p.Files)
	default:
		return nil, fmt.Errorf("unsupported property type %q", p.Type)
	}

	return json.Marshal(m)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// DateValue is a date or date range.
type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// SelectOption is one status or multi-select option.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FileObject is an attached file, hosted externally or by the store.
type FileObject struct {
	Name     string   `json:"name"`
	Type     string   `json:"type,omitempty"`
	External *FileURL `json:"external,omitempty"`
	File     *FileURL `json:"file,omitempty"`
}

// FileURL locates a file. ExpiryTime is set for store-hosted files.
type FileURL struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// ResolvedURL prefers the externally hosted URL over the store-hosted one.
func (f FileObject) ResolvedURL() string {
	if f.External != nil && f.External.URL != "" {
		return f.External.URL
	}
	if f.File != nil {
		return f.File.URL
	}
	return ""
}

// Property constructors used when writing pages.

func TitleProperty(s string) PropertyValue {
	return PropertyValue{Type: PropertyTitle, Title: models.NewRichText(s)}
}

func RichTextProperty(s string) PropertyValue {
	return PropertyValue{Type: PropertyRichText, RichText: models.NewRichText(s)}
}

func DateProperty(start string) PropertyValue {
	return PropertyValue{Type: PropertyDate, Date: &DateValue{Start: start}}
}

func StatusProperty(name string) PropertyValue {
	return PropertyValue{Type: PropertyStatus, Status: &SelectOption{Name: name}}
}

func MultiSelectProperty(names []string) PropertyValue {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return PropertyValue{Type: PropertyMultiSelect, MultiSelect: opts}
}

// ExternalFileProperty sets a single externally hosted file. An empty url clears the property.
func ExternalFileProperty(name, url string) PropertyValue {
	if url == "" {
		return PropertyValue{Type: PropertyFiles, Files: []FileObject{}}
	}
	return PropertyValue{Type: PropertyFiles, Files: []FileObject{{
		Name:     name,
		Type:     "external",
		External: &FileURL{URL: url},
	}}}
}
