package workspace

import (
	"encoding/json"
	"fmt"

	"portfolio/internal/domain/models"
)

// Normalize fills the read-side fields the hosted store derives on write:
// plain_text and default annotations on every rich-text run. Self-hosted
// stores call it so pages read back the same way regardless of backend.
func Normalize(props Properties) Properties {
	out := make(Properties, len(props))
	for name, v := range props {
		v.Title = normalizeRuns(v.Title)
		v.RichText = normalizeRuns(v.RichText)
		if v.Type == PropertyFiles {
			for i := range v.Files {
				if v.Files[i].Type == "" && v.Files[i].External != nil {
					v.Files[i].Type = "external"
				}
			}
		}
		out[name] = v
	}
	return out
}

func normalizeRuns(runs []models.RichText) []models.RichText {
	if runs == nil {
		return nil
	}
	out := make([]models.RichText, len(runs))
	for i, r := range runs {
		if r.Type == "" {
			r.Type = "text"
		}
		if r.PlainText == "" && r.Text != nil {
			r.PlainText = r.Text.Content
		}
		if r.Href == nil && r.Text != nil && r.Text.Link != nil {
			href := r.Text.Link.URL
			r.Href = &href
		}
		if r.Annotations == nil {
			r.Annotations = &models.Annotations{Color: models.ColorDefault}
		}
		out[i] = r
	}
	return out
}

// ClonePage deep-copies a page through its JSON form.
func ClonePage(p *Page) (*Page, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("clone page: %w", err)
	}
	var out Page
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone page: %w", err)
	}
	return &out, nil
}
