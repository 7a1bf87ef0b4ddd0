package render

import (
	"github.com/microcosm-cc/bluemonday"

	"portfolio/internal/domain/models"
)

// Renderer produces sanitized HTML for translated content.
//
// Thread-safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer starts from the UGC policy and allows the classes, styles
// and media elements the block tree emits. Scripts, event handlers and
// javascript: URLs are still stripped.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()

	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("data-block-id").OnElements("div")
	policy.AllowAttrs("data-language").OnElements("code")
	policy.AllowStyles("color", "background-color", "margin-left").Globally()

	policy.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
	policy.AllowElements("iframe", "video", "input")
	policy.AllowAttrs("src").OnElements("iframe", "video")
	policy.AllowAttrs("controls").OnElements("video")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")

	return &Renderer{policy: policy}
}

// Sanitize strips anything outside the policy from raw HTML.
func (r *Renderer) Sanitize(html string) string {
	return r.policy.Sanitize(html)
}

// Render converts blocks to sanitized HTML.
func (r *Renderer) Render(blocks []models.ContentBlock) string {
	return r.Sanitize(HTML(Blocks(blocks)))
}
