package models

// RichText is one annotated run of text inside a property or block.
// The JSON shape is the workspace store's own, so it round-trips unchanged.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        *string      `json:"href,omitempty"`
}

// TextContent is the structured payload of a "text" rich-text run.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is an inline hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// Annotations are independent style flags plus a palette colour.
// Color "default" (or empty) means inherit.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

// ColorDefault inherits the surrounding colour.
const ColorDefault = "default"

// NewRichText builds a single plain "text" run, the shape the store expects on write.
func NewRichText(content string) []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: content}}}
}

// Content returns the display text of a run, falling back from
// plain_text to text.content to "".
func (r RichText) Content() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// FirstText returns the display text of the first run, or "" when empty.
func FirstText(runs []RichText) string {
	if len(runs) == 0 {
		return ""
	}
	return runs[0].Content()
}
