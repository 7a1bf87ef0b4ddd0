// Package render turns translated content into display nodes and HTML.
package render

import (
	"strings"

	"portfolio/internal/domain/models"
)

// Style classes applied per annotation flag
const (
	ClassBold          = "rich-text-bold"
	ClassItalic        = "rich-text-italic"
	ClassUnderline     = "rich-text-underline"
	ClassStrikethrough = "rich-text-strikethrough"
	ClassCode          = "rich-text-code"
	ClassLink          = "rich-text-link"
)

// DefaultColor is what unknown palette names resolve to.
const DefaultColor = "#000000"

var palette = map[string]string{
	"gray":   "#9b9a97",
	"brown":  "#64473a",
	"orange": "#d9730d",
	"yellow": "#dfab01",
	"green":  "#0f7b6c",
	"blue":   "#0b6e99",
	"purple": "#6940a5",
	"pink":   "#ad1a72",
	"red":    "#e03e3e",

	"gray_background":   "#ebeced",
	"brown_background":  "#e9e5e3",
	"orange_background": "#faebdd",
	"yellow_background": "#fbf3db",
	"green_background":  "#ddedea",
	"blue_background":   "#ddebf1",
	"purple_background": "#eae4f2",
	"pink_background":   "#f4dfeb",
	"red_background":    "#fbe4e4",
}

// ResolveColor maps a palette name to a CSS hex value.
func ResolveColor(name string) string {
	if hex, ok := palette[name]; ok {
		return hex
	}
	return DefaultColor
}

// IsBackgroundColor reports whether a palette name is a background tint.
func IsBackgroundColor(name string) bool {
	return strings.HasSuffix(name, "_background")
}

// TextNode is one formatted run of text.
type TextNode struct {
	Text    string   `json:"text"`
	Href    *string  `json:"href,omitempty"`
	Classes []string `json:"classes,omitempty"`
	// Color is the resolved hex value; empty means inherit.
	Color string `json:"color,omitempty"`
	// Background is set when Color tints the background rather than the text.
	Background bool `json:"background,omitempty"`
}

// FormatRichText maps spans to text nodes one-to-one, in order.
func FormatRichText(spans []models.RichText) []TextNode {
	nodes := make([]TextNode, 0, len(spans))
	for _, span := range spans {
		node := TextNode{Text: span.Content()}
		if span.Href != nil {
			href := *span.Href
			node.Href = &href
		}

		if a := span.Annotations; a != nil {
			if a.Bold {
				node.Classes = append(node.Classes, ClassBold)
			}
			if a.Italic {
				node.Classes = append(node.Classes, ClassItalic)
			}
			if a.Underline {
				node.Classes = append(node.Classes, ClassUnderline)
			}
			if a.Strikethrough {
				node.Classes = append(node.Classes, ClassStrikethrough)
			}
			if a.Code {
				node.Classes = append(node.Classes, ClassCode)
			}
			if a.Color != "" && a.Color != models.ColorDefault {
				node.Color = ResolveColor(a.Color)
				node.Background = IsBackgroundColor(a.Color)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// PlainText concatenates the display text of every span.
func PlainText(spans []models.RichText) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Content())
	}
	return b.String()
}
