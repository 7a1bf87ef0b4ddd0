package render

import (
	"strings"

	"portfolio/internal/domain/models"
)

// EmptyMessage is shown when a page has no blocks.
const EmptyMessage = "No content available."

// Blocks builds the display tree for a list of translated blocks.
func Blocks(blocks []models.ContentBlock) []*Node {
	if len(blocks) == 0 {
		return []*Node{El("p", Class("notion-empty"), Text(EmptyMessage))}
	}
	out := make([]*Node, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Block(b))
	}
	return out
}

// Block wraps a single block and its children.
func Block(b models.ContentBlock) *Node {
	wrapper := El("div", []Attr{
		{Key: "class", Val: "notion-block"},
		{Key: "data-block-id", Val: b.ID},
	})

	body := blockBody(b)
	wrapper.Append(body)

	if len(b.Children) == 0 {
		return wrapper
	}

	switch b.Type {
	case models.BlockTypeTable:
		// Rows go straight into the table element.
		for _, c := range b.Children {
			body.Append(tableRow(c))
		}
	case models.BlockTypeToggle:
		content := El("div", Class("notion-toggle-content"))
		for _, c := range b.Children {
			content.Append(Block(c))
		}
		body.Append(content)
	default:
		children := El("div", []Attr{
			{Key: "class", Val: "notion-block-children"},
			{Key: "style", Val: "margin-left: 20px"},
		})
		for _, c := range b.Children {
			children.Append(Block(c))
		}
		wrapper.Append(children)
	}
	return wrapper
}

func blockBody(b models.ContentBlock) *Node {
	switch c := b.Content.(type) {
	case models.TextBlock:
		return textBlock(b.Type, c)
	case models.HeadingBlock:
		level := strings.TrimPrefix(string(b.Type), "heading_")
		return withColor(El("h"+level, Class("notion-heading-"+level), RichText(c.RichText)...), c.Color)
	case models.TodoBlock:
		return todo(c)
	case models.CodeBlock:
		return El("pre", Class("notion-code"),
			El("code", []Attr{{Key: "data-language", Val: c.Language}}, Text(PlainText(c.RichText))))
	case models.CalloutBlock:
		return callout(c)
	case models.MediaBlock:
		return media(b.Type, c)
	case models.FileBlock:
		name := c.Name
		if name == "" {
			name = c.URL
		}
		return El("div", Class("notion-file"), externalLink("notion-file-link", c.URL, name), caption(c.Caption))
	case models.LinkBlock:
		if b.Type == models.BlockTypeEmbed {
			return El("div", Class("notion-embed"),
				El("iframe", []Attr{{Key: "src", Val: c.URL}, {Key: "class", Val: "notion-embed-frame"}}))
		}
		return El("div", Class("notion-bookmark"), externalLink("notion-bookmark-url", c.URL, c.URL), caption(c.Caption))
	case models.TableBlock:
		return El("table", Class("notion-table"))
	case models.TableRowBlock:
		return El("table", Class("notion-table"), tableRow(b))
	case models.EmptyBlock:
		switch b.Type {
		case models.BlockTypeDivider:
			return El("hr", Class("notion-divider"))
		case models.BlockTypeColumnList:
			return El("div", Class("notion-column-list"))
		default:
			return El("div", Class("notion-column"))
		}
	default:
		return unsupported(b.Type)
	}
}

func textBlock(t models.BlockType, c models.TextBlock) *Node {
	switch t {
	case models.BlockTypeBulletedListItem, models.BlockTypeNumberedListItem:
		return withColor(El("li", Class("notion-list-item"), RichText(c.RichText)...), c.Color)
	case models.BlockTypeToggle:
		header := El("div", Class("notion-toggle-header"),
			El("span", Class("notion-toggle-icon"), Text("▶")),
			El("span", nil, RichText(c.RichText)...),
		)
		return withColor(El("div", Class("notion-toggle"), header), c.Color)
	case models.BlockTypeQuote:
		return withColor(El("blockquote", Class("notion-quote"), RichText(c.RichText)...), c.Color)
	default:
		return withColor(El("p", Class("notion-paragraph"), RichText(c.RichText)...), c.Color)
	}
}

func todo(c models.TodoBlock) *Node {
	class := "notion-todo"
	if c.Checked {
		class += " checked"
	}
	box := []Attr{
		{Key: "type", Val: "checkbox"},
		{Key: "class", Val: "notion-todo-checkbox"},
		{Key: "disabled", Val: "disabled"},
	}
	if c.Checked {
		box = append(box, Attr{Key: "checked", Val: "checked"})
	}
	return El("div", Class(class),
		El("input", box),
		El("div", Class("notion-todo-text"), RichText(c.RichText)...),
	)
}

func callout(c models.CalloutBlock) *Node {
	icon := El("span", Class("notion-callout-icon"))
	if c.Icon != nil {
		if c.Icon.Type == "emoji" {
			icon.Append(Text(c.Icon.Emoji))
		} else if u := c.Icon.URL(); u != "" {
			icon.Append(El("img", []Attr{{Key: "src", Val: u}, {Key: "alt", Val: "Icon"}}))
		}
	}
	return withColor(El("div", Class("notion-callout"),
		icon,
		El("div", Class("notion-callout-text"), RichText(c.RichText)...),
	), c.Color)
}

func media(t models.BlockType, c models.MediaBlock) *Node {
	switch t {
	case models.BlockTypeImage:
		alt := PlainText(c.Caption)
		if alt == "" {
			alt = "Image"
		}
		return El("div", Class("notion-image-container"),
			El("img", []Attr{{Key: "src", Val: c.URL}, {Key: "alt", Val: alt}, {Key: "class", Val: "notion-image"}}),
			caption(c.Caption),
		)
	case models.BlockTypeVideo:
		return El("div", Class("notion-video-container"),
			El("video", []Attr{{Key: "src", Val: c.URL}, {Key: "controls", Val: "controls"}, {Key: "class", Val: "notion-video"}}),
			caption(c.Caption),
		)
	default:
		return El("div", Class("notion-pdf"), externalLink("notion-pdf-link", c.URL, c.URL), caption(c.Caption))
	}
}

func tableRow(b models.ContentBlock) *Node {
	row := El("tr", nil)
	c, ok := b.Content.(models.TableRowBlock)
	if !ok {
		return row
	}
	for _, cell := range c.Cells {
		row.Append(El("td", nil, RichText(cell)...))
	}
	return row
}

func unsupported(t models.BlockType) *Node {
	return El("div", Class("notion-unsupported"), Text("Unsupported block type: "+string(t)))
}

func caption(rt []models.RichText) *Node {
	if len(rt) == 0 {
		return nil
	}
	return El("div", Class("notion-caption"), RichText(rt)...)
}

func externalLink(class, href, label string) *Node {
	return El("a", []Attr{
		{Key: "href", Val: href},
		{Key: "class", Val: class},
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener noreferrer"},
	}, Text(label))
}

func withColor(n *Node, color string) *Node {
	if color == "" || color == models.ColorDefault {
		return n
	}
	n.Attrs = append(n.Attrs, Attr{Key: "style", Val: colorStyle(ResolveColor(color), IsBackgroundColor(color))})
	return n
}

func colorStyle(hex string, background bool) string {
	if background {
		return "background-color: " + hex
	}
	return "color: " + hex
}

// RichText converts formatted spans to inline nodes.
func RichText(spans []models.RichText) []*Node {
	formatted := FormatRichText(spans)
	out := make([]*Node, 0, len(formatted))
	for _, tn := range formatted {
		var attrs []Attr
		classes := tn.Classes
		tag := "span"
		if tn.Href != nil {
			tag = "a"
			classes = append([]string{ClassLink}, classes...)
			attrs = append(attrs,
				Attr{Key: "href", Val: *tn.Href},
				Attr{Key: "target", Val: "_blank"},
				Attr{Key: "rel", Val: "noopener noreferrer"},
			)
		}
		if len(classes) > 0 {
			attrs = append(attrs, Attr{Key: "class", Val: strings.Join(classes, " ")})
		}
		if tn.Color != "" {
			attrs = append(attrs, Attr{Key: "style", Val: colorStyle(tn.Color, tn.Background)})
		}
		out = append(out, El(tag, attrs, Text(tn.Text)))
	}
	return out
}
