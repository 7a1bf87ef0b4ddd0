package models

import (
	"encoding/json"
	"fmt"
)

// BlockType is the type tag of a content block.
type BlockType string

// Block type constants
const (
	BlockTypeParagraph        BlockType = "paragraph"
	BlockTypeHeading1         BlockType = "heading_1"
	BlockTypeHeading2         BlockType = "heading_2"
	BlockTypeHeading3         BlockType = "heading_3"
	BlockTypeBulletedListItem BlockType = "bulleted_list_item"
	BlockTypeNumberedListItem BlockType = "numbered_list_item"
	BlockTypeToDo             BlockType = "to_do"
	BlockTypeToggle           BlockType = "toggle"
	BlockTypeCode             BlockType = "code"
	BlockTypeQuote            BlockType = "quote"
	BlockTypeCallout          BlockType = "callout"
	BlockTypeDivider          BlockType = "divider"
	BlockTypeImage            BlockType = "image"
	BlockTypeVideo            BlockType = "video"
	BlockTypeFile             BlockType = "file"
	BlockTypePDF              BlockType = "pdf"
	BlockTypeBookmark         BlockType = "bookmark"
	BlockTypeEmbed            BlockType = "embed"
	BlockTypeTable            BlockType = "table"
	BlockTypeTableRow         BlockType = "table_row"
	BlockTypeColumnList       BlockType = "column_list"
	BlockTypeColumn           BlockType = "column"
)

// ContentBlock is one node of a materialized content tree. Children are
// owned by their parent and kept in the store's native order.
type ContentBlock struct {
	ID             string         `json:"id"`
	Type           BlockType      `json:"type"`
	HasChildren    bool           `json:"has_children"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	Content        BlockContent   `json:"content"`
	Children       []ContentBlock `json:"children,omitempty"`

	// Truncated marks a block whose children were not fetched because the
	// depth limit was reached.
	Truncated bool `json:"truncated,omitempty"`
}

type contentBlockJSON struct {
	ID             string          `json:"id"`
	Type           BlockType       `json:"type"`
	HasChildren    bool            `json:"has_children"`
	CreatedTime    string          `json:"created_time"`
	LastEditedTime string          `json:"last_edited_time"`
	Content        json.RawMessage `json:"content"`
	Children       []ContentBlock  `json:"children,omitempty"`
	Truncated      bool            `json:"truncated,omitempty"`
}

// UnmarshalJSON decodes Content into the variant selected by Type.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var raw contentBlockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := ParseBlockContent(raw.Type, raw.Content)
	if err != nil {
		return fmt.Errorf("block %s: %w", raw.ID, err)
	}
	*b = ContentBlock{
		ID:             raw.ID,
		Type:           raw.Type,
		HasChildren:    raw.HasChildren,
		CreatedTime:    raw.CreatedTime,
		LastEditedTime: raw.LastEditedTime,
		Content:        content,
		Children:       raw.Children,
		Truncated:      raw.Truncated,
	}
	return nil
}

// CountBlocks returns the number of nodes in a forest.
func CountBlocks(blocks []ContentBlock) int {
	n := len(blocks)
	for i := range blocks {
		n += CountBlocks(blocks[i].Children)
	}
	return n
}

// BlockContent is the closed set of type-specific payloads. Every known
// block type maps to exactly one variant; anything else is UnsupportedBlock.
type BlockContent interface {
	blockContent()
}

// TextBlock covers paragraph, list items, toggle and quote.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

// HeadingBlock covers heading_1..3.
type HeadingBlock struct {
	RichText     []RichText `json:"rich_text"`
	Color        string     `json:"color"`
	IsToggleable bool       `json:"is_toggleable"`
}

// TodoBlock is a checklist item.
type TodoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color"`
}

// CodeBlock is a source listing.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Caption  []RichText `json:"caption"`
}

// CalloutBlock is highlighted text with an icon.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon"`
	Color    string     `json:"color"`
}

// Icon is an emoji or an image.
type Icon struct {
	Type     string   `json:"type"`
	Emoji    string   `json:"emoji,omitempty"`
	External *FileRef `json:"external,omitempty"`
	File     *FileRef `json:"file,omitempty"`
}

// URL returns the image URL of a non-emoji icon.
func (i *Icon) URL() string {
	if i == nil {
		return ""
	}
	if i.External != nil {
		return i.External.URL
	}
	if i.File != nil {
		return i.File.URL
	}
	return ""
}

// FileRef points at an external or store-hosted file.
type FileRef struct {
	URL string `json:"url"`
}

// MediaBlock covers image, video and pdf. Type is "external" or "file";
// URL is already resolved from the matching source.
type MediaBlock struct {
	Caption []RichText `json:"caption"`
	Type    string     `json:"type"`
	URL     string     `json:"url"`
}

// FileBlock is a downloadable attachment.
type FileBlock struct {
	Caption []RichText `json:"caption"`
	Type    string     `json:"type"`
	URL     string     `json:"url"`
	Name    string     `json:"name"`
}

// LinkBlock covers bookmark and embed.
type LinkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption"`
}

// TableBlock describes a table; rows arrive as table_row children.
type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

// TableRowBlock holds one rich-text run list per cell.
type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// EmptyBlock covers divider, column_list and column.
type EmptyBlock struct{}

// UnsupportedBlock keeps the raw payload of an unrecognized type.
type UnsupportedBlock struct {
	Raw json.RawMessage
}

// MarshalJSON emits the raw payload unchanged.
func (u UnsupportedBlock) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte(`{}`), nil
	}
	return u.Raw, nil
}

func (TextBlock) blockContent()        {}
func (HeadingBlock) blockContent()     {}
func (TodoBlock) blockContent()        {}
func (CodeBlock) blockContent()        {}
func (CalloutBlock) blockContent()     {}
func (MediaBlock) blockContent()       {}
func (FileBlock) blockContent()        {}
func (LinkBlock) blockContent()        {}
func (TableBlock) blockContent()       {}
func (TableRowBlock) blockContent()    {}
func (EmptyBlock) blockContent()       {}
func (UnsupportedBlock) blockContent() {}

// ParseBlockContent decodes an already-normalized content payload.
func ParseBlockContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage(`{}`)
	}

	switch t {
	case BlockTypeParagraph, BlockTypeBulletedListItem, BlockTypeNumberedListItem,
		BlockTypeToggle, BlockTypeQuote:
		return decodeInto[TextBlock](raw)
	case BlockTypeHeading1, BlockTypeHeading2, BlockTypeHeading3:
		return decodeInto[HeadingBlock](raw)
	case BlockTypeToDo:
		return decodeInto[TodoBlock](raw)
	case BlockTypeCode:
		return decodeInto[CodeBlock](raw)
	case BlockTypeCallout:
		return decodeInto[CalloutBlock](raw)
	case BlockTypeImage, BlockTypeVideo, BlockTypePDF:
		return decodeInto[MediaBlock](raw)
	case BlockTypeFile:
		return decodeInto[FileBlock](raw)
	case BlockTypeBookmark, BlockTypeEmbed:
		return decodeInto[LinkBlock](raw)
	case BlockTypeTable:
		return decodeInto[TableBlock](raw)
	case BlockTypeTableRow:
		return decodeInto[TableRowBlock](raw)
	case BlockTypeDivider, BlockTypeColumnList, BlockTypeColumn:
		return EmptyBlock{}, nil
	default:
		return UnsupportedBlock{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

func decodeInto[T BlockContent](raw json.RawMessage) (BlockContent, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return v, nil
}
