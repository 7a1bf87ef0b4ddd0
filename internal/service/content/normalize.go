package content

import (
	"encoding/json"
	"fmt"

	"portfolio/internal/domain/models"
	"portfolio/internal/workspace"
)

// sourcePayload is the union of fields the store uses across block types.
type sourcePayload struct {
	RichText        []models.RichText   `json:"rich_text"`
	Color           string              `json:"color"`
	IsToggleable    bool                `json:"is_toggleable"`
	Checked         bool                `json:"checked"`
	Language        string              `json:"language"`
	Caption         []models.RichText   `json:"caption"`
	Icon            *models.Icon        `json:"icon"`
	Type            string              `json:"type"`
	External        *models.FileRef     `json:"external"`
	File            *models.FileRef     `json:"file"`
	Name            string              `json:"name"`
	URL             string              `json:"url"`
	TableWidth      int                 `json:"table_width"`
	HasColumnHeader bool                `json:"has_column_header"`
	HasRowHeader    bool                `json:"has_row_header"`
	Cells           [][]models.RichText `json:"cells"`
}

// resolvedURL picks the external URL for externally hosted assets and the
// store-hosted file URL otherwise.
func (p *sourcePayload) resolvedURL() string {
	if p.Type == "external" {
		if p.External != nil {
			return p.External.URL
		}
		return ""
	}
	if p.File != nil {
		return p.File.URL
	}
	return ""
}

// Normalize converts one raw store block into a ContentBlock without children.
func Normalize(b workspace.Block) (models.ContentBlock, error) {
	out := models.ContentBlock{
		ID:             b.ID,
		Type:           models.BlockType(b.Type),
		HasChildren:    b.HasChildren,
		CreatedTime:    b.CreatedTime,
		LastEditedTime: b.LastEditedTime,
	}

	content, err := normalizeContent(out.Type, b.Payload)
	if err != nil {
		return models.ContentBlock{}, fmt.Errorf("normalize block %s (%s): %w", b.ID, b.Type, err)
	}
	out.Content = content
	return out, nil
}

func normalizeContent(t models.BlockType, raw json.RawMessage) (models.BlockContent, error) {
	var p sourcePayload
	if isKnown(t) && len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
	}

	switch t {
	case models.BlockTypeParagraph, models.BlockTypeBulletedListItem, models.BlockTypeNumberedListItem,
		models.BlockTypeToggle, models.BlockTypeQuote:
		return models.TextBlock{RichText: runs(p.RichText), Color: p.Color}, nil

	case models.BlockTypeHeading1, models.BlockTypeHeading2, models.BlockTypeHeading3:
		return models.HeadingBlock{RichText: runs(p.RichText), Color: p.Color, IsToggleable: p.IsToggleable}, nil

	case models.BlockTypeToDo:
		return models.TodoBlock{RichText: runs(p.RichText), Checked: p.Checked, Color: p.Color}, nil

	case models.BlockTypeCode:
		return models.CodeBlock{RichText: runs(p.RichText), Language: p.Language, Caption: runs(p.Caption)}, nil

	case models.BlockTypeCallout:
		return models.CalloutBlock{RichText: runs(p.RichText), Icon: p.Icon, Color: p.Color}, nil

	case models.BlockTypeImage, models.BlockTypeVideo, models.BlockTypePDF:
		return models.MediaBlock{Caption: runs(p.Caption), Type: p.Type, URL: p.resolvedURL()}, nil

	case models.BlockTypeFile:
		return models.FileBlock{Caption: runs(p.Caption), Type: p.Type, URL: p.resolvedURL(), Name: p.Name}, nil

	case models.BlockTypeBookmark, models.BlockTypeEmbed:
		return models.LinkBlock{URL: p.URL, Caption: runs(p.Caption)}, nil

	case models.BlockTypeTable:
		return models.TableBlock{
			TableWidth:      p.TableWidth,
			HasColumnHeader: p.HasColumnHeader,
			HasRowHeader:    p.HasRowHeader,
		}, nil

	case models.BlockTypeTableRow:
		cells := make([][]models.RichText, len(p.Cells))
		for i, c := range p.Cells {
			cells[i] = runs(c)
		}
		return models.TableRowBlock{Cells: cells}, nil

	case models.BlockTypeDivider, models.BlockTypeColumnList, models.BlockTypeColumn:
		return models.EmptyBlock{}, nil

	default:
		if len(raw) == 0 {
			raw = json.RawMessage(`{}`)
		}
		return models.UnsupportedBlock{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

var knownTypes = map[models.BlockType]struct{}{
	models.BlockTypeParagraph: {}, models.BlockTypeHeading1: {}, models.BlockTypeHeading2: {},
	models.BlockTypeHeading3: {}, models.BlockTypeBulletedListItem: {}, models.BlockTypeNumberedListItem: {},
	models.BlockTypeToDo: {}, models.BlockTypeToggle: {}, models.BlockTypeCode: {}, models.BlockTypeQuote: {},
	models.BlockTypeCallout: {}, models.BlockTypeDivider: {}, models.BlockTypeImage: {}, models.BlockTypeVideo: {},
	models.BlockTypeFile: {}, models.BlockTypePDF: {}, models.BlockTypeBookmark: {}, models.BlockTypeEmbed: {},
	models.BlockTypeTable: {}, models.BlockTypeTableRow: {}, models.BlockTypeColumnList: {}, models.BlockTypeColumn: {},
}

func isKnown(t models.BlockType) bool {
	_, ok := knownTypes[t]
	return ok
}

func runs(r []models.RichText) []models.RichText {
	if r == nil {
		return []models.RichText{}
	}
	return r
}
