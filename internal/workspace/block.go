package workspace

import (
	"encoding/json"
	"fmt"
)

// Block is one node of a page's content. The type-specific payload lives
// under a key equal to Type and is kept raw for the translator.
type Block struct {
	Object         string          `json:"object"`
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	CreatedTime    string          `json:"created_time"`
	LastEditedTime string          `json:"last_edited_time"`
	HasChildren    bool            `json:"has_children"`
	Archived       bool            `json:"archived"`
	Payload        json.RawMessage `json:"-"`
}

type blockAlias Block

// UnmarshalJSON captures the payload stored under the block's type key.
func (b *Block) UnmarshalJSON(data []byte) error {
	var alias blockAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*b = Block(alias)
	if raw, ok := fields[b.Type]; ok {
		b.Payload = raw
	}
	return nil
}

// MarshalJSON writes the payload back under the type key.
func (b Block) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(blockAlias(b))
	if err != nil {
		return nil, err
	}
	if b.Type == "" {
		return base, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	payload := b.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	fields[b.Type] = payload
	return json.Marshal(fields)
}

// BlockList is one page of block children.
type BlockList struct {
	Object     string  `json:"object"`
	Results    []Block `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// BlockInput is a block to append under a parent.
type BlockInput struct {
	Type    string
	Payload json.RawMessage
}

// NewBlockInput marshals payload into a BlockInput of the given type.
func NewBlockInput(blockType string, payload any) (BlockInput, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return BlockInput{}, fmt.Errorf("marshal %s payload: %w", blockType, err)
	}
	return BlockInput{Type: blockType, Payload: raw}, nil
}

// MarshalJSON writes {"object":"block","type":T,T:payload}.
func (in BlockInput) MarshalJSON() ([]byte, error) {
	payload := in.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	return json.Marshal(map[string]any{
		"object": "block",
		"type":   in.Type,
		in.Type:  payload,
	})
}
