package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a PATCH field was sent, which *T alone cannot:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value!=nil: field has a value, possibly ""
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON is only called when the field is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CoverImageInput is the write shape of a cover image.
type CoverImageInput struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// OptionalString is a tri-state string.
type OptionalString = Optional[string]

// OptionalStrings is a tri-state string list.
type OptionalStrings = Optional[[]string]

// OptionalCover is a tri-state cover image.
type OptionalCover = Optional[CoverImageInput]
